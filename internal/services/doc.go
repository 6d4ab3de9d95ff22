// Package services defines shared utilities consumed by the recommendation
// engine, its external integrations, and the HTTP adapter.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation identifiers and the
//     title being processed for logging.
//   - Structured error markers plus the Wrap helper so failures keep their
//     classification (data unavailable, external service, insufficient
//     candidates) as they bubble up.
//   - Classify, which translates those markers into transport status codes.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the engine.
package services
