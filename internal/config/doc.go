// Package config loads, normalizes, and validates solidflix configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and SOLIDFLIX_CATALOG. The Config type centralizes every knob
// the CLI, the HTTP adapter and the recommendation engine need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
