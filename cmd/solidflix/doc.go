// Package main hosts the solidflix CLI entrypoint and command graph.
//
// The Cobra-based command tree runs recommendation passes, inspects local
// similarity scores, queries TMDB fallbacks, imports the catalog into SQLite,
// maintains the title cache, and serves the HTTP adapter. Configuration
// resolution and logger setup live here so subcommands only wire the
// internal packages together.
//
// Keep this package lean: new behavior belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
