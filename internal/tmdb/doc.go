// Package tmdb wraps The Movie Database HTTP API.
//
// Client performs rate-limited GET requests for movie search, details,
// recommendations and similar titles. Breaker guards any Searcher with a
// circuit breaker so a failing upstream is rejected fast. MetadataAdapter
// exposes a Searcher as the lookup.MetadataService the engine consumes.
package tmdb
