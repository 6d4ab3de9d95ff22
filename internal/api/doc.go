// Package api wires solidflix components from configuration and exposes the
// recommendation engine over HTTP.
//
// OpenEngine is shared by the CLI and the HTTP server: it selects the catalog
// source, stacks the TMDB client, circuit breaker and title cache, and builds
// the aggregator. Server is a thin chi router in front of a Recommender:
// POST / accepts a JSON array of titles and answers with a JSON array of
// recommended titles.
package api
