// Package aggregate runs a full recommendation pass: it loads the catalog,
// builds the similarity matrix once, gathers candidates per requested title
// from the local recommender or the external fallback, validates and
// deduplicates them, and samples the final answer.
//
// BuildPool is deterministic for fixed inputs and collaborators; only Sample
// draws randomness, from an injected source.
package aggregate
