// Package textutil provides the text primitives behind content similarity.
//
// The primary use cases are:
//   - Tokenizing free text into lower-cased word tokens with English stop
//     words removed
//   - Collecting document frequencies across a corpus and deriving smoothed
//     IDF weights
//   - Building and comparing sparse term vectors
//
// Tokens are runs of at least two letters, digits, or underscores. The
// stop-word list is embedded and matches the common English list used by
// text vectorizers.
package textutil
