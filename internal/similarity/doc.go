// Package similarity turns feature documents into a square cosine similarity
// matrix.
//
// Combined cast/genre text is vectorized as raw term counts and plot text as
// L2-normalized TF-IDF weights. Each row's two sparse vectors are joined
// column-wise and every pair of rows is compared by cosine similarity. The
// matrix is built per request by a Transformer and never cached.
package similarity
