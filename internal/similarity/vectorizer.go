package similarity

import "solidflix/internal/textutil"

// CountVectorizer maps documents to raw term-count vectors over a sorted
// vocabulary.
type CountVectorizer struct {
	vocabulary []string
}

// Vocabulary returns the fitted terms in column order.
func (v *CountVectorizer) Vocabulary() []string { return v.vocabulary }

// FitTransform learns the vocabulary of docs and returns one vector per doc.
func (v *CountVectorizer) FitTransform(docs []string) []textutil.Vector {
	counts, columns := fit(docs)
	v.vocabulary = columns.terms
	out := make([]textutil.Vector, len(docs))
	for i, terms := range counts {
		entries := make(map[int]float64, len(terms))
		for term, n := range terms {
			entries[columns.index[term]] = float64(n)
		}
		out[i] = textutil.NewVector(entries)
	}
	return out
}

// TFIDFVectorizer maps documents to L2-normalized TF-IDF vectors with smoothed
// IDF weights.
type TFIDFVectorizer struct {
	vocabulary []string
	idf        map[string]float64
}

// Vocabulary returns the fitted terms in column order.
func (v *TFIDFVectorizer) Vocabulary() []string { return v.vocabulary }

// IDF returns the fitted weight of term, or 0 when unknown.
func (v *TFIDFVectorizer) IDF(term string) float64 { return v.idf[term] }

// FitTransform learns vocabulary and IDF weights from docs and returns one
// normalized vector per doc.
func (v *TFIDFVectorizer) FitTransform(docs []string) []textutil.Vector {
	counts, columns := fit(docs)
	v.vocabulary = columns.terms
	v.idf = columns.corpus.IDF()
	out := make([]textutil.Vector, len(docs))
	for i, terms := range counts {
		entries := make(map[int]float64, len(terms))
		for term, n := range terms {
			entries[columns.index[term]] = float64(n) * v.idf[term]
		}
		out[i] = textutil.NewVector(entries).Normalize()
	}
	return out
}

type columnSpace struct {
	terms  []string
	index  map[string]int
	corpus *textutil.Corpus
}

func fit(docs []string) ([]map[string]int, columnSpace) {
	corpus := textutil.NewCorpus()
	counts := make([]map[string]int, len(docs))
	for i, doc := range docs {
		counts[i] = textutil.CountTerms(doc)
		corpus.Add(counts[i])
	}
	terms := corpus.Vocabulary()
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}
	return counts, columnSpace{terms: terms, index: index, corpus: corpus}
}
