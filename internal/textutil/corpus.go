package textutil

import (
	"math"
	"sort"
)

// Corpus collects document frequency statistics for IDF computation.
type Corpus struct {
	docCount int
	docFreq  map[string]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int)}
}

// Add registers a document's unique terms in the corpus.
func (c *Corpus) Add(terms map[string]int) {
	if c == nil {
		return
	}
	c.docCount++
	for term := range terms {
		c.docFreq[term]++
	}
}

// Docs returns the number of documents added.
func (c *Corpus) Docs() int {
	if c == nil {
		return 0
	}
	return c.docCount
}

// Vocabulary returns every term seen, sorted lexicographically. The position
// of a term in the slice is its column index.
func (c *Corpus) Vocabulary() []string {
	if c == nil {
		return nil
	}
	vocab := make([]string, 0, len(c.docFreq))
	for term := range c.docFreq {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	return vocab
}

// IDF computes smoothed inverse document frequency weights:
// ln((1+N)/(1+df)) + 1 for each term.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docCount == 0 {
		return nil
	}
	idf := make(map[string]float64, len(c.docFreq))
	n := float64(c.docCount)
	for term, df := range c.docFreq {
		idf[term] = math.Log((1+n)/(1+float64(df))) + 1
	}
	return idf
}
