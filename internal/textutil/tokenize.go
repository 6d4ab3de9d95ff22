package textutil

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lower-cases text and returns its word tokens in order, with
// single-character tokens and English stop words removed.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenPattern.FindAllString(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if IsStopWord(token) {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// CountTerms returns the raw term frequencies of text.
func CountTerms(text string) map[string]int {
	tokens := Tokenize(text)
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}
