package textutil

import (
	_ "embed"
	"strings"
)

//go:embed stopwords_en.txt
var englishStopWordsRaw string

var englishStopWords = func() map[string]struct{} {
	fields := strings.Fields(englishStopWordsRaw)
	set := make(map[string]struct{}, len(fields))
	for _, word := range fields {
		set[word] = struct{}{}
	}
	return set
}()

// IsStopWord reports whether the lower-cased token is an English stop word.
func IsStopWord(token string) bool {
	_, ok := englishStopWords[token]
	return ok
}

// StopWordCount returns the size of the embedded stop-word list.
func StopWordCount() int {
	return len(englishStopWords)
}
