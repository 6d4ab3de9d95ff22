package lookup

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// Movie is a title known to the external metadata service.
type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// MetadataService is the subset of an external movie database the engine needs.
type MetadataService interface {
	SearchMovie(ctx context.Context, query string) ([]Movie, error)
	Recommendations(ctx context.Context, id int64) ([]Movie, error)
}

// SameTitle reports whether two titles are equal ignoring case.
func SameTitle(a, b string) bool {
	return foldTitle(a) == foldTitle(b)
}

func foldTitle(title string) string {
	return cases.Fold().String(strings.TrimSpace(title))
}
