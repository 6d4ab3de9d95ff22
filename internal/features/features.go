// Package features derives the text documents the similarity transformer
// vectorizes from catalog rows.
package features

import (
	"strings"

	"solidflix/internal/catalog"
)

// Documents holds two texts per catalog row, indexed like the catalog.
type Documents struct {
	// Combined joins the cast and genres of a row with commas.
	Combined []string
	// Plot is the plot text of a row, empty when missing.
	Plot []string
}

// Len returns the number of rows.
func (d Documents) Len() int { return len(d.Combined) }

// Combine builds one Documents entry per catalog row. Missing cast or genres
// are omitted from the combined text rather than rendered as a marker.
// Identifier, title and plot never enter the combined text.
func Combine(cat *catalog.Catalog) Documents {
	n := cat.Len()
	docs := Documents{
		Combined: make([]string, n),
		Plot:     make([]string, n),
	}
	for i := 0; i < n; i++ {
		m := cat.Movie(i)
		docs.Combined[i] = combineRow(m)
		docs.Plot[i] = m.Plot
	}
	return docs
}

func combineRow(m catalog.Movie) string {
	segments := make([]string, 0, 2)
	if len(m.Cast) > 0 {
		segments = append(segments, strings.Join(m.Cast, ","))
	}
	if len(m.Genres) > 0 {
		segments = append(segments, strings.Join(m.Genres, ","))
	}
	return strings.Join(segments, ",")
}
