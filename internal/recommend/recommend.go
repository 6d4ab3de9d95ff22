// Package recommend ranks catalog rows by their similarity to a given title.
package recommend

import (
	"sort"

	"solidflix/internal/catalog"
	"solidflix/internal/services"
	"solidflix/internal/similarity"
)

// Limit is the number of neighbours Recommend returns.
const Limit = 5

// Score pairs a catalog row index with its similarity to the query row.
type Score struct {
	Index int
	Score float64
}

// Recommend returns the Limit rows most similar to title, highest first.
// The title's own row is never included. Rows with equal scores keep catalog
// order. Returns services.ErrUnknownTitle when title is not in the catalog.
func Recommend(title string, cat *catalog.Catalog, m *similarity.Matrix) ([]Score, error) {
	idx, ok := cat.Lookup(title)
	if !ok || idx >= m.Size() {
		return nil, services.Wrap(services.ErrUnknownTitle, "recommend", "lookup", title, nil)
	}
	return Top(m.Row(idx), idx, Limit), nil
}

// Top returns up to n entries of row sorted by descending score, skipping the
// entry at index exclude. Pass a negative exclude to keep every entry.
func Top(row []float64, exclude, n int) []Score {
	scores := make([]Score, 0, len(row))
	for i, v := range row {
		if i == exclude {
			continue
		}
		scores = append(scores, Score{Index: i, Score: v})
	}
	SortDescending(scores)
	if n >= 0 && len(scores) > n {
		scores = scores[:n]
	}
	return scores
}

// SortDescending orders scores highest first; equal scores keep their
// relative order.
func SortDescending(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
}
