package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"solidflix/internal/features"
	"solidflix/internal/logging"
	"solidflix/internal/services"
	"solidflix/internal/textutil"
)

// Transformer builds similarity matrices from feature documents. It holds no
// per-request state and may be shared.
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer returns a Transformer that logs build statistics to logger.
func NewTransformer(logger *slog.Logger) *Transformer {
	return &Transformer{logger: logging.NewComponentLogger(logger, "similarity")}
}

// Vectorize returns one unit-length row per document: count features of the
// combined text followed by TF-IDF features of the plot. Rows without any
// terms stay empty.
func Vectorize(docs features.Documents) ([]textutil.Vector, error) {
	if len(docs.Combined) != len(docs.Plot) {
		return nil, services.Wrap(services.ErrValidation, "similarity", "vectorize",
			fmt.Sprintf("combined has %d rows, plot has %d", len(docs.Combined), len(docs.Plot)), nil)
	}
	var counts CountVectorizer
	var tfidf TFIDFVectorizer
	countRows := counts.FitTransform(docs.Combined)
	plotRows := tfidf.FitTransform(docs.Plot)
	offset := len(counts.Vocabulary())

	rows := make([]textutil.Vector, len(countRows))
	for i := range countRows {
		rows[i] = textutil.Concat(countRows[i], plotRows[i], offset).Normalize()
	}
	return rows, nil
}

// Build computes the full pairwise cosine similarity of docs. The diagonal is
// exactly 1, including rows with no terms. Cancellation of ctx is checked
// between rows.
func (t *Transformer) Build(ctx context.Context, docs features.Documents) (*Matrix, error) {
	start := time.Now()
	rows, err := Vectorize(docs)
	if err != nil {
		return nil, err
	}

	n := len(rows)
	// postings[col] lists (row, weight) pairs so each row only visits rows it
	// shares a column with.
	type posting struct {
		row    int
		weight float64
	}
	postings := make(map[int][]posting)
	nonZero := 0
	for i, row := range rows {
		nonZero += row.Len()
		for k, col := range row.Indices {
			postings[col] = append(postings[col], posting{row: i, weight: row.Values[k]})
		}
	}

	m := newMatrix(n)
	acc := make([]float64, n)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build similarity matrix: %w", err)
		}
		for j := range acc {
			acc[j] = 0
		}
		for k, col := range row.Indices {
			w := row.Values[k]
			for _, p := range postings[col] {
				if p.row > i {
					acc[p.row] += w * p.weight
				}
			}
		}
		m.set(i, i, 1)
		for j := i + 1; j < n; j++ {
			if acc[j] != 0 {
				m.set(i, j, clampUnit(acc[j]))
			}
		}
	}

	if t != nil && t.logger != nil {
		t.logger.Debug("similarity matrix built",
			logging.String(logging.FieldEventType, "similarity_built"),
			logging.Int("rows", n),
			logging.Int("non_zero", nonZero),
			logging.Duration("elapsed", time.Since(start)),
		)
	}
	return m, nil
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
