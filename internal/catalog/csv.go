package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"solidflix/internal/logging"
	"solidflix/internal/services"
)

// Column names expected in the CSV header. Columns may appear in any order and
// extra columns are ignored.
const (
	ColumnID     = "movie_id"
	ColumnTitle  = "original_title"
	ColumnPlot   = "plot"
	ColumnCast   = "cast"
	ColumnGenres = "genres"
)

var requiredColumns = []string{ColumnID, ColumnTitle, ColumnPlot, ColumnCast, ColumnGenres}

// CSVLoader reads the catalog from a CSV file.
type CSVLoader struct {
	path   string
	logger *slog.Logger
}

// NewCSVLoader returns a loader for the CSV file at path.
func NewCSVLoader(path string, logger *slog.Logger) *CSVLoader {
	return &CSVLoader{path: path, logger: logging.NewComponentLogger(logger, "catalog")}
}

// Load parses the file into a catalog.
func (l *CSVLoader) Load(ctx context.Context) (*Catalog, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, services.Wrap(services.ErrDataUnavailable, "catalog", "open csv", l.path, err)
	}
	defer file.Close()

	cat, err := ReadCSV(ctx, file)
	if err != nil {
		return nil, services.Wrap(services.ErrDataUnavailable, "catalog", "read csv", l.path, err)
	}
	l.logger.Debug("catalog loaded",
		logging.String(logging.FieldEventType, "catalog_loaded"),
		logging.String("path", l.path),
		logging.Int("rows", cat.Len()),
	)
	return cat, nil
}

// ReadCSV parses CSV content with a header row into a catalog.
func ReadCSV(ctx context.Context, r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := positions[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	cell := func(record []string, col string) string {
		pos := positions[col]
		if pos >= len(record) {
			return ""
		}
		return record[pos]
	}

	var movies []Movie
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		movies = append(movies, Movie{
			ID:     strings.TrimSpace(cell(record, ColumnID)),
			Title:  cell(record, ColumnTitle),
			Plot:   cell(record, ColumnPlot),
			Cast:   SplitList(cell(record, ColumnCast)),
			Genres: SplitList(cell(record, ColumnGenres)),
		})
	}
	return New(movies), nil
}
