package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Movie is one catalog row. Cast and Genres are empty slices when the source
// value is missing.
type Movie struct {
	ID     string
	Title  string
	Plot   string
	Cast   []string
	Genres []string
}

// Loader produces a catalog for a single request.
type Loader interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Catalog is an ordered movie list with a title index. It is not modified
// after construction.
type Catalog struct {
	movies []Movie
	index  map[string]int
}

// NormalizeTitle lower-cases a title using Unicode case mapping.
func NormalizeTitle(title string) string {
	return cases.Lower(language.Und).String(title)
}

// New builds a catalog from movies, lower-casing titles. When titles repeat,
// the index points at the first row carrying the title.
func New(movies []Movie) *Catalog {
	c := &Catalog{
		movies: make([]Movie, len(movies)),
		index:  make(map[string]int, len(movies)),
	}
	for i, m := range movies {
		m.Title = NormalizeTitle(m.Title)
		m.Cast = nonNil(m.Cast)
		m.Genres = nonNil(m.Genres)
		c.movies[i] = m
		if _, exists := c.index[m.Title]; !exists {
			c.index[m.Title] = i
		}
	}
	return c
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.movies)
}

// Movie returns the row at index i.
func (c *Catalog) Movie(i int) Movie {
	return c.movies[i]
}

// Movies returns a copy of all rows in catalog order.
func (c *Catalog) Movies() []Movie {
	if c == nil {
		return nil
	}
	out := make([]Movie, len(c.movies))
	copy(out, c.movies)
	return out
}

// Lookup returns the row index of a title. The title is lower-cased before
// the lookup.
func (c *Catalog) Lookup(title string) (int, bool) {
	if c == nil {
		return 0, false
	}
	idx, ok := c.index[NormalizeTitle(title)]
	return idx, ok
}

// Contains reports whether title is in the catalog.
func (c *Catalog) Contains(title string) bool {
	_, ok := c.Lookup(title)
	return ok
}

// Title returns the lower-cased title at row i.
func (c *Catalog) Title(i int) string {
	return c.movies[i].Title
}

// Titles returns every lower-cased title in catalog order.
func (c *Catalog) Titles() []string {
	if c == nil {
		return nil
	}
	titles := make([]string, len(c.movies))
	for i, m := range c.movies {
		titles[i] = m.Title
	}
	return titles
}

// Fingerprint returns a stable digest of the catalog contents.
func (c *Catalog) Fingerprint() string {
	h := sha256.New()
	if c != nil {
		for _, m := range c.movies {
			for _, field := range []string{m.ID, m.Title, m.Plot, strings.Join(m.Cast, ","), strings.Join(m.Genres, ",")} {
				h.Write([]byte(field))
				h.Write([]byte{0x1f})
			}
			h.Write([]byte{0x1e})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SplitList splits a comma-separated cell into trimmed, non-empty values.
func SplitList(cell string) []string {
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
