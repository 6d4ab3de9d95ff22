package titlecache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/text/cases"

	"solidflix/internal/logging"
	"solidflix/internal/lookup"
	"solidflix/internal/metrics"
)

// Entry represents the cached search results for one title.
type Entry struct {
	Query    string         `json:"query"`
	Results  []lookup.Movie `json:"results"`
	CachedAt time.Time      `json:"cached_at"`
}

// Cache provides thread-safe access to the title cache.
type Cache struct {
	path    string
	next    lookup.MetadataService
	logger  *slog.Logger
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]Entry // keyed by folded query
}

var _ lookup.MetadataService = (*Cache)(nil)

// New creates a cache in front of next. If path is empty the cache only
// forwards calls. The cache file is created lazily on first store.
func New(path string, next lookup.MetadataService, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "titlecache")

	c := &Cache{
		path:    strings.TrimSpace(path),
		next:    next,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	if c.path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load title cache",
			logging.String(logging.FieldEventType, "titlecache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "cached titles will be searched again"))
	}
	return c
}

func cacheKey(query string) string {
	return cases.Fold().String(strings.TrimSpace(query))
}

// SearchMovie returns cached results for query when present; otherwise it
// searches next and caches results that contain an exact title match.
func (c *Cache) SearchMovie(ctx context.Context, query string) ([]lookup.Movie, error) {
	if entry, ok := c.Lookup(query); ok {
		metrics.TitleCacheLookups.WithLabelValues("hit").Inc()
		return cloneMovies(entry.Results), nil
	}
	if c.path != "" {
		metrics.TitleCacheLookups.WithLabelValues("miss").Inc()
	}
	if c.next == nil {
		return nil, errors.New("title cache has no metadata service")
	}
	results, err := c.next.SearchMovie(ctx, query)
	if err != nil {
		return nil, err
	}
	if c.path != "" && hasExactMatch(results, query) {
		if storeErr := c.Store(Entry{Query: query, Results: results}); storeErr != nil {
			logging.WarnWithContext(c.logger, "failed to persist title cache", "titlecache_store_failed",
				logging.Error(storeErr),
				logging.String(logging.FieldTitle, query))
		}
	}
	return results, nil
}

// Recommendations forwards to the wrapped service.
func (c *Cache) Recommendations(ctx context.Context, id int64) ([]lookup.Movie, error) {
	if c.next == nil {
		return nil, errors.New("title cache has no metadata service")
	}
	return c.next.Recommendations(ctx, id)
}

func hasExactMatch(results []lookup.Movie, query string) bool {
	for _, r := range results {
		if lookup.SameTitle(r.Title, query) {
			return true
		}
	}
	return false
}

func cloneMovies(in []lookup.Movie) []lookup.Movie {
	out := make([]lookup.Movie, len(in))
	copy(out, in)
	return out
}

// Lookup returns the cache entry for query if found.
func (c *Cache) Lookup(query string) (Entry, bool) {
	key := cacheKey(query)
	if key == "" || c.path == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	return entry, found
}

// Store adds or updates an entry in the cache and persists to disk.
func (c *Cache) Store(entry Entry) error {
	entry.Query = strings.TrimSpace(entry.Query)
	key := cacheKey(entry.Query)
	if key == "" {
		return errors.New("query cannot be empty")
	}
	if c.path == "" {
		return nil
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = c.now().UTC()
	}
	entry.Results = cloneMovies(entry.Results)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached title search",
		logging.String(logging.FieldTitle, entry.Query),
		logging.Int("results", len(entry.Results)))
	return nil
}

// Remove deletes the entry for query and persists the change.
func (c *Cache) Remove(query string) error {
	key := cacheKey(query)
	if key == "" {
		return errors.New("query cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		return fmt.Errorf("title %q not found in cache", query)
	}
	delete(c.entries, key)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.logger.Debug("removed title from cache", logging.String(logging.FieldTitle, query))
	return nil
}

// List returns all cache entries sorted by CachedAt descending (newest first).
func (c *Cache) List() []Entry {
	if c.path == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sortEntries(entries)
	return entries
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.logger.Debug("cleared title cache")
	return nil
}

// Count returns the number of entries in the cache.
func (c *Cache) Count() int {
	if c.path == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CachedAt.Equal(entries[j].CachedAt) {
			return entries[i].CachedAt.After(entries[j].CachedAt)
		}
		return entries[i].Query < entries[j].Query
	})
}

// load reads the cache from disk into memory.
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if key := cacheKey(entry.Query); key != "" {
			c.entries[key] = entry
		}
	}

	c.logger.Debug("loaded title cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// save writes the cache to disk atomically.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sortEntries(entries)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
