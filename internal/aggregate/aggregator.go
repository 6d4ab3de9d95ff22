package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"solidflix/internal/catalog"
	"solidflix/internal/features"
	"solidflix/internal/logging"
	"solidflix/internal/lookup"
	"solidflix/internal/metrics"
	"solidflix/internal/recommend"
	"solidflix/internal/services"
	"solidflix/internal/similarity"
)

// Settings controls pool sizes and the request deadline.
type Settings struct {
	// SampleSize is the number of titles Recommend returns.
	SampleSize int
	// SkipTop drops this many of the highest pooled local scores.
	SkipTop int
	// LocalLimit caps the local candidates kept after SkipTop.
	LocalLimit int
	// Timeout bounds a whole pass. Zero disables the deadline.
	Timeout time.Duration
}

// DefaultSettings mirrors the shipped configuration defaults.
func DefaultSettings() Settings {
	return Settings{SampleSize: 5, SkipTop: 1, LocalLimit: 5, Timeout: time.Minute}
}

// Fallbacker resolves titles missing from the catalog.
type Fallbacker interface {
	Lookup(ctx context.Context, title string) []string
}

// Confirmer validates local candidate titles against the external service.
type Confirmer interface {
	Confirm(ctx context.Context, title string) bool
}

var (
	_ Fallbacker = (*lookup.Fallback)(nil)
	_ Confirmer  = (*lookup.Validator)(nil)
)

// Candidate is a local candidate with the score that placed it in the pool.
type Candidate struct {
	Title     string
	Score     float64
	Confirmed bool
}

// Pool is the candidate title list prior to sampling.
type Pool struct {
	// Titles are unique ignoring case, in first-seen order: confirmed local
	// titles first, then external titles.
	Titles []string
	// Local lists the trimmed local candidates, confirmed or not.
	Local []Candidate
	// External lists every fallback title in request order, duplicates kept.
	External []string
	// Missing are requested titles absent from the catalog.
	Missing []string
}

// Aggregator produces recommendations for a list of titles. It keeps no
// state between calls.
type Aggregator struct {
	loader      catalog.Loader
	transformer *similarity.Transformer
	fallback    Fallbacker
	validator   Confirmer
	settings    Settings
	logger      *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithRand sets the random source used by Recommend.
func WithRand(rng *rand.Rand) Option {
	return func(a *Aggregator) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithTransformer overrides the similarity transformer.
func WithTransformer(t *similarity.Transformer) Option {
	return func(a *Aggregator) {
		if t != nil {
			a.transformer = t
		}
	}
}

// New constructs an Aggregator.
func New(loader catalog.Loader, fallback Fallbacker, validator Confirmer, settings Settings, logger *slog.Logger, opts ...Option) *Aggregator {
	if settings.SampleSize <= 0 {
		settings.SampleSize = DefaultSettings().SampleSize
	}
	if settings.SkipTop < 0 {
		settings.SkipTop = 0
	}
	if settings.LocalLimit < 0 {
		settings.LocalLimit = 0
	}
	a := &Aggregator{
		loader:      loader,
		fallback:    fallback,
		validator:   validator,
		settings:    settings,
		logger:      logging.NewComponentLogger(logger, "aggregate"),
		transformer: similarity.NewTransformer(logger),
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5f1d)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Settings returns the effective settings.
func (a *Aggregator) Settings() Settings { return a.settings }

// Recommend returns SampleSize unique titles drawn from the candidate pool.
func (a *Aggregator) Recommend(ctx context.Context, titles []string) ([]string, error) {
	start := time.Now()
	pool, err := a.BuildPool(ctx, titles)
	if err == nil {
		a.rngMu.Lock()
		var picked []string
		picked, err = Sample(a.rng, pool.Titles, a.settings.SampleSize)
		a.rngMu.Unlock()
		if err == nil {
			metrics.RecommendDuration.Observe(time.Since(start).Seconds())
			metrics.RecommendRequests.WithLabelValues("ok").Inc()
			return picked, nil
		}
	}
	_, reason := services.Classify(err)
	metrics.RecommendRequests.WithLabelValues(reason).Inc()
	return nil, err
}

// BuildPool gathers, validates and deduplicates candidates for titles.
func (a *Aggregator) BuildPool(ctx context.Context, titles []string) (Pool, error) {
	if a.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.settings.Timeout)
		defer cancel()
	}
	logger := logging.WithContext(ctx, a.logger)

	if a.loader == nil {
		return Pool{}, services.Wrap(services.ErrConfiguration, "aggregate", "build pool", "catalog loader not configured", nil)
	}
	cat, err := a.loader.Load(ctx)
	if err != nil {
		return Pool{}, err
	}

	var local, missing []string
	for _, raw := range titles {
		title := catalog.NormalizeTitle(strings.TrimSpace(raw))
		if title == "" {
			continue
		}
		if cat.Contains(title) {
			local = append(local, title)
		} else {
			missing = append(missing, title)
		}
	}
	metrics.TitleSources.WithLabelValues("catalog").Add(float64(len(local)))
	metrics.TitleSources.WithLabelValues("fallback").Add(float64(len(missing)))

	pool := Pool{Missing: missing}

	var scores []recommend.Score
	if len(local) > 0 {
		matrix, err := a.transformer.Build(ctx, features.Combine(cat))
		if err != nil {
			return Pool{}, err
		}
		for _, title := range local {
			s, err := recommend.Recommend(title, cat, matrix)
			if err != nil {
				return Pool{}, err
			}
			scores = append(scores, s...)
		}
	}

	for _, title := range missing {
		if ctx.Err() != nil {
			logging.WarnWithContext(logger, "deadline reached; skipping remaining fallback lookups", "fallback_skipped",
				logging.String(logging.FieldTitle, title),
				logging.String(logging.FieldImpact, "fewer external candidates"))
			break
		}
		if a.fallback == nil {
			break
		}
		pool.External = append(pool.External, a.fallback.Lookup(services.WithTitle(ctx, title), title)...)
	}

	trimmed := trimScores(scores, a.settings.SkipTop, a.settings.LocalLimit)
	confirmed := make([]string, 0, len(trimmed))
	for _, s := range trimmed {
		c := Candidate{Title: cat.Title(s.Index), Score: s.Score}
		if ctx.Err() == nil && a.validator != nil {
			c.Confirmed = a.validator.Confirm(services.WithTitle(ctx, c.Title), c.Title)
		}
		if c.Confirmed {
			confirmed = append(confirmed, c.Title)
		}
		pool.Local = append(pool.Local, c)
	}

	pool.Titles = Dedupe(append(confirmed, pool.External...))
	metrics.CandidatePoolSize.Observe(float64(len(pool.Titles)))

	logger.Info("candidate pool built",
		logging.String(logging.FieldEventType, "pool_built"),
		logging.Int("catalog_rows", cat.Len()),
		logging.Int("local_titles", len(local)),
		logging.Int("missing_titles", len(missing)),
		logging.Int("local_candidates", len(pool.Local)),
		logging.Int("confirmed", len(confirmed)),
		logging.Int("external_candidates", len(pool.External)),
		logging.Int("pool_size", len(pool.Titles)),
	)
	return pool, nil
}

func trimScores(scores []recommend.Score, skip, limit int) []recommend.Score {
	sorted := make([]recommend.Score, len(scores))
	copy(sorted, scores)
	recommend.SortDescending(sorted)
	if skip >= len(sorted) {
		return nil
	}
	sorted = sorted[skip:]
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Dedupe removes titles that repeat ignoring case, keeping the first
// occurrence and its original spelling.
func Dedupe(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, title := range titles {
		key := catalog.NormalizeTitle(strings.TrimSpace(title))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, title)
	}
	return out
}

// Sample draws n titles from pool without replacement. It fails with
// services.ErrInsufficientCandidates when the pool is smaller than n.
func Sample(rng *rand.Rand, pool []string, n int) ([]string, error) {
	if len(pool) < n {
		return nil, services.Wrap(services.ErrInsufficientCandidates, "aggregate", "sample",
			fmt.Sprintf("need %d unique titles, have %d", n, len(pool)), nil)
	}
	picked := make([]string, len(pool))
	copy(picked, pool)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n], nil
}
