package api

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"solidflix/internal/aggregate"
	"solidflix/internal/catalog"
	"solidflix/internal/config"
	"solidflix/internal/logging"
	"solidflix/internal/lookup"
	"solidflix/internal/services"
	"solidflix/internal/titlecache"
	"solidflix/internal/tmdb"
)

// ErrTitleCacheDisabled is returned when title cache maintenance is requested
// while the cache is turned off.
var ErrTitleCacheDisabled = errors.New("title cache is disabled")

// Engine bundles the components of one configured recommendation pipeline.
type Engine struct {
	Config     *config.Config
	Loader     catalog.Loader
	Metadata   lookup.MetadataService
	TitleCache *titlecache.Cache
	Fallback   *lookup.Fallback
	Validator  *lookup.Validator
	Aggregator *aggregate.Aggregator

	closers []func() error
}

type engineOptions struct {
	loader   catalog.Loader
	metadata lookup.MetadataService
	rng      *rand.Rand
}

// EngineOption customizes OpenEngine.
type EngineOption func(*engineOptions)

// WithLoader replaces the configured catalog source.
func WithLoader(loader catalog.Loader) EngineOption {
	return func(o *engineOptions) { o.loader = loader }
}

// WithMetadataService replaces the TMDB-backed metadata service.
func WithMetadataService(svc lookup.MetadataService) EngineOption {
	return func(o *engineOptions) { o.metadata = svc }
}

// WithRand fixes the random source used for the final sample.
func WithRand(rng *rand.Rand) EngineOption {
	return func(o *engineOptions) { o.rng = rng }
}

// OpenEngine builds the full pipeline described by cfg.
func OpenEngine(cfg *config.Config, logger *slog.Logger, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "open engine", "configuration is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{Config: cfg}

	if o.loader != nil {
		e.Loader = o.loader
	} else {
		loader, closer, err := OpenCatalogLoader(cfg, logger)
		if err != nil {
			return nil, err
		}
		e.Loader = loader
		if closer != nil {
			e.closers = append(e.closers, closer)
		}
	}

	if o.metadata != nil {
		e.Metadata = o.metadata
	} else {
		svc, cache, err := OpenMetadataService(cfg, logger)
		if err != nil {
			_ = e.Close()
			return nil, err
		}
		e.Metadata = svc
		e.TitleCache = cache
	}

	timeout := cfg.TMDBRequestTimeout()
	e.Fallback = lookup.NewFallback(e.Metadata, timeout, logger)
	e.Validator = lookup.NewValidator(e.Metadata, timeout, logger)

	settings := aggregate.Settings{
		SampleSize: cfg.Recommend.SampleSize,
		SkipTop:    cfg.Recommend.SkipTop,
		LocalLimit: cfg.Recommend.LocalLimit,
		Timeout:    cfg.RecommendTimeout(),
	}
	var aggOpts []aggregate.Option
	if o.rng != nil {
		aggOpts = append(aggOpts, aggregate.WithRand(o.rng))
	}
	e.Aggregator = aggregate.New(e.Loader, e.Fallback, e.Validator, settings, logger, aggOpts...)
	return e, nil
}

// Close releases resources held by the engine.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// OpenCatalogLoader returns the catalog source selected by
// recommend.catalog_source. The returned closer may be nil.
func OpenCatalogLoader(cfg *config.Config, logger *slog.Logger) (catalog.Loader, func() error, error) {
	switch cfg.Recommend.CatalogSource {
	case config.CatalogSourceSQLite:
		store, err := catalog.OpenStore(cfg.Paths.CatalogDB, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.CatalogSourceCSV, "":
		path := strings.TrimSpace(cfg.Paths.CatalogCSV)
		if path == "" {
			return nil, nil, services.Wrap(services.ErrConfiguration, "api", "open catalog", "paths.catalog_csv is empty", nil)
		}
		return catalog.NewCSVLoader(path, logger), nil, nil
	default:
		return nil, nil, services.Wrap(services.ErrConfiguration, "api", "open catalog",
			fmt.Sprintf("unknown catalog source %q", cfg.Recommend.CatalogSource), nil)
	}
}

// OpenTMDBSearcher builds the TMDB client with rate limiting and, when
// enabled, the circuit breaker.
func OpenTMDBSearcher(cfg *config.Config, logger *slog.Logger) (tmdb.Searcher, error) {
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithHTTPClient(&http.Client{Timeout: cfg.TMDBRequestTimeout()}),
		tmdb.WithRateLimit(cfg.TMDB.RequestsPerSecond, cfg.TMDB.Burst),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "tmdb client", "", err)
	}
	if !cfg.Breaker.Enabled {
		return client, nil
	}
	return tmdb.NewBreaker(client, tmdb.BreakerSettings{
		Name:         "tmdb-api",
		MaxRequests:  cfg.Breaker.MaxRequests,
		Interval:     time.Duration(cfg.Breaker.Interval) * time.Second,
		Timeout:      time.Duration(cfg.Breaker.Timeout) * time.Second,
		FailureRatio: cfg.Breaker.FailureRatio,
		MinRequests:  cfg.Breaker.MinRequests,
	}, logger), nil
}

// OpenMetadataService stacks the TMDB searcher, the metadata adapter and the
// optional title cache. The cache is nil when disabled.
func OpenMetadataService(cfg *config.Config, logger *slog.Logger) (lookup.MetadataService, *titlecache.Cache, error) {
	searcher, err := OpenTMDBSearcher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	adapter, err := tmdb.NewMetadataAdapter(searcher, cfg.TMDB.RecommendationSource)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "api", "metadata adapter", "", err)
	}
	if !cfg.TitleCache.Enabled {
		return adapter, nil, nil
	}
	cache := titlecache.New(cfg.Paths.TitleCache, adapter, logger)
	return cache, cache, nil
}

// OpenTitleCache opens the title cache for maintenance commands without a
// metadata service behind it.
func OpenTitleCache(cfg *config.Config, logger *slog.Logger) (*titlecache.Cache, error) {
	if cfg == nil || !cfg.TitleCache.Enabled {
		return nil, ErrTitleCacheDisabled
	}
	path := strings.TrimSpace(cfg.Paths.TitleCache)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "api", "title cache", "paths.title_cache is empty", nil)
	}
	return titlecache.New(path, nil, logger), nil
}
