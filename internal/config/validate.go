package config

import (
	"errors"
	"fmt"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/solidflix/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'solidflix config init')", defaultPath)
	}
	if c.TMDB.RequestsPerSecond < 0 {
		return errors.New("tmdb.requests_per_second must be >= 0 (0 disables rate limiting)")
	}
	switch c.TMDB.RecommendationSource {
	case SourceRecommendations, SourceSimilar:
	default:
		return fmt.Errorf("tmdb.recommendation_source must be %q or %q, got %q",
			SourceRecommendations, SourceSimilar, c.TMDB.RecommendationSource)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if err := ensurePositiveMap(map[string]int{
		"breaker.interval": c.Breaker.Interval,
		"breaker.timeout":  c.Breaker.Timeout,
	}); err != nil {
		return err
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return errors.New("breaker.failure_ratio must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	switch c.Recommend.CatalogSource {
	case CatalogSourceCSV, CatalogSourceSQLite:
	default:
		return fmt.Errorf("recommend.catalog_source must be %q or %q, got %q",
			CatalogSourceCSV, CatalogSourceSQLite, c.Recommend.CatalogSource)
	}
	if err := ensurePositiveMap(map[string]int{
		"recommend.sample_size":     c.Recommend.SampleSize,
		"recommend.local_limit":     c.Recommend.LocalLimit,
		"recommend.request_timeout": c.Recommend.RequestTimeout,
	}); err != nil {
		return err
	}
	if c.Recommend.SkipTop < 0 {
		return errors.New("recommend.skip_top must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
