package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeBreaker()
	c.normalizeRecommend()
	c.normalizeAPI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("SOLIDFLIX_CATALOG"); ok && strings.TrimSpace(value) != "" {
		c.Paths.CatalogCSV = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.CatalogCSV) == "" {
		c.Paths.CatalogCSV = defaultCatalogCSV
	}
	if c.Paths.CatalogCSV, err = expandPath(c.Paths.CatalogCSV); err != nil {
		return fmt.Errorf("paths.catalog_csv: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogDB) == "" {
		c.Paths.CatalogDB = defaultCatalogDB
	}
	if c.Paths.CatalogDB, err = expandPath(c.Paths.CatalogDB); err != nil {
		return fmt.Errorf("paths.catalog_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TitleCache) == "" {
		c.Paths.TitleCache = defaultTitleCache
	}
	if c.Paths.TitleCache, err = expandPath(c.Paths.TitleCache); err != nil {
		return fmt.Errorf("paths.title_cache: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.RequestTimeout <= 0 {
		c.TMDB.RequestTimeout = defaultTMDBRequestTimeout
	}
	if c.TMDB.Burst <= 0 {
		c.TMDB.Burst = defaultTMDBBurst
	}
	c.TMDB.RecommendationSource = strings.ToLower(strings.TrimSpace(c.TMDB.RecommendationSource))
	if c.TMDB.RecommendationSource == "" {
		c.TMDB.RecommendationSource = defaultRecommendationSource
	}
}

func (c *Config) normalizeBreaker() {
	if c.Breaker.MaxRequests == 0 {
		c.Breaker.MaxRequests = 3
	}
	if c.Breaker.MinRequests == 0 {
		c.Breaker.MinRequests = 10
	}
}

func (c *Config) normalizeRecommend() {
	c.Recommend.CatalogSource = strings.ToLower(strings.TrimSpace(c.Recommend.CatalogSource))
	if c.Recommend.CatalogSource == "" {
		c.Recommend.CatalogSource = defaultCatalogSource
	}
	if c.Recommend.SampleSize == 0 {
		c.Recommend.SampleSize = defaultSampleSize
	}
	if c.Recommend.LocalLimit == 0 {
		c.Recommend.LocalLimit = defaultLocalLimit
	}
	if c.Recommend.RequestTimeout == 0 {
		c.Recommend.RequestTimeout = defaultRecommendTimeout
	}
}

func (c *Config) normalizeAPI() {
	origins := make([]string, 0, len(c.API.CORSOrigins))
	seen := make(map[string]struct{}, len(c.API.CORSOrigins))
	for _, origin := range c.API.CORSOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.API.CORSOrigins = origins
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
