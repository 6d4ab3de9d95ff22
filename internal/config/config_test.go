package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"solidflix/internal/config"
)

func TestLoadDefaultConfigUsesEnvTMDBKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("SOLIDFLIX_CATALOG", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDB := filepath.Join(tempHome, ".local", "share", "solidflix", "catalog.db")
	if cfg.Paths.CatalogDB != wantDB {
		t.Fatalf("unexpected catalog db: got %q want %q", cfg.Paths.CatalogDB, wantDB)
	}
	if !filepath.IsAbs(cfg.Paths.CatalogCSV) {
		t.Fatalf("expected absolute catalog csv path, got %q", cfg.Paths.CatalogCSV)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected TMDB base url: %q", cfg.TMDB.BaseURL)
	}
	if cfg.Recommend.SampleSize != 5 || cfg.Recommend.LocalLimit != 5 || cfg.Recommend.SkipTop != 1 {
		t.Fatalf("unexpected recommend defaults: %+v", cfg.Recommend)
	}
	if cfg.Recommend.CatalogSource != config.CatalogSourceCSV {
		t.Fatalf("expected csv catalog source, got %q", cfg.Recommend.CatalogSource)
	}
	if cfg.TitleCache.Enabled {
		t.Fatal("expected title cache disabled by default")
	}
	if !cfg.Breaker.Enabled {
		t.Fatal("expected breaker enabled by default")
	}
	if cfg.Paths.APIBind != "127.0.0.1:5000" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.CatalogDB)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("SOLIDFLIX_CATALOG", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "solidflix.toml")

	type payload struct {
		TMDB struct {
			APIKey               string `toml:"api_key"`
			BaseURL              string `toml:"base_url"`
			RecommendationSource string `toml:"recommendation_source"`
		} `toml:"tmdb"`
		Paths struct {
			CatalogCSV string `toml:"catalog_csv"`
		} `toml:"paths"`
		Recommend struct {
			SampleSize int `toml:"sample_size"`
			SkipTop    int `toml:"skip_top"`
		} `toml:"recommend"`
	}
	custom := payload{}
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.BaseURL = "https://example.com/tmdb"
	custom.TMDB.RecommendationSource = "Similar"
	custom.Paths.CatalogCSV = filepath.Join(tempDir, "movies.csv")
	custom.Recommend.SampleSize = 3
	custom.Recommend.SkipTop = 0
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("expected TMDB key from file, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.com/tmdb" {
		t.Fatalf("expected TMDB base url override, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.RecommendationSource != config.SourceSimilar {
		t.Fatalf("expected normalized recommendation source, got %q", cfg.TMDB.RecommendationSource)
	}
	if cfg.Paths.CatalogCSV != custom.Paths.CatalogCSV {
		t.Fatalf("unexpected catalog csv: %q", cfg.Paths.CatalogCSV)
	}
	if cfg.Recommend.SampleSize != 3 {
		t.Fatalf("expected sample size 3, got %d", cfg.Recommend.SampleSize)
	}
	if cfg.Recommend.SkipTop != 0 {
		t.Fatalf("expected skip_top 0 to survive normalization, got %d", cfg.Recommend.SkipTop)
	}
}

func TestCatalogEnvOverridesConfig(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("HOME", t.TempDir())
	override := filepath.Join(t.TempDir(), "override.csv")
	t.Setenv("SOLIDFLIX_CATALOG", override)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.CatalogCSV != override {
		t.Fatalf("expected env catalog path %q, got %q", override, cfg.Paths.CatalogCSV)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{"missing api key", func(c *config.Config) { c.TMDB.APIKey = "" }, "tmdb.api_key"},
		{"bad source", func(c *config.Config) { c.TMDB.RecommendationSource = "popular" }, "tmdb.recommendation_source"},
		{"bad catalog source", func(c *config.Config) { c.Recommend.CatalogSource = "mongo" }, "recommend.catalog_source"},
		{"zero sample", func(c *config.Config) { c.Recommend.SampleSize = 0 }, "recommend.sample_size"},
		{"negative skip", func(c *config.Config) { c.Recommend.SkipTop = -1 }, "recommend.skip_top"},
		{"bad ratio", func(c *config.Config) { c.Breaker.FailureRatio = 1.5 }, "breaker.failure_ratio"},
		{"negative rate", func(c *config.Config) { c.TMDB.RequestsPerSecond = -1 }, "tmdb.requests_per_second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.TMDB.APIKey = "key"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Fatalf("expected %q in error, got %v", tt.wantKey, err)
			}
		})
	}
}

func TestBreakerDisabledSkipsValidation(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "key"
	cfg.Breaker.Enabled = false
	cfg.Breaker.FailureRatio = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled breaker to skip validation, got %v", err)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("SOLIDFLIX_CATALOG", "")
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Recommend.SampleSize != 5 {
		t.Fatalf("unexpected sample size from sample config: %d", cfg.Recommend.SampleSize)
	}
}
