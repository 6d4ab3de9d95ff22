package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file locations and the API bind address.
type Paths struct {
	CatalogCSV string `toml:"catalog_csv"`
	CatalogDB  string `toml:"catalog_db"`
	LogDir     string `toml:"log_dir"`
	TitleCache string `toml:"title_cache"`
	APIBind    string `toml:"api_bind"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey               string  `toml:"api_key"`
	BaseURL              string  `toml:"base_url"`
	Language             string  `toml:"language"`
	RequestTimeout       int     `toml:"request_timeout"`
	RequestsPerSecond    float64 `toml:"requests_per_second"`
	Burst                int     `toml:"burst"`
	RecommendationSource string  `toml:"recommendation_source"`
}

// Breaker contains circuit breaker settings for TMDB calls.
type Breaker struct {
	Enabled      bool    `toml:"enabled"`
	MaxRequests  uint32  `toml:"max_requests"`
	Interval     int     `toml:"interval"`
	Timeout      int     `toml:"timeout"`
	FailureRatio float64 `toml:"failure_ratio"`
	MinRequests  uint32  `toml:"min_requests"`
}

// Recommend contains knobs for the aggregation pass.
type Recommend struct {
	// CatalogSource selects where the catalog is read from: "csv" or "sqlite".
	CatalogSource string `toml:"catalog_source"`
	// SampleSize is the number of titles returned to the caller.
	SampleSize int `toml:"sample_size"`
	// LocalLimit is how many pooled local candidates survive the trim.
	LocalLimit int `toml:"local_limit"`
	// SkipTop drops this many top pooled local candidates before LocalLimit applies.
	SkipTop int `toml:"skip_top"`
	// RequestTimeout bounds a whole aggregation pass, in seconds.
	RequestTimeout int `toml:"request_timeout"`
}

// TitleCache controls the on-disk cache of TMDB title matches.
type TitleCache struct {
	Enabled bool `toml:"enabled"`
}

// API contains settings for the HTTP adapter.
type API struct {
	CORSOrigins []string `toml:"cors_origins"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for solidflix.
//
// Configuration sections by subsystem:
//   - Paths: catalog sources, log directory, cache file, API bind address
//   - TMDB: external metadata service access
//   - Breaker: circuit breaker guarding TMDB
//   - Recommend: aggregation sizes and deadlines
//   - TitleCache: persisted TMDB title matches
//   - API: HTTP adapter settings
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	TMDB       TMDB       `toml:"tmdb"`
	Breaker    Breaker    `toml:"breaker"`
	Recommend  Recommend  `toml:"recommend"`
	TitleCache TitleCache `toml:"title_cache"`
	API        API        `toml:"api"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/solidflix/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("solidflix.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories that hold logs, the catalog
// database and the title cache.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if strings.TrimSpace(c.Paths.CatalogDB) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.CatalogDB))
	}
	if c.TitleCache.Enabled && strings.TrimSpace(c.Paths.TitleCache) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.TitleCache))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TMDBRequestTimeout returns the per-call timeout for TMDB requests.
func (c *Config) TMDBRequestTimeout() time.Duration {
	return time.Duration(c.TMDB.RequestTimeout) * time.Second
}

// RecommendTimeout returns the deadline applied to a full aggregation pass.
func (c *Config) RecommendTimeout() time.Duration {
	return time.Duration(c.Recommend.RequestTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
