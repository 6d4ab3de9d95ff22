package config

const (
	defaultCatalogCSV           = "dataset/movie_data.csv"
	defaultCatalogDB            = "~/.local/share/solidflix/catalog.db"
	defaultLogDir               = "~/.local/share/solidflix/logs"
	defaultTitleCache           = "~/.cache/solidflix/title_cache.json"
	defaultAPIBind              = "127.0.0.1:5000"
	defaultTMDBLanguage         = "en"
	defaultTMDBBaseURL          = "https://api.themoviedb.org/3"
	defaultTMDBRequestTimeout   = 10
	defaultTMDBRequestsPerSec   = 20
	defaultTMDBBurst            = 5
	defaultRecommendationSource = SourceRecommendations
	defaultCatalogSource        = CatalogSourceCSV
	defaultSampleSize           = 5
	defaultLocalLimit           = 5
	defaultSkipTop              = 1
	defaultRecommendTimeout     = 60
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Recommendation sources understood by tmdb.recommendation_source.
const (
	SourceRecommendations = "recommendations"
	SourceSimilar         = "similar"
)

// Catalog sources understood by recommend.catalog_source.
const (
	CatalogSourceCSV    = "csv"
	CatalogSourceSQLite = "sqlite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogCSV: defaultCatalogCSV,
			CatalogDB:  defaultCatalogDB,
			LogDir:     defaultLogDir,
			TitleCache: defaultTitleCache,
			APIBind:    defaultAPIBind,
		},
		TMDB: TMDB{
			Language:             defaultTMDBLanguage,
			BaseURL:              defaultTMDBBaseURL,
			RequestTimeout:       defaultTMDBRequestTimeout,
			RequestsPerSecond:    defaultTMDBRequestsPerSec,
			Burst:                defaultTMDBBurst,
			RecommendationSource: defaultRecommendationSource,
		},
		Breaker: Breaker{
			Enabled:      true,
			MaxRequests:  3,
			Interval:     60,
			Timeout:      120,
			FailureRatio: 0.6,
			MinRequests:  10,
		},
		Recommend: Recommend{
			CatalogSource:  defaultCatalogSource,
			SampleSize:     defaultSampleSize,
			LocalLimit:     defaultLocalLimit,
			SkipTop:        defaultSkipTop,
			RequestTimeout: defaultRecommendTimeout,
		},
		API: API{
			CORSOrigins: []string{"*"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
