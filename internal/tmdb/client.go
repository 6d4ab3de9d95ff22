package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"solidflix/internal/metrics"
)

// Result represents a single TMDB movie entry.
type Result struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
}

// Response models the TMDB paginated list response shared by search,
// recommendations and similar endpoints.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Searcher defines the TMDB operations used by the engine.
type Searcher interface {
	SearchMovie(ctx context.Context, query string) (*Response, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*Result, error)
	GetMovieRecommendations(ctx context.Context, movieID int64) (*Response, error)
	GetSimilarMovies(ctx context.Context, movieID int64) (*Response, error)
}

// StatusError reports a non-200 TMDB response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned %d (latency=%v)", e.Endpoint, e.StatusCode, e.Latency)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit caps outgoing requests at rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches TMDB for the supplied title.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	var payload Response
	if err := c.get(ctx, "search", "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMovieDetails fetches movie details by TMDB ID.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*Result, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload Result
	if err := c.get(ctx, "movie details", fmt.Sprintf("/movie/%d", movieID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMovieRecommendations fetches TMDB's recommendations for a movie.
func (c *Client) GetMovieRecommendations(ctx context.Context, movieID int64) (*Response, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload Response
	if err := c.get(ctx, "recommendations", fmt.Sprintf("/movie/%d/recommendations", movieID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetSimilarMovies fetches movies TMDB considers similar by keywords and genres.
func (c *Client) GetSimilarMovies(ctx context.Context, movieID int64) (*Response, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload Response
	if err := c.get(ctx, "similar", fmt.Sprintf("/movie/%d/similar", movieID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, endpointName, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.TMDBRequests.WithLabelValues(endpointName, "rate_limited").Inc()
			return fmt.Errorf("tmdb rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		metrics.TMDBRequests.WithLabelValues(endpointName, "error").Inc()
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.TMDBRequests.WithLabelValues(endpointName, "status_"+fmt.Sprint(resp.StatusCode)).Inc()
		return &StatusError{Endpoint: endpointName, StatusCode: resp.StatusCode, Latency: latency}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.TMDBRequests.WithLabelValues(endpointName, "decode_error").Inc()
		return fmt.Errorf("decode tmdb %s response: %w", endpointName, err)
	}
	metrics.TMDBRequests.WithLabelValues(endpointName, "ok").Inc()
	return nil
}
