package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"solidflix/internal/logging"
	"solidflix/internal/metrics"
)

// BreakerSettings configures the TMDB circuit breaker.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// Breaker wraps a Searcher with a circuit breaker. While the circuit is open,
// calls fail immediately with gobreaker.ErrOpenState.
type Breaker struct {
	next   Searcher
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger *slog.Logger
}

var _ Searcher = (*Breaker)(nil)

// NewBreaker wraps next. The circuit opens once at least MinRequests calls in
// the current interval failed at FailureRatio or above.
func NewBreaker(next Searcher, settings BreakerSettings, logger *slog.Logger) *Breaker {
	name := settings.Name
	if name == "" {
		name = "tmdb-api"
	}
	b := &Breaker{
		next:   next,
		name:   name,
		logger: logging.NewComponentLogger(logger, "tmdb_breaker"),
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about upstream health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Info("circuit breaker state change",
				logging.String(logging.FieldEventType, "breaker_state_change"),
				logging.String("breaker", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return b
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// SearchMovie searches through the breaker.
func (b *Breaker) SearchMovie(ctx context.Context, query string) (*Response, error) {
	return execute(b, func() (*Response, error) { return b.next.SearchMovie(ctx, query) })
}

// GetMovieDetails fetches details through the breaker.
func (b *Breaker) GetMovieDetails(ctx context.Context, movieID int64) (*Result, error) {
	return execute(b, func() (*Result, error) { return b.next.GetMovieDetails(ctx, movieID) })
}

// GetMovieRecommendations fetches recommendations through the breaker.
func (b *Breaker) GetMovieRecommendations(ctx context.Context, movieID int64) (*Response, error) {
	return execute(b, func() (*Response, error) { return b.next.GetMovieRecommendations(ctx, movieID) })
}

// GetSimilarMovies fetches similar movies through the breaker.
func (b *Breaker) GetSimilarMovies(ctx context.Context, movieID int64) (*Response, error) {
	return execute(b, func() (*Response, error) { return b.next.GetSimilarMovies(ctx, movieID) })
}

func execute[T any](b *Breaker, fn func() (*T, error)) (*T, error) {
	result, err := b.cb.Execute(func() (any, error) {
		r, err := fn()
		return r, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.logger.Debug("tmdb request rejected by breaker", logging.Error(err))
		}
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type")
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
