package lookup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"solidflix/internal/logging"
	"solidflix/internal/services"
)

// DefaultTimeout bounds each external call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Fallback finds recommendations for titles absent from the catalog.
type Fallback struct {
	service MetadataService
	timeout time.Duration
	logger  *slog.Logger
}

// NewFallback returns a Fallback that bounds every call by timeout.
func NewFallback(service MetadataService, timeout time.Duration, logger *slog.Logger) *Fallback {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fallback{service: service, timeout: timeout, logger: logging.NewComponentLogger(logger, "lookup")}
}

// Lookup searches for title, picks the last result whose title matches it
// ignoring case, and returns that movie's recommended titles verbatim. Any
// failure or a missing match yields an empty result.
func (f *Fallback) Lookup(ctx context.Context, title string) []string {
	titles, err := f.Resolve(ctx, title)
	if err != nil {
		logger := logging.WithContext(services.WithTitle(ctx, title), f.logger)
		if errors.Is(err, services.ErrUnknownTitle) {
			logger.Info("no exact match for title",
				logging.String(logging.FieldEventType, "fallback_no_match"),
			)
		} else {
			logging.WarnWithContext(logger, "fallback lookup failed", "fallback_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check TMDB connectivity and API key"),
				logging.String(logging.FieldImpact, "title contributes no candidates"),
			)
		}
		return []string{}
	}
	return titles
}

// Resolve is Lookup with the failure reason returned. A missing match is
// reported as services.ErrUnknownTitle.
func (f *Fallback) Resolve(ctx context.Context, title string) ([]string, error) {
	if f == nil || f.service == nil {
		return nil, services.Wrap(services.ErrConfiguration, "lookup", "resolve", "metadata service not configured", nil)
	}
	results, err := f.search(ctx, title)
	if err != nil {
		return nil, err
	}

	var match *Movie
	for i := range results {
		if SameTitle(results[i].Title, title) {
			match = &results[i]
		}
	}
	if match == nil {
		return nil, services.Wrap(services.ErrUnknownTitle, "lookup", "match", title, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	recs, err := f.service.Recommendations(callCtx, match.ID)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "lookup", "recommendations", title, err)
	}
	titles := make([]string, 0, len(recs))
	for _, rec := range recs {
		if rec.Title == "" {
			continue
		}
		titles = append(titles, rec.Title)
	}
	f.logger.Debug("fallback resolved",
		logging.String(logging.FieldTitle, title),
		logging.Int64("tmdb_id", match.ID),
		logging.Int("recommendations", len(titles)),
	)
	return titles, nil
}

func (f *Fallback) search(ctx context.Context, title string) ([]Movie, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	results, err := f.service.SearchMovie(callCtx, title)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "lookup", "search", title, err)
	}
	return results, nil
}
