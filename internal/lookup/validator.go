package lookup

import (
	"context"
	"log/slog"
	"time"

	"solidflix/internal/logging"
	"solidflix/internal/services"
)

// Validator confirms that a title exists in the external service.
type Validator struct {
	service MetadataService
	timeout time.Duration
	logger  *slog.Logger
}

// NewValidator returns a Validator that bounds every call by timeout.
func NewValidator(service MetadataService, timeout time.Duration, logger *slog.Logger) *Validator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Validator{service: service, timeout: timeout, logger: logging.NewComponentLogger(logger, "validator")}
}

// Confirm reports whether a search for title returns at least one result with
// the same title ignoring case. Errors count as unconfirmed.
func (v *Validator) Confirm(ctx context.Context, title string) bool {
	if v == nil || v.service == nil {
		return false
	}
	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	results, err := v.service.SearchMovie(callCtx, title)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(services.WithTitle(ctx, title), v.logger),
			"validation search failed", "validation_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "title dropped from candidates"),
		)
		return false
	}
	for _, r := range results {
		if SameTitle(r.Title, title) {
			return true
		}
	}
	v.logger.Debug("title not confirmed", logging.String(logging.FieldTitle, title))
	return false
}
