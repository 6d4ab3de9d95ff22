package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrDataUnavailable        = errors.New("data unavailable")
	ErrExternalService        = errors.New("external service error")
	ErrUnknownTitle           = errors.New("unknown title")
	ErrInsufficientCandidates = errors.New("insufficient candidates")
	ErrValidation             = errors.New("validation error")
	ErrConfiguration          = errors.New("configuration error")
	ErrTimeout                = errors.New("timeout")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an engine error to the HTTP status and short reason the API
// adapter reports to callers.
func Classify(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, "ok"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, ErrInsufficientCandidates):
		return http.StatusUnprocessableEntity, "insufficient_candidates"
	case errors.Is(err, ErrDataUnavailable):
		return http.StatusServiceUnavailable, "data_unavailable"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError, "configuration"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
