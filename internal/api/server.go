package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solidflix/internal/logging"
	"solidflix/internal/metrics"
	"solidflix/internal/services"
)

// RequestIDHeader carries the correlation id on requests and responses.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes caps the size of a recommendation request body.
const maxBodyBytes = 1 << 20

// Recommender produces recommendations for a list of titles.
type Recommender interface {
	Recommend(ctx context.Context, titles []string) ([]string, error)
}

// ServerOptions configures the HTTP adapter.
type ServerOptions struct {
	CORSOrigins []string
}

// Server exposes a Recommender over HTTP.
type Server struct {
	recommender Recommender
	logger      *slog.Logger
	router      chi.Router
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error     string `json:"error"`
	Reason    string `json:"reason"`
	RequestID string `json:"request_id,omitempty"`
}

// NewServer builds the router.
func NewServer(recommender Recommender, opts ServerOptions, logger *slog.Logger) *Server {
	s := &Server{
		recommender: recommender,
		logger:      logging.NewComponentLogger(logger, "api"),
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Post("/", s.instrument("recommend", s.handleRecommend))
	r.Get("/healthz", s.instrument("healthz", s.handleHealth))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on bind until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, bind string) error {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.logger.Info("api server listening",
		logging.String(logging.FieldEventType, "api_listening"),
		logging.String("address", listener.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		s.logger.Info("api server stopped", logging.String(logging.FieldEventType, "api_stopped"))
		return nil
	}
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		h(ww, r)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	}
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	titles, err := decodeTitles(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "api", "decode request", "", err))
		return
	}

	ctx := r.Context()
	logger := logging.WithContext(ctx, s.logger)
	start := time.Now()
	result, err := s.recommender.Recommend(ctx, titles)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logger.Info("recommendation served",
		logging.String(logging.FieldEventType, "recommend_served"),
		logging.Strings("titles", titles),
		logging.Strings("result", result),
		logging.Duration("elapsed", time.Since(start)),
	)
	s.writeJSON(w, http.StatusOK, result)
}

// decodeTitles accepts a JSON array of titles. Blank entries are dropped; an
// empty list is rejected.
func decodeTitles(body io.Reader) ([]string, error) {
	var raw []string
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("body must be a JSON array of titles: %w", err)
	}
	titles := make([]string, 0, len(raw))
	for _, title := range raw {
		if strings.TrimSpace(title) == "" {
			continue
		}
		titles = append(titles, title)
	}
	if len(titles) == 0 {
		return nil, errors.New("at least one title is required")
	}
	return titles, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, reason := services.Classify(err)
	rid, _ := services.RequestIDFromContext(r.Context())
	logger := logging.WithContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logger, "recommendation request failed", "recommend_failed",
			logging.Error(err),
			logging.Int("status", status))
	} else {
		logger.Info("recommendation request rejected",
			logging.String(logging.FieldEventType, "recommend_rejected"),
			logging.Error(err),
			logging.Int("status", status))
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Reason: reason, RequestID: rid})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to encode response", logging.Error(err))
	}
}
