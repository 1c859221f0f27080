// Package api provides the REST API of the converter: parse, serialize and
// lex TAC, and look up stored conversions.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tac_converter/internal/conversion"
	"tac_converter/internal/converter"
	"tac_converter/internal/storage"
)

// ArchiveStore searches archived conversions.
type ArchiveStore interface {
	Query(ctx context.Context, p storage.QueryParams) ([]storage.Record, error)
	Get(ctx context.Context, id uuid.UUID) (*storage.Record, error)
}

// LatestStore looks up the latest message per location and family.
type LatestStore interface {
	GetLatest(ctx context.Context, location, family string) (*storage.Record, error)
	ListLatest(ctx context.Context, location string) ([]storage.Record, error)
}

// Metrics receives API counters.
type Metrics interface {
	CacheLookup(hit bool)
	HTTPRequest(route string, code int)
}

type nopMetrics struct{}

func (nopMetrics) CacheLookup(bool)         {}
func (nopMetrics) HTTPRequest(string, int) {}

// Config holds configuration for the API server.
type Config struct {
	Addr            string
	AuthEnabled     bool
	APIKeys         []string // List of valid API keys.
	CacheSize       int
	Hints           conversion.Hints // defaults for every request
	ShutdownTimeout time.Duration
}

// Server provides REST API access to the converter.
type Server struct {
	cfg      Config
	conv     *converter.Converter
	cache    *lru.Cache[string, converter.Parsed]
	archive  ArchiveStore
	latest   LatestStore
	sink     storage.Sink
	metrics  Metrics
	gatherer prometheus.Gatherer
	clock    clockwork.Clock
	logger   *slog.Logger
	apiKeys  map[string]bool // Simple API key auth (when enabled).
}

// Option configures a Server.
type Option func(*Server)

// WithArchive enables the archive search endpoints.
func WithArchive(a ArchiveStore) Option { return func(s *Server) { s.archive = a } }

// WithLatest enables the latest message endpoints.
func WithLatest(l LatestStore) Option { return func(s *Server) { s.latest = l } }

// WithSink stores every parse request.
func WithSink(sink storage.Sink) Option { return func(s *Server) { s.sink = sink } }

// WithMetrics sets the metrics and the gatherer served at /metrics.
func WithMetrics(m Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics, s.gatherer = m, g }
}

// WithClock sets the clock used for record timestamps.
func WithClock(c clockwork.Clock) Option { return func(s *Server) { s.clock = c } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// NewServer creates a new API server.
func NewServer(conv *converter.Converter, cfg Config, opts ...Option) (*Server, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1000
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	cache, err := lru.New[string, converter.Parsed](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}

	s := &Server{
		cfg:     cfg,
		conv:    conv,
		cache:   cache,
		metrics: nopMetrics{},
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
		apiKeys: keys,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Router returns the configured chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for browser access.
	r.Use(corsMiddleware)

	// Health check and metrics (no auth required).
	r.Get("/api/v1/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Optional authentication.
		if s.cfg.AuthEnabled {
			r.Use(s.authMiddleware)
		}

		r.Post("/parse", s.handleParse)
		r.Post("/serialize", s.handleSerialize)
		r.Post("/lex", s.handleLex)

		r.Get("/latest/{location}", s.handleListLatest)
		r.Get("/latest/{location}/{family}", s.handleGetLatest)

		r.Get("/archive", s.handleQueryArchive)
		r.Get("/archive/{id}", s.handleGetArchived)
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api starting", "addr", s.cfg.Addr, "auth", s.cfg.AuthEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates API key authentication.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check X-API-Key header first.
		apiKey := r.Header.Get("X-API-Key")

		// Fall back to Authorization: Bearer <key>.
		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}

		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request and counts it by route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.HTTPRequest(route, status)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"took", s.clock.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
