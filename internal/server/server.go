// Package server assembles the web console: router, middleware, health and
// metrics endpoints, and the background janitor for tab storage.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/me/loginhub/internal/config"
	"github.com/me/loginhub/internal/metrics"
	"github.com/me/loginhub/internal/store"
	"github.com/me/loginhub/internal/ui"
)

// Server is the LoginHub web console.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	redis     redis.UniversalClient // optional tab storage
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	ui        *ui.UI
	janitor   *Janitor
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithRedis keeps tab-scoped session storage in Redis instead of SQLite.
func WithRedis(rdb redis.UniversalClient) Option {
	return func(s *Server) {
		s.redis = rdb
	}
}

// WithRegistry sets the Prometheus registry served on /metrics.
func WithRegistry(reg *prometheus.Registry, m *metrics.Metrics) Option {
	return func(s *Server) {
		s.registry = reg
		s.metrics = m
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry, s.metrics = metrics.NewRegistry()
	}

	scopes := ui.NewSessionScopes(st, s.redis, cfg.TabIdleTTL, cfg.SecureCookies)
	s.ui = ui.New(scopes, ui.Config{
		APIURL:              cfg.APIURL,
		MasterKey:           cfg.MasterKey,
		ReservedIdentifiers: cfg.ReservedIdentifiers,
		RequestTimeout:      cfg.RequestTimeout,
	}, logger, s.metrics)

	if s.redis == nil {
		s.janitor = NewJanitor(st, cfg.TabIdleTTL, cfg.JanitorInterval, logger, s.metrics)
	}

	s.routes()
	return s
}

// StartJanitor begins sweeping idle tab storage in a background goroutine.
// It is a no-op when tab storage lives in Redis, which expires keys itself.
func (s *Server) StartJanitor(ctx context.Context) {
	if s.janitor == nil || !s.janitor.claim() {
		return
	}
	go func() {
		if err := s.janitor.run(ctx); err != nil && err != context.Canceled {
			s.logger.Error("janitor stopped", "error", err)
		}
	}()
}

// StopJanitor stops the janitor and waits for it to exit. It is safe to call
// without StartJanitor.
func (s *Server) StopJanitor() {
	if s.janitor != nil {
		s.janitor.Stop()
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metrics.Handler(s.registry))

	// Console (HTML)
	s.ui.RegisterRoutes(r)
}
