// Package server exposes the HTTP surface: cron trigger endpoints, the
// tracking beacon, feeds, structured data, health, and metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/config"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/metrics"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// beaconRatePerMinute is the per-IP budget for the tracking endpoint.
const beaconRatePerMinute = 60

// feedItemCap bounds how many published documents a feed returns.
const feedItemCap = 50

// ContentStore is the read/write surface the HTTP handlers need.
type ContentStore interface {
	StoreBeacon(ctx context.Context, ev models.BeaconEvent) error
	ListPublished(ctx context.Context, limit int) ([]models.Document, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Document, error)
	Ping(ctx context.Context) error
}

// Jobs holds the cron job entry points the trigger endpoints invoke. Each
// returns a one-line summary for the response body.
type Jobs struct {
	Seed     func(ctx context.Context) (string, error)
	Generate func(ctx context.Context) (string, error)
	Sync     func(ctx context.Context) (string, error)
}

// Server is the HTTP server with its dependencies.
type Server struct {
	cfg     config.Config
	store   ContentStore
	jobs    Jobs
	metrics *metrics.Collector
	logger  *slog.Logger
	limiter *ipRateLimiter
	router  chi.Router
}

// New wires the server and its routes.
func New(cfg config.Config, store ContentStore, jobs Jobs, collector *metrics.Collector, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		jobs:    jobs,
		metrics: collector,
		logger:  logger,
		limiter: newIPRateLimiter(beaconRatePerMinute),
	}

	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Route("/api/cron", func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Post("/seed-content-queue", s.handleCron("seed", jobs.Seed))
		r.Post("/generate-content", s.handleCron("generate", jobs.Generate))
		r.Post("/sync-jtbd-coverage", s.handleCron("sync", jobs.Sync))
	})

	r.Post("/api/track", s.handleTrack)
	r.Get("/feed.xml", s.handleFeedXML)
	r.Get("/feed.json", s.handleFeedJSON)
	r.Get("/api/structured-data", s.handleStructuredData)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	s.router = r
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "port", s.cfg.ServerPort)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.limiter.Stop()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		s.limiter.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
