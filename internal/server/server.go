// Package server exposes passage generation and server-side typing sessions over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/hippotype/internal/generator"
	"github.com/verte-zerg/hippotype/internal/model"
	"github.com/verte-zerg/hippotype/internal/stats"
)

// Provider is reported to clients as the upstream model host.
const Provider = "groq"

const shutdownTimeout = 10 * time.Second

// Generator produces passages from the language model.
type Generator interface {
	Generate(ctx context.Context, domain model.Domain) (generator.Result, error)
	Probe(ctx context.Context) (string, error)
	Model() string
}

// Cache stores generated passages for reuse when generation fails.
type Cache interface {
	SavePassage(ctx context.Context, p model.Passage) (int64, error)
	RandomPassage(ctx context.Context, domain model.Domain) (model.Passage, error)
	CountPassages(ctx context.Context, domain model.Domain) (int, error)
	Prune(ctx context.Context, domain model.Domain, keep int) (int64, error)
}

// Config controls server behavior. Zero values take defaults.
type Config struct {
	RateRPS   int
	RateBurst int
	CacheSize int
	// Duration and Levels configure sessions played over /play.
	Duration time.Duration
	Levels   stats.LevelTable
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	gen    Generator
	cache  Cache
	cfg    Config
	logger zerolog.Logger

	started time.Time
	now     func() time.Time

	limiterMu sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

// New returns a Server. cache may be nil to disable the passage cache.
func New(gen Generator, cache Cache, cfg Config, logger zerolog.Logger) *Server {
	if cfg.RateRPS <= 0 {
		cfg.RateRPS = 5
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 10
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 200
	}
	return &Server{
		gen:      gen,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
		started:  time.Now(),
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), s.requestLogger(), cors())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression, ginGzip.WithExcludedPaths([]string{RoutePlay})))
	router.Use(noStore())

	router.GET(RouteHome, s.handleHome)
	router.GET(RouteGenerate, s.rateLimit(), s.handleGenerate)
	router.GET(RouteTestModel, s.rateLimit(), s.handleTestModel)
	router.GET(RouteInfo, s.handleInfo)
	router.GET(RouteHealth, s.handleHealth)
	router.GET(RoutePlay, s.handlePlay)
	return router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("model", s.gen.Model()).Msg("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutdown signal received, shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
