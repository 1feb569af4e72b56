package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/verte-zerg/hippotype/internal/generator"
	"github.com/verte-zerg/hippotype/internal/model"
	"github.com/verte-zerg/hippotype/internal/store"
)

// Routes.
const (
	RouteHome      = "/"
	RouteGenerate  = "/generate"
	RouteTestModel = "/test-model"
	RouteInfo      = "/info"
	RouteHealth    = "/healthz"
	RoutePlay      = "/play"
)

// Passage sources reported by /generate.
const (
	SourceModel = "model"
	SourceCache = "cache"
)

func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "HippoType Server via Groq",
		"model":     s.gen.Model(),
		"provider":  Provider,
		"status":    "active",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	raw := c.Query("domain")
	ctx := c.Request.Context()
	log := s.logger.With().Str("domain", raw).Str("request_id", c.GetString(requestIDHeader)).Logger()

	res, err := s.gen.Generate(ctx, model.Domain(raw))
	if err == nil {
		log.Info().Str("topic", res.Topic).Int("length", len(res.Text)).Msg("Generated passage")
		s.remember(ctx, res)
		c.JSON(http.StatusOK, s.passageBody(raw, res.Text, res.Topic, res.Model, SourceModel))
		return
	}

	status := generator.StatusFor(err)
	log.Error().Err(err).Int("status", status).Msg("Generation failed")
	if cached, ok := s.cached(ctx, model.ParseDomain(raw)); ok {
		log.Info().Int64("passage_id", cached.ID).Msg("Serving cached passage")
		c.JSON(http.StatusOK, s.passageBody(raw, cached.Text, cached.Topic, cached.Model, SourceCache))
		return
	}
	c.JSON(status, gin.H{
		"error":         generator.StatusMessage(status),
		"details":       err.Error(),
		"fallback_text": generator.Fallback(model.Domain(raw)),
		"model":         s.gen.Model(),
		"provider":      Provider,
		"timestamp":     s.now().UnixMilli(),
		"success":       false,
	})
}

func (s *Server) passageBody(domain, text, topic, modelName, source string) gin.H {
	return gin.H{
		"text":      text,
		"domain":    domain,
		"model":     lo.Ternary(modelName != "", modelName, s.gen.Model()),
		"provider":  Provider,
		"timestamp": s.now().UnixMilli(),
		"length":    len(text),
		"topic":     topic,
		"source":    source,
		"success":   true,
	}
}

// remember stores a generated passage and prunes the domain to the cache size.
func (s *Server) remember(ctx context.Context, res generator.Result) {
	if s.cache == nil {
		return
	}
	domain := model.ParseDomain(string(res.Domain))
	if _, err := s.cache.SavePassage(ctx, model.Passage{
		Domain:    domain,
		Text:      res.Text,
		Topic:     res.Topic,
		Model:     res.Model,
		CreatedAt: s.now(),
	}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to cache passage")
		return
	}
	if _, err := s.cache.Prune(ctx, domain, s.cfg.CacheSize); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to prune passage cache")
	}
}

func (s *Server) cached(ctx context.Context, domain model.Domain) (model.Passage, bool) {
	if s.cache == nil {
		return model.Passage{}, false
	}
	p, err := s.cache.RandomPassage(ctx, domain)
	if err != nil {
		if !errors.Is(err, store.ErrNoPassage) {
			s.logger.Warn().Err(err).Msg("Failed to read passage cache")
		}
		return model.Passage{}, false
	}
	return p, true
}

// passageFor returns text for a server-side session: a fresh generation, a
// cached passage, or the fallback.
func (s *Server) passageFor(ctx context.Context, domain model.Domain) string {
	res, err := s.gen.Generate(ctx, domain)
	if err == nil {
		s.remember(ctx, res)
		return res.Text
	}
	s.logger.Warn().Err(err).Str("domain", domain.String()).Msg("Generation failed for play session")
	if cached, ok := s.cached(ctx, domain); ok {
		return cached.Text
	}
	return generator.Fallback(domain)
}

func (s *Server) handleTestModel(c *gin.Context) {
	out, err := s.gen.Probe(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Model test failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"model":     s.gen.Model(),
			"provider":  Provider,
			"timestamp": s.now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Model is working",
		"model":         s.gen.Model(),
		"provider":      Provider,
		"test_response": out,
		"timestamp":     s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":  "HippoType AI Content Generator",
		"model":    s.gen.Model(),
		"provider": "Groq Cloud",
		"features": []string{
			"Ultra-fast inference",
			"Dynamic content generation",
			"Domain-specific prompts",
			"Typing-optimized text",
			"Real-time generation",
		},
		"domains": lo.Map(model.Domains(), func(d model.Domain, _ int) string { return d.String() }),
		"endpoints": gin.H{
			"generate": RouteGenerate + "?domain={general|story|coding}",
			"test":     RouteTestModel,
			"info":     RouteInfo,
			"health":   RouteHealth,
			"play":     RoutePlay,
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	cachedCount := 0
	if s.cache != nil {
		n, err := s.cache.CountPassages(c.Request.Context(), "")
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to count cached passages")
		}
		cachedCount = n
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime":          s.now().Sub(s.started).Round(time.Second).String(),
		"cached_passages": cachedCount,
		"timestamp":       s.now().UTC().Format(time.RFC3339),
	})
}
