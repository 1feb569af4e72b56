package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-Id"

// limiterIdle is how long a client limiter survives without requests.
const limiterIdle = 10 * time.Minute

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// limiter returns the rate limiter for a client key. Limiters idle for longer
// than limiterIdle are dropped, at most one sweep per limiterIdle.
func (s *Server) limiter(key string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	now := s.now()
	if now.Sub(s.lastSweep) >= limiterIdle {
		for k, cl := range s.limiters {
			if now.Sub(cl.lastSeen) >= limiterIdle {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}
	cl, ok := s.limiters[key]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(rate.Every(time.Second/time.Duration(s.cfg.RateRPS)), s.cfg.RateBurst)}
		s.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.lim
}

// rateLimit enforces a per-client request rate on model-backed routes.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests. Please slow down.",
				"success": false,
			})
			return
		}
		c.Next()
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := s.logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = s.logger.Error()
		case status >= http.StatusBadRequest:
			ev = s.logger.Warn()
		}
		ev.Str("request_id", c.GetString(requestIDHeader)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// cors allows any origin, matching the browser front end served from elsewhere.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func noStore() gin.HandlerFunc {
	return cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})
}
