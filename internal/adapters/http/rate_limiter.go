package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// tokenRateLimiter caps mutations per client token over a sliding window.
type tokenRateLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	limit    int
	interval time.Duration
}

func newTokenRateLimiter(limit int, interval time.Duration) *tokenRateLimiter {
	return &tokenRateLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *tokenRateLimiter) Allow(token string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[token]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[token] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[token] = fresh
	return true
}

// RateLimited rejects bursts from one client token with 429. The window is
// wide enough that a human mashing the heart button never hits it.
func (s *Server) RateLimited(c *gin.Context) {
	token := c.GetString(clientTokenKey)
	if !s.limiter.Allow(token) {
		log.Warn().Str("module", "adapters.http").Str("path", c.FullPath()).Msg("rate limited")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}
	c.Next()
}
