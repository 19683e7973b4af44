package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/sangkips/invowise-api/internal/config"
	"github.com/sangkips/invowise-api/internal/presentation/http/dto/response"
)

// UserRateLimiter applies a token bucket per signed-in user
type UserRateLimiter struct {
	limiters    map[uuid.UUID]*rateLimiterEntry
	mu          sync.Mutex
	rate        rate.Limit
	burst       int
	cleanupTick time.Duration
	entryTTL    time.Duration
	done        chan struct{}
	stopOnce    sync.Once
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	CleanupInterval   time.Duration
	EntryTTL          time.Duration
}

// DefaultRateLimiterConfig returns sensible defaults
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	}
}

// RateLimiterConfigFrom spreads Requests over Duration seconds, allowing the
// whole window as a burst
func RateLimiterConfigFrom(cfg *config.RateLimitConfig) RateLimiterConfig {
	out := DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		out.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		out.BurstSize = cfg.Requests
	}
	return out
}

// NewUserRateLimiter creates a limiter and starts its cleanup loop. Call Stop to end it.
func NewUserRateLimiter(cfg RateLimiterConfig) *UserRateLimiter {
	rl := &UserRateLimiter{
		limiters:    make(map[uuid.UUID]*rateLimiterEntry),
		rate:        rate.Limit(cfg.RequestsPerSecond),
		burst:       cfg.BurstSize,
		cleanupTick: cfg.CleanupInterval,
		entryTTL:    cfg.EntryTTL,
		done:        make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop ends the cleanup loop
func (rl *UserRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *UserRateLimiter) getLimiter(userID uuid.UUID) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if entry, exists := rl.limiters[userID]; exists {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[userID] = &rateLimiterEntry{
		limiter:  limiter,
		lastSeen: time.Now(),
	}
	return limiter
}

func (rl *UserRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup removes entries that haven't been used recently
func (rl *UserRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.entryTTL)
	for userID, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, userID)
		}
	}
}

// Middleware limits requests by the user_id set by AuthMiddleware.
// Unauthenticated requests pass through.
func (rl *UserRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		id, ok := userID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			c.Next()
			return
		}

		limiter := rl.getLimiter(id)
		limit := strconv.Itoa(rl.burst)

		if !limiter.Allow() {
			c.Header("X-RateLimit-Limit", limit)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			response.TooManyRequests(c, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))

		c.Next()
	}
}

// Stats returns current statistics about the rate limiter
func (rl *UserRateLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"active_users":        len(rl.limiters),
		"rate_per_second":     float64(rl.rate),
		"burst_size":          rl.burst,
		"cleanup_interval_ms": rl.cleanupTick.Milliseconds(),
		"entry_ttl_ms":        rl.entryTTL.Milliseconds(),
	}
}
