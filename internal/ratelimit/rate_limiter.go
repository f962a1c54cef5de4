// rate_limiter.go - Rate limiting for outbound AI provider calls

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a simple token bucket rate limiter.
type RateLimiter struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewRateLimiter creates a new rate limiter.
// maxTokens: burst capacity; refillRate: time between token refills.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done, so a caller's
// deadline bounds the queueing time as well as the provider call itself.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.TryAcquire() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// TryAcquire consumes a token if one is available without blocking.
func (rl *RateLimiter) TryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens <= 0 {
		return false
	}
	rl.tokens--
	return true
}

// refill adds tokens for the elapsed time. Caller must hold the lock.
func (rl *RateLimiter) refill() {
	now := time.Now()
	tokensToAdd := int(now.Sub(rl.lastRefillTime) / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefillTime = now
	}
}

// Global limiter shared by every provider call. Free-tier vision models
// allow ~15 RPM; the default leaves a safety margin.
var (
	globalLimiter   = NewRateLimiter(12, 5*time.Second)
	globalLimiterMu sync.Mutex
)

// Configure replaces the global limiter with one sized for the given
// requests-per-minute budget.
func Configure(rpm int) {
	if rpm <= 0 {
		return
	}
	globalLimiterMu.Lock()
	defer globalLimiterMu.Unlock()
	globalLimiter = NewRateLimiter(rpm, time.Minute/time.Duration(rpm))
}

// WaitForRateLimit blocks until the global limiter admits another AI call
// or ctx is done.
func WaitForRateLimit(ctx context.Context) error {
	globalLimiterMu.Lock()
	rl := globalLimiter
	globalLimiterMu.Unlock()
	return rl.Wait(ctx)
}
