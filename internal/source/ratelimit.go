package source

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Default rate limits per source (requests per second). Spotify's
// client-credentials tier tolerates short bursts; Discogs enforces a
// hard 60/min; Gemini's free tier is budgeted per day, kept slow here.
var defaultRateLimits = map[Name]rate.Limit{
	NameSpotify: 5,
	NameDiscogs: 1,
	NameGemini:  1,
}

// RateLimiterMap holds one rate.Limiter per source, created once at
// startup and shared by every concurrent analysis.
type RateLimiterMap struct {
	mu       sync.RWMutex
	limiters map[Name]*rate.Limiter
}

// NewRateLimiterMap creates all source rate limiters.
func NewRateLimiterMap() *RateLimiterMap {
	m := &RateLimiterMap{
		limiters: make(map[Name]*rate.Limiter, len(defaultRateLimits)),
	}
	for name, limit := range defaultRateLimits {
		m.limiters[name] = rate.NewLimiter(limit, 1)
	}
	return m
}

// Wait blocks until the rate limiter for the given source allows a
// request, or the context is canceled.
func (m *RateLimiterMap) Wait(ctx context.Context, name Name) error {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
