package security

import (
	"strings"
	"sync"
	"time"
)

// Endpoint categories with dedicated thresholds. Endpoints that match
// neither fall back to their own lowercased literal with the default limit.
const (
	CategoryLogin    = "login"
	CategoryRegister = "register"
)

// LimitConfig is the threshold for one endpoint category.
type LimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// DefaultLimits are the compiled-in per-category thresholds.
var DefaultLimits = map[string]LimitConfig{
	CategoryLogin:    {MaxRequests: 5, Window: 15 * time.Minute},
	CategoryRegister: {MaxRequests: 10, Window: time.Hour},
}

// DefaultFallback applies to every category without a dedicated threshold.
var DefaultFallback = LimitConfig{MaxRequests: 100, Window: time.Minute}

type limitKey struct {
	clientID string
	category string
}

// entry tracks one client's requests within the current fixed window.
// count and windowStart are only read or written while holding the
// limiter's mutex, so they always move as a unit.
type entry struct {
	count        int
	windowStart  time.Time
	blockedUntil time.Time
}

// RateLimiter is an in-memory fixed-window admission gate keyed by
// (client identity, endpoint category). Fixed-window counting keeps memory
// and update cost at O(1) per key; the price is that a client can burst up
// to twice the limit across a window boundary.
//
// Stale entries are evicted lazily on the next access to their key; there is
// no background sweep, so cardinality of distinct client identities bounds
// memory growth.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[limitKey]*entry

	limits   map[string]LimitConfig
	fallback LimitConfig

	seclog *Logger
	now    func() time.Time
}

// NewRateLimiter creates a limiter with the compiled-in category thresholds.
func NewRateLimiter(seclog *Logger) *RateLimiter {
	return NewRateLimiterWithLimits(seclog, DefaultLimits, DefaultFallback)
}

// NewRateLimiterWithLimits creates a limiter with custom thresholds. Each
// call returns an isolated instance; nothing is shared between limiters.
func NewRateLimiterWithLimits(seclog *Logger, limits map[string]LimitConfig, fallback LimitConfig) *RateLimiter {
	if seclog == nil {
		seclog = NewLogger(nil)
	}

	return &RateLimiter{
		entries:  make(map[limitKey]*entry),
		limits:   limits,
		fallback: fallback,
		seclog:   seclog,
		now:      time.Now,
	}
}

// NormalizeCategory maps an endpoint string to its rate-limit category:
// anything containing "login" or "register" lands in the named category,
// everything else is its own lowercased literal category.
func NormalizeCategory(endpoint string) string {
	lowered := strings.ToLower(endpoint)

	switch {
	case strings.Contains(lowered, CategoryLogin):
		return CategoryLogin
	case strings.Contains(lowered, CategoryRegister):
		return CategoryRegister
	default:
		return lowered
	}
}

func (rl *RateLimiter) configFor(category string) LimitConfig {
	if cfg, ok := rl.limits[category]; ok {
		return cfg
	}

	return rl.fallback
}

// IsRateLimited reports whether the client is currently blocked for the
// endpoint's category. It decides but never counts: the only side effects
// are lazy eviction of stale entries and the one-time block stamp when the
// count has reached the category's limit.
func (rl *RateLimiter) IsRateLimited(clientID, endpoint string) bool {
	category := NormalizeCategory(endpoint)
	cfg := rl.configFor(category)
	key := limitKey{clientID: clientID, category: category}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, exists := rl.entries[key]
	if !exists {
		return false
	}

	now := rl.now()

	if !e.blockedUntil.IsZero() {
		if now.Before(e.blockedUntil) {
			return true
		}
		// Block elapsed with the window; the entry is stale.
		delete(rl.entries, key)

		return false
	}

	if now.Sub(e.windowStart) >= cfg.Window {
		delete(rl.entries, key)

		return false
	}

	if e.count >= cfg.MaxRequests {
		e.blockedUntil = e.windowStart.Add(cfg.Window)
		rl.seclog.LogRateLimitExceeded(clientID, category)

		return true
	}

	return false
}

// RecordRequest counts one attempt against the current window, starting a
// fresh window if none exists or the previous one has elapsed. Callers
// record every accepted attempt, not only failed ones.
func (rl *RateLimiter) RecordRequest(clientID, endpoint string) {
	category := NormalizeCategory(endpoint)
	cfg := rl.configFor(category)
	key := limitKey{clientID: clientID, category: category}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	e, exists := rl.entries[key]
	if !exists || now.Sub(e.windowStart) >= cfg.Window {
		rl.entries[key] = &entry{count: 1, windowStart: now}

		return
	}

	e.count++
}

// GetRetryAfter returns how long the client must wait before the category
// admits it again, and false when the client is not limited.
func (rl *RateLimiter) GetRetryAfter(clientID, endpoint string) (time.Duration, bool) {
	category := NormalizeCategory(endpoint)
	cfg := rl.configFor(category)
	key := limitKey{clientID: clientID, category: category}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, exists := rl.entries[key]
	if !exists {
		return 0, false
	}

	now := rl.now()

	if !e.blockedUntil.IsZero() {
		if now.Before(e.blockedUntil) {
			return e.blockedUntil.Sub(now), true
		}

		return 0, false
	}

	// At the limit but not yet stamped: the remaining window is the wait.
	if e.count >= cfg.MaxRequests {
		if remaining := e.windowStart.Add(cfg.Window).Sub(now); remaining > 0 {
			return remaining, true
		}
	}

	return 0, false
}

// ClearRateLimit evicts the entry for (client, category) unconditionally.
// Used by tests and administrative overrides.
func (rl *RateLimiter) ClearRateLimit(clientID, endpoint string) {
	key := limitKey{clientID: clientID, category: NormalizeCategory(endpoint)}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.entries, key)
}
