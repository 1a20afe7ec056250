package logging

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Throttle rate-limits repeated warnings per key (typically a file path)
type Throttle struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
	suppressed   atomic.Int64
}

// NewThrottle creates a throttle allowing perSecond warnings per key after
// an initial burst. A zero rate allows only the burst.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if burst <= 0 {
		burst = 5
	}

	return &Throttle{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(perSecond),
		defaultBurst: burst,
	}
}

// Allow reports whether a warning for key may be emitted now
func (t *Throttle) Allow(key string) bool {
	if t.getLimiter(key).Allow() {
		return true
	}
	t.suppressed.Add(1)
	return false
}

// Suppressed returns how many warnings were dropped so far
func (t *Throttle) Suppressed() int64 {
	return t.suppressed.Load()
}

// Warn logs msg at warn level unless key is over its budget
func (t *Throttle) Warn(logger *slog.Logger, key, msg string, args ...any) {
	if t.Allow(key) {
		logger.Warn(msg, args...)
	}
}

// getLimiter returns the limiter for a key
func (t *Throttle) getLimiter(key string) *rate.Limiter {
	t.mu.RLock()
	limiter, exists := t.limiters[key]
	t.mu.RUnlock()

	if exists {
		return limiter
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := t.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(t.defaultRate, t.defaultBurst)
	t.limiters[key] = limiter

	return limiter
}
