package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"catalog-sync/core/clock"

	"golang.org/x/time/rate"
)

// pruneThreshold is the entry count above which expired entries are swept.
const pruneThreshold = 1024

// entry is one window for one key. The bucket never refills (rate 0) and
// holds threshold tokens, so it admits exactly threshold events until the
// window is replaced.
type entry struct {
	bucket      *rate.Limiter
	windowStart time.Time
}

// Limiter counts actions per (actor, action) in fixed windows.
type Limiter struct {
	mu               sync.Mutex
	clock            clock.Clock
	window           time.Duration
	defaultThreshold int
	thresholds       map[string]int
	entries          map[string]*entry
}

// New builds a limiter. It fails when the threshold table does not parse.
func New(cfg Config, c clock.Clock) (*Limiter, error) {
	if c == nil {
		c = clock.System{}
	}
	window := time.Duration(cfg.WindowSeconds) * time.Second
	if window <= 0 {
		window = 300 * time.Second
	}
	thresholds, err := ParseThresholds(cfg.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("invalid rate_limit.thresholds: %w", err)
	}
	return &Limiter{
		clock:            c,
		window:           window,
		defaultThreshold: cfg.DefaultThreshold,
		thresholds:       thresholds,
		entries:          make(map[string]*entry),
	}, nil
}

// Key returns the entry key for an (actor, action) pair.
func Key(actor, action string) string {
	sum := sha256.Sum256([]byte(actor + "\x00" + action))
	return hex.EncodeToString(sum[:])
}

// Threshold returns the configured threshold for an action.
func (l *Limiter) Threshold(action string) int {
	if t, ok := l.thresholds[action]; ok {
		return t
	}
	return l.defaultThreshold
}

// Allow records one action and reports whether it is within the threshold.
func (l *Limiter) Allow(actor, action string) bool {
	now := l.clock.Now()
	key := Key(actor, action)

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) > pruneThreshold {
		l.pruneLocked(now)
	}

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		threshold := l.Threshold(action)
		if threshold < 0 {
			threshold = 0
		}
		e = &entry{bucket: rate.NewLimiter(0, threshold), windowStart: now}
		l.entries[key] = e
	}

	return e.bucket.AllowN(now, 1)
}

// RetryAfter returns how long until the current window for the pair resets.
// It is zero when no window is open.
func (l *Limiter) RetryAfter(actor, action string) time.Duration {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[Key(actor, action)]
	if !ok {
		return 0
	}
	left := l.window - now.Sub(e.windowStart)
	if left < 0 {
		return 0
	}
	return left
}

func (l *Limiter) pruneLocked(now time.Time) {
	for key, e := range l.entries {
		if now.Sub(e.windowStart) >= l.window {
			delete(l.entries, key)
		}
	}
}
