// Package ratelimit provides fixed-window request counting keyed by
// (actor, action).
//
// It is advisory backpressure for the manual/administrative trigger surface.
// It does not prevent concurrent sync runs; that is the job of the persisted
// status compare-and-swap in feature/sync.
//
// # Thresholds
//
// Each action may have its own threshold; unlisted actions use the default.
// Thresholds are configured as a comma separated table:
//
//	RATE_LIMIT_THRESHOLDS="sync.trigger:10,products.list:120"
//
// # Usage
//
//	l, err := ratelimit.New(cfg, clock.System{})
//	if !l.Allow(apiKey, "sync.trigger") {
//	    return fiber.ErrTooManyRequests
//	}
package ratelimit
