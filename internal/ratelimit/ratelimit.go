// Package ratelimit throttles how fast transformed records are emitted.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces record emission.
type Limiter struct {
	limiter *rate.Limiter
}

// New returns a Limiter allowing recordsPerSecond records per second. Zero
// or a negative value disables throttling.
func New(recordsPerSecond float64) *Limiter {
	if recordsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}

	// Burst of one: the first record goes out immediately, the rest are
	// spaced by the configured rate.
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(recordsPerSecond), 1)}
}

// Wait blocks until the next record may be emitted or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Limit returns the configured rate, 0 meaning unlimited.
func (l *Limiter) Limit() float64 {
	if l == nil {
		return 0
	}
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
