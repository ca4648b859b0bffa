package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		recordsPerSecond float64
		wantLimit        float64
	}{
		{name: "unlimited_zero", recordsPerSecond: 0, wantLimit: 0},
		{name: "unlimited_negative", recordsPerSecond: -1, wantLimit: 0},
		{name: "one_per_second", recordsPerSecond: 1, wantLimit: 1},
		{name: "fractional", recordsPerSecond: 0.5, wantLimit: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := New(tt.recordsPerSecond).Limit(); got != tt.wantLimit {
				t.Fatalf("Limit() = %v, want %v", got, tt.wantLimit)
			}
		})
	}
}

func TestWaitUnlimited(t *testing.T) {
	t.Parallel()

	limiter := New(0)
	start := time.Now()
	for range 100 {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("unlimited Wait() took %v", elapsed)
	}
}

func TestWaitSpacesRecords(t *testing.T) {
	t.Parallel()

	limiter := New(20)
	start := time.Now()
	for range 3 {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	// Burst of one, then two waits of 50ms each.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("Wait() x3 took %v, want at least 80ms", elapsed)
	}
}

func TestWaitCancelled(t *testing.T) {
	t.Parallel()

	limiter := New(0.001)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want %v", err, context.Canceled)
	}
}

func TestNilLimiter(t *testing.T) {
	t.Parallel()

	var limiter *Limiter
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if limiter.Limit() != 0 {
		t.Fatalf("Limit() = %v, want 0", limiter.Limit())
	}
}
