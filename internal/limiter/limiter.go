package limiter

import (
	"context"
	"sync"
	"time"
)

// Timer provides time for report generation and rate limiting.
type Timer interface {
	Now() time.Time
	Sleep(ctx context.Context, duration time.Duration) error
}

// Limiter spaces requests by a minimum interval. A nil Limiter never
// blocks, so callers can pass the result of New straight through.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	clock    Timer
}

// New creates a limiter using real time.
func New(interval time.Duration) *Limiter {
	return NewWithTimer(interval, nil)
}

// NewWithTimer creates a limiter with a custom clock.
func NewWithTimer(interval time.Duration, clock Timer) *Limiter {
	if interval <= 0 {
		return nil
	}

	if clock == nil {
		clock = Clock{}
	}

	return &Limiter{
		interval: interval,
		clock:    clock,
	}
}

// Wait blocks until the next allowed request time or context cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	wait := l.reserve()
	if wait <= 0 {
		return nil
	}

	return l.clock.Sleep(ctx, wait)
}

// reserve claims the next slot and returns how long the caller must
// sleep before using it.
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	if l.next.IsZero() || !now.Before(l.next) {
		l.next = now.Add(l.interval)

		return 0
	}

	wait := l.next.Sub(now)
	l.next = l.next.Add(l.interval)

	return wait
}
