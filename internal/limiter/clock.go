package limiter

import (
	"context"
	"time"
)

// Clock is the real-time Timer implementation.
type Clock struct{}

// NewClock returns a Clock backed by the system clock.
func NewClock() Clock {
	return Clock{}
}

// Now returns the current wall-clock time.
func (Clock) Now() time.Time {
	return time.Now()
}

// Sleep waits for the duration or until the context is done.
func (Clock) Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
