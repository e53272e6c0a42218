// Package delay suspends a goroutine for a duration.
//
// Only the calling goroutine waits; nothing else is paused or canceled.
// Negative durations behave as zero.
package delay

import (
	"context"
	"time"
)

// After returns a channel that is closed once at least d has elapsed.
// Any number of receivers may wait on it.
func After(d time.Duration) <-chan struct{} {
	done := make(chan struct{})
	time.AfterFunc(max(d, 0), func() { close(done) })
	return done
}

// Sleep blocks until at least d has elapsed or ctx is done, whichever comes
// first. It returns ctx.Err() only when the context ended the wait.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sleeper abstracts Sleep so callers can substitute a clock in tests.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Real sleeps on the wall clock.
type Real struct{}

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// Instant returns immediately, honoring only cancellation.
type Instant struct{}

func (Instant) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
