// Package clock abstracts wall time and one-shot scheduling so that session
// expiry, redirect delays, and simulated network latency can be driven by a
// virtual clock in tests.
//
// # Architecture boundaries
//
// This package owns time only. It knows nothing about sessions, events, or
// authentication state.
//
// # What this package must NOT do
//
//   - Import any other package of this module.
//   - Fire [Mock] timers from anywhere except [Mock.Advance].
package clock

import (
	"context"
	"time"
)

// Clock is the time capability handed to the controller, gateway, and store.
type Clock interface {
	Now() time.Time

	// AfterFunc schedules fn to run once after d. fn runs on its own
	// goroutine for the system clock and inside Advance for the mock.
	AfterFunc(d time.Duration, fn func()) Timer

	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case. d <= 0 returns immediately.
	Sleep(ctx context.Context, d time.Duration) error
}

// Timer is a handle to a pending AfterFunc callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the callback was still
	// pending; false means it already fired or was stopped before.
	Stop() bool
}

type systemClock struct{}

// System returns the wall-clock implementation backed by the time package.
func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) Stop() bool { return s.t.Stop() }
