// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the time operations Carryall uses.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTimer returns a Timer that delivers the time on C once d has
	// elapsed. If d <= 0 the timer fires immediately.
	NewTimer(d time.Duration) *Timer
}

// Timer is a one-shot timer. Call Stop when the timer is no longer
// needed so its resources are released.
type Timer struct {
	// C receives the fire time. Buffered with capacity 1.
	C <-chan time.Time

	stop func() bool
}

// Stop prevents the timer from firing. It returns false if the timer
// already fired or was already stopped. Calling Stop more than once is
// safe.
func (t *Timer) Stop() bool { return t.stop() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTimer(d time.Duration) *Timer {
	timer := time.NewTimer(d)
	return &Timer{C: timer.C, stop: timer.Stop}
}
