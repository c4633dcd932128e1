// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so timeout logic
// can be tested without waiting on the wall clock.
//
// Production code takes a [Clock] and is given [Real]. Tests pass a
// [FakeClock] and move time with [FakeClock.Advance]. Before
// advancing, call [FakeClock.WaitForTimers] so the code under test has
// registered its timer; otherwise the advance can race ahead of it:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go prober.Check(ctx, "hangs-forever")
//	fake.WaitForTimers(1)
//	fake.Advance(probe.DefaultTimeout)
package clock
