// Package testutil provides deterministic test doubles shared across
// package tests.
package testutil

import (
	"strconv"
	"sync"
	"time"
)

// FakeClock is a deterministic kernel.Clock for tests. Each call to Now
// returns the current instant and advances by a fixed step, so a sequence
// of mutations gets strictly increasing, reproducible timestamps.
//
// Thread-safe via internal mutex, though kernel operations serialize
// anyway.
type FakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewFakeClock creates a clock starting at start, advancing by step per
// Now call. A zero step freezes time entirely.
func NewFakeClock(start time.Time, step time.Duration) *FakeClock {
	return &FakeClock{now: start.UTC(), step: step}
}

// Now returns the current instant and advances the clock by one step.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the instant the next Now call will report, without
// advancing.
func (c *FakeClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d without producing a tick.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequentialIDs returns an id generator producing prefix-1, prefix-2, ...
// for reproducible entity ids in tests.
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
