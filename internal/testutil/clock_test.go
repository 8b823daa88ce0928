package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockTicks(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewFakeClock(start, time.Second)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())
	assert.Equal(t, start.Add(2*time.Second), c.Peek())

	c.Advance(time.Minute)
	assert.Equal(t, start.Add(2*time.Second+time.Minute), c.Now())
}

func TestFakeClockZeroStepFreezes(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewFakeClock(start, 0)
	assert.Equal(t, c.Now(), c.Now())
}

func TestSequentialIDs(t *testing.T) {
	next := SequentialIDs("id")
	assert.Equal(t, "id-1", next())
	assert.Equal(t, "id-2", next())

	other := SequentialIDs("task")
	assert.Equal(t, "task-1", other(), "generators are independent")
}
