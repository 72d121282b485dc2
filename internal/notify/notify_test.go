package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func TestCenter_ToastsExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := NewCenter(3 * time.Second).WithClock(clock.Now)

	c.Success("Task created successfully")
	clock.now = clock.now.Add(2 * time.Second)
	c.Error("Failed to delete task", errors.New("connection refused"))

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, LevelSuccess, active[0].Level)
	assert.Equal(t, "Failed to delete task", active[1].Message)
	assert.Equal(t, "Close", active[1].Action)

	clock.now = clock.now.Add(1500 * time.Millisecond)
	active = c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, LevelError, active[0].Level)

	clock.now = clock.now.Add(2 * time.Second)
	assert.Empty(t, c.Active())
}

func TestCenter_Dismiss(t *testing.T) {
	c := NewCenter(0)
	c.Success("one")
	c.Success("two")

	active := c.Active()
	require.Len(t, active, 2)

	assert.True(t, c.Dismiss(active[0].ID))
	assert.False(t, c.Dismiss(active[0].ID))
	assert.Equal(t, "two", c.Active()[0].Message)
}
