package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroCapacityDropsEverything(t *testing.T) {
	c := New[int](0)
	require.Equal(t, uint64(0), c.Capacity())
	c.Set(42, 7)
	_, ok := c.Get(42)
	assert.False(t, ok)
	assert.False(t, c.ReplaceIf(42, 7, func(int) bool { return true }))
}

func TestGetSetRoundtrip(t *testing.T) {
	c := New[int](1)
	require.Greater(t, c.Capacity(), uint64(0))
	c.Set(1, 100)
	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, 100, v)
}

func TestReplaceIfHonorsPredicate(t *testing.T) {
	c := New[int](1)
	key := uint64(0) // deterministic bucket/slot
	require.True(t, c.ReplaceIf(key, 5, func(int) bool { return true }))
	v, _ := c.Get(key)
	assert.Equal(t, 5, v)

	// Same key, predicate rejects: value stays.
	assert.False(t, c.ReplaceIf(key, 6, func(existing int) bool { return existing > 10 }))
	v, _ = c.Get(key)
	assert.Equal(t, 5, v)

	// Same key, predicate accepts: value replaced.
	assert.True(t, c.ReplaceIf(key, 6, func(existing int) bool { return existing <= 10 }))
	v, _ = c.Get(key)
	assert.Equal(t, 6, v)
}

func TestClearEmptiesCache(t *testing.T) {
	c := New[int](1)
	c.Set(1, 1)
	c.Set(2, 2)
	require.Greater(t, c.OccupiedCount(), 0)
	c.Clear()
	assert.Equal(t, 0, c.OccupiedCount())
	assert.Equal(t, 0.0, c.Occupancy())
}

func TestOccupancyReflectsUsage(t *testing.T) {
	c := New[int](1)
	assert.Equal(t, 0.0, c.Occupancy())
	c.Set(1, 1)
	assert.Greater(t, c.Occupancy(), 0.0)
	assert.LessOrEqual(t, c.Occupancy(), 1.0)
}
