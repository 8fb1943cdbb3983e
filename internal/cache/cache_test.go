package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c, err := New[int](10)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("helper", 42)
	v, ok := c.Get("helper")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCacheInvalidateClearsAllEntries(t *testing.T) {
	c, err := New[string](10)
	require.NoError(t, err)
	defer c.Close()

	c.Set("a", "1")
	c.Set("b", "2")
	c.Invalidate()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheDefaultCapacityOnNonPositive(t *testing.T) {
	c, err := New[int](0)
	require.NoError(t, err)
	defer c.Close()

	c.Set("x", 1)
	v, ok := c.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}
