package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCache_SetGet_NoTTL(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, 1, c.Len())
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache[string, string]()

	// Freeze time via now indirection
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	c.Set("k", "v", time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)

	base = base.Add(2 * time.Second)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestTTLCache_Delete(t *testing.T) {
	c := NewTTLCache[int, int]()
	c.Set(1, 10, 0)
	c.Set(2, 20, 0)

	c.Delete(1)
	_, ok := c.Get(1)
	require.False(t, ok)
	require.Equal(t, 1, c.Len())
}
