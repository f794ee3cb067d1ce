package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCache_GetMissing(t *testing.T) {
	c := New[string](time.Hour, newFakeClock())
	_, ok := c.Get("surahs")
	assert.False(t, ok)
}

func TestCache_TTLBoundary(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Hour, clock)
	c.Set("k", 42)

	clock.Advance(time.Hour - time.Millisecond)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	clock.Advance(2 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_ExpiresExactlyAtTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Minute, clock)
	c.Set("k", 1)
	clock.Advance(time.Minute)
	assert.False(t, c.Has("k"))
}

func TestCache_OverwriteResetsTimestamp(t *testing.T) {
	clock := newFakeClock()
	c := New[string](time.Hour, clock)
	c.Set("k", "first")
	clock.Advance(50 * time.Minute)
	c.Set("k", "second")
	clock.Advance(50 * time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestCache_ExpiredEntryReplacedInPlace(t *testing.T) {
	clock := newFakeClock()
	c := New[string](time.Second, clock)
	c.Set("k", "old")
	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, c.Len())

	c.Set("k", "new")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	clock := newFakeClock()
	c := New[string](0, clock)
	c.Set("surahs", "all")
	clock.Advance(24 * 365 * time.Hour)
	assert.True(t, c.Has("surahs"))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Hour, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("shared", i)
			c.Get("shared")
		}(i)
	}
	wg.Wait()
	assert.True(t, c.Has("shared"))
}
