package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

func TestMemoryCache_RoundTripsStructs(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "session:a", session{ID: "a", Index: 3}, time.Minute))

	var got session
	require.NoError(t, mc.Get(ctx, "session:a", &got))
	assert.Equal(t, session{ID: "a", Index: 3}, got)

	var raw string
	require.NoError(t, mc.Set(ctx, "svg", "<svg/>", 0))
	require.NoError(t, mc.Get(ctx, "svg", &raw))
	assert.Equal(t, "<svg/>", raw)

	assert.ErrorIs(t, mc.Get(ctx, "missing", &got), ErrCacheMiss)
}

func TestMemoryCache_Expires(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var v string
	assert.ErrorIs(t, mc.Get(ctx, "k", &v), ErrCacheMiss)
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	time.Sleep(time.Millisecond)

	var v string
	require.NoError(t, mc.Get(ctx, "a", &v))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &v))
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	for _, k := range []string{"chart:a", "chart:b", "session:a"} {
		require.NoError(t, mc.Set(ctx, k, "x", 0))
	}
	require.NoError(t, mc.DeleteByPattern(ctx, BuildPattern("chart")))

	assert.Equal(t, 1, mc.Len())
	ok, _ := mc.Exists(ctx, "session:a")
	assert.True(t, ok)
}

func TestLayeredCache_ReadsThroughToRemote(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryCache()
	defer remote.Close()
	lc := NewLayeredCache(remote, WithLayeredMemory(0, time.Minute))

	require.NoError(t, remote.Set(ctx, "session:x", session{ID: "x", Index: 1}, 0))

	var got session
	require.NoError(t, lc.Get(ctx, "session:x", &got))
	assert.Equal(t, 1, got.Index)

	// served from L1 after the remote copy is gone
	require.NoError(t, remote.Delete(ctx, "session:x"))
	got = session{}
	require.NoError(t, lc.Get(ctx, "session:x", &got))
	assert.Equal(t, 1, got.Index)

	require.NoError(t, lc.Delete(ctx, "session:x"))
	assert.ErrorIs(t, lc.Get(ctx, "session:x", &got), ErrCacheMiss)

	require.NoError(t, lc.Close())
	assert.NoError(t, remote.Set(ctx, "session:y", session{ID: "y"}, 0))
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "chart:rev", GenerateKey("chart", "rev"))
	assert.Equal(t, "chart:rev:800:dark", GenerateKey("chart", "rev", 800, "dark"))
	assert.Equal(t, "chart:*", BuildPattern("chart"))
}

func TestMemoryCache_OverwriteKeepsSize(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	require.NoError(t, mc.Set(ctx, "a", "3", 0))
	assert.Equal(t, 2, mc.Len())

	var v string
	require.NoError(t, mc.Get(ctx, "a", &v))
	assert.Equal(t, "3", v)
	require.NoError(t, mc.Get(ctx, "b", &v))
}

func TestMemoryCache_ExpireAndBadPattern(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	ok, err := mc.Expire(ctx, "missing", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))
	ok, err = mc.Expire(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Error(t, mc.DeleteByPattern(ctx, "["))
}
