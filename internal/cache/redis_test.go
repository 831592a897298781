package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/emrgen/pagebuilder/internal/model"
)

func newTestCache(t *testing.T) (*RedisBlockCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.TODO(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisBlockCache(client, time.Minute), mr
}

func TestRedisBlockCache(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.TODO()

	_, ok, err := c.GetBlocks(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	blocks := []*model.ContentBlock{
		{ID: "b1", PageID: "p1", BlockType: "hero", Name: "Hero", Content: datatypes.JSON(`{"heading":"Hi"}`), Position: 0, IsVisible: true},
		{ID: "b2", PageID: "p1", BlockType: "cta", Name: "Call To Action", Content: datatypes.JSON(`{}`), Position: 1},
	}
	require.NoError(t, c.SetBlocks(ctx, "p1", 0, blocks))
	assert.True(t, mr.Exists("page:p1:blocks"))

	got, ok, err := c.GetBlocks(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.JSONEq(t, `{"heading":"Hi"}`, string(got[0].Content))
	assert.False(t, got[1].IsVisible)

	pages, err := c.CachedPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, pages)

	require.NoError(t, c.Invalidate(ctx, "p1"))
	_, ok, err = c.GetBlocks(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	pages, err = c.CachedPages(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestRedisBlockCache_StaleGeneration(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.TODO()

	gen, err := c.Generation(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	// a write lands between reading the generation and caching the loaded blocks
	require.NoError(t, c.Invalidate(ctx, "p1"))

	err = c.SetBlocks(ctx, "p1", gen, nil)
	assert.ErrorIs(t, err, ErrStale)
	assert.False(t, mr.Exists("page:p1:blocks"))

	pages, err := c.CachedPages(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages)

	gen, err = c.Generation(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	require.NoError(t, c.SetBlocks(ctx, "p1", gen, nil))

	_, ok, err := c.GetBlocks(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisBlockCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.TODO()

	require.NoError(t, c.SetBlocks(ctx, "p1", 0, nil))
	_, ok, err := c.GetBlocks(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.GetBlocks(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBlockCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.TODO()

	encoded, err := c.encoder.Encode([]byte("not json"))
	require.NoError(t, err)
	require.NoError(t, mr.Set("page:p1:blocks", string(encoded)))

	_, ok, err := c.GetBlocks(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("page:p1:blocks"))
}

func TestRedisClient_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.TODO(), addr, "", 0)
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var c BlockCache = Nop{}
	require.NoError(t, c.SetBlocks(context.TODO(), "p1", 0, nil))
	_, ok, err := c.GetBlocks(context.TODO(), "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}
