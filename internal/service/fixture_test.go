package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
	"github.com/emrgen/pagebuilder/internal/cache"
	"github.com/emrgen/pagebuilder/internal/queue"
	"github.com/emrgen/pagebuilder/internal/store"
	"github.com/emrgen/pagebuilder/internal/tester"
)

type fixture struct {
	store    *store.GormStore
	redis    *miniredis.Miniredis
	cache    *cache.RedisBlockCache
	events   *queue.Memory
	pages    *PageService
	blocks   *BlockService
	versions *VersionService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	return setupWith(t, nil, nil)
}

// setupWith lets a test wrap the store and the block cache the services use.
func setupWith(t *testing.T, wrapStore func(store.Store) store.Store, wrapCache func(cache.BlockCache) cache.BlockCache) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(context.TODO(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		store:  store.NewGormStore(tester.TestDB(t)),
		redis:  mr,
		cache:  cache.NewRedisBlockCache(client, time.Minute),
		events: queue.NewMemory(),
	}
	var (
		s store.Store      = f.store
		c cache.BlockCache = f.cache
	)
	if wrapStore != nil {
		s = wrapStore(s)
	}
	if wrapCache != nil {
		c = wrapCache(c)
	}
	editor := NewEditor(s, c, f.events)
	f.pages = NewPageService(editor)
	f.blocks = NewBlockService(editor)
	f.versions = NewVersionService(editor)

	return f
}

func (f *fixture) page(t *testing.T, title string) *v1.Page {
	t.Helper()

	res, err := f.pages.CreatePage(context.TODO(), &v1.CreatePageRequest{Title: title})
	require.NoError(t, err)
	return res.Page
}

func (f *fixture) addBlocks(t *testing.T, pageID string, types ...string) []*v1.Block {
	t.Helper()

	blocks := make([]*v1.Block, 0, len(types))
	for _, bt := range types {
		res, err := f.blocks.CreateBlock(context.TODO(), &v1.CreateBlockRequest{PageId: pageID, BlockType: bt})
		require.NoError(t, err)
		blocks = append(blocks, res.Block)
	}

	return blocks
}

func (f *fixture) eventKinds() []queue.EventKind {
	kinds := make([]queue.EventKind, 0)
	for _, e := range f.events.Events() {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func blockTypes(blocks []*v1.Block) []string {
	types := make([]string, 0, len(blocks))
	for _, b := range blocks {
		types = append(types, b.BlockType)
	}
	return types
}

func assertCode(t *testing.T, code codes.Code, err error) {
	t.Helper()

	require.Error(t, err)
	assert.Equal(t, code, status.Code(err), err.Error())
}

func blockIDs(blocks []*v1.Block) []string {
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.Id)
	}
	return ids
}

func (f *fixture) storedIDs(t *testing.T, pageID string) []string {
	t.Helper()

	rows, err := f.store.ListBlocks(context.TODO(), pageID)
	require.NoError(t, err)

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}
