package cache

import (
	"context"
	"errors"

	"github.com/emrgen/pagebuilder/internal/model"
)

// ErrStale is returned by SetBlocks when the page was invalidated after the
// generation passed to it was read.
var ErrStale = errors.New("cached blocks are stale")

// BlockCache caches the ordered block list of a page.
type BlockCache interface {
	// GetBlocks returns the cached blocks of a page; ok is false on a miss.
	GetBlocks(ctx context.Context, pageID string) (blocks []*model.ContentBlock, ok bool, err error)
	// Generation returns the invalidation counter of a page. Read it before loading
	// the blocks that are passed to SetBlocks.
	Generation(ctx context.Context, pageID string) (int64, error)
	// SetBlocks caches the ordered blocks of a page unless the page was
	// invalidated since gen was read, in which case it returns ErrStale.
	SetBlocks(ctx context.Context, pageID string, gen int64, blocks []*model.ContentBlock) error
	// Invalidate drops the cached blocks of a page.
	Invalidate(ctx context.Context, pageID string) error
}

var _ BlockCache = Nop{}

// Nop is used when no cache is configured; every read misses.
type Nop struct{}

func (Nop) GetBlocks(context.Context, string) ([]*model.ContentBlock, bool, error) {
	return nil, false, nil
}

func (Nop) Generation(context.Context, string) (int64, error) {
	return 0, nil
}

func (Nop) SetBlocks(context.Context, string, int64, []*model.ContentBlock) error {
	return nil
}

func (Nop) Invalidate(context.Context, string) error {
	return nil
}
