package builder

import (
	"context"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/emrgen/pagebuilder/internal/content"
	"github.com/emrgen/pagebuilder/internal/model"
	"github.com/emrgen/pagebuilder/internal/store"
)

// reorderConcurrency caps the position updates of one reorder that are in flight.
const reorderConcurrency = 4

// Blocks holds the content blocks of one page and keeps an in-memory mirror of them.
// The mirror is only changed after the backing store accepted a write.
type Blocks struct {
	pageID  string
	store   store.BlockStore
	timeout time.Duration

	mu     sync.RWMutex
	mirror []*Block
	loaded bool
}

func NewBlocks(pageID string, store store.BlockStore, timeout time.Duration) *Blocks {
	return &Blocks{
		pageID:  pageID,
		store:   store,
		timeout: timeout,
		mirror:  make([]*Block, 0),
	}
}

func (b *Blocks) PageID() string {
	return b.pageID
}

// List fetches the ordered blocks of the page and replaces the mirror.
func (b *Blocks) List(ctx context.Context) ([]*Block, error) {
	ctx, cancel := withTimeout(ctx, b.timeout)
	defer cancel()

	rows, err := b.store.ListBlocks(ctx, b.pageID)
	if err != nil {
		logrus.WithField("page_id", b.pageID).Errorf("list blocks: %v", err)
		return nil, &FetchError{PageID: b.pageID, Err: err}
	}

	blocks := blocksFromModel(rows)

	b.mu.Lock()
	b.mirror = blocks
	b.loaded = true
	b.mu.Unlock()

	return b.Snapshot(), nil
}

// Loaded reports whether the mirror holds a fetched block list.
func (b *Blocks) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.loaded
}

// Snapshot returns a copy of the mirror in order.
func (b *Blocks) Snapshot() []*Block {
	b.mu.RLock()
	defer b.mu.RUnlock()

	blocks := make([]*Block, 0, len(b.mirror))
	for _, block := range b.mirror {
		blocks = append(blocks, block.clone())
	}

	return blocks
}

// Get returns a copy of a mirrored block.
func (b *Blocks) Get(id string) (*Block, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.indexOf(id)
	if i < 0 {
		return nil, false
	}

	return b.mirror[i].clone(), true
}

// Create inserts a block. Without an explicit position the block is appended.
func (b *Blocks) Create(ctx context.Context, nb NewBlock) (*Block, error) {
	ctx, cancel := withTimeout(ctx, b.timeout)
	defer cancel()

	var data datatypes.JSON
	var err error
	if len(nb.Raw) > 0 {
		data, err = rawContent(nb.Type, nb.Raw)
	} else {
		data, err = encodeContent(nb.Content)
	}
	if err != nil {
		return nil, &WriteError{Op: "create", Err: err}
	}

	position, err := b.nextPosition(ctx, nb.Position)
	if err != nil {
		return nil, &WriteError{Op: "create", Err: err}
	}

	row := &model.ContentBlock{
		PageID:    b.pageID,
		BlockType: string(nb.Type),
		Name:      nb.Name,
		Content:   data,
		Position:  position,
		IsVisible: nb.IsVisible,
	}
	if err := b.store.CreateBlock(ctx, row); err != nil {
		logrus.WithField("page_id", b.pageID).Errorf("create block: %v", err)
		return nil, &WriteError{Op: "create", Err: err}
	}

	block := blockFromModel(row)

	b.mu.Lock()
	b.mirror = append(b.mirror, block)
	// stable, so a duplicate position sorts after the blocks created before it
	sort.SliceStable(b.mirror, func(i, j int) bool {
		return b.mirror[i].Position < b.mirror[j].Position
	})
	b.mu.Unlock()

	return block.clone(), nil
}

func (b *Blocks) nextPosition(ctx context.Context, position *int) (int, error) {
	if position != nil {
		return *position, nil
	}

	b.mu.RLock()
	loaded, count := b.loaded, len(b.mirror)
	b.mu.RUnlock()
	if loaded {
		return count, nil
	}

	total, err := b.store.CountBlocks(ctx, b.pageID)
	if err != nil {
		return 0, err
	}

	return int(total), nil
}

// Update persists a partial update and merges the stored row into the mirror.
func (b *Blocks) Update(ctx context.Context, id string, edit BlockEdit) (*Block, error) {
	ctx, cancel := withTimeout(ctx, b.timeout)
	defer cancel()

	update := store.BlockUpdate{
		Name:      edit.Name,
		IsVisible: edit.IsVisible,
	}
	if len(edit.Raw) > 0 || edit.Content != nil {
		data, err := b.editedContent(ctx, id, edit)
		if err != nil {
			return nil, &WriteError{Op: "update", BlockID: id, Err: err}
		}
		update.Content = data
	}

	row, err := b.store.UpdateBlock(ctx, id, update)
	if err != nil {
		logrus.WithField("page_id", b.pageID).Errorf("update block %s: %v", id, err)
		return nil, &WriteError{Op: "update", BlockID: id, Err: err}
	}

	block := blockFromModel(row)

	b.mu.Lock()
	if i := b.indexOf(id); i >= 0 {
		b.mirror[i] = block
	}
	b.mu.Unlock()

	return block.clone(), nil
}

// editedContent returns the payload to store for edit: Raw as given, or Content
// merged over the stored payload so keys the typed content does not know survive.
func (b *Blocks) editedContent(ctx context.Context, id string, edit BlockEdit) (datatypes.JSON, error) {
	b.mu.RLock()
	var current *Block
	if i := b.indexOf(id); i >= 0 {
		current = b.mirror[i]
	}
	b.mu.RUnlock()

	var t content.BlockType
	var stored datatypes.JSON
	if current != nil {
		t, stored = current.Type, current.Raw
	} else {
		row, err := b.store.GetBlock(ctx, id)
		if err != nil {
			return nil, err
		}
		t, stored = content.BlockType(row.BlockType), row.Content
	}

	if len(edit.Raw) > 0 {
		return rawContent(t, edit.Raw)
	}

	data, err := content.Merge(stored, edit.Content)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(data), nil
}

// Delete removes a block. The positions of the remaining blocks are not re-packed.
func (b *Blocks) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.store.DeleteBlock(ctx, id); err != nil {
		logrus.WithField("page_id", b.pageID).Errorf("delete block %s: %v", id, err)
		return &WriteError{Op: "delete", BlockID: id, Err: err}
	}

	b.mu.Lock()
	if i := b.indexOf(id); i >= 0 {
		b.mirror = append(b.mirror[:i], b.mirror[i+1:]...)
	}
	b.mu.Unlock()

	return nil
}

// Reorder persists position = index for every block of order, which must name
// every current block exactly once. The per-row updates are independent; when any
// of them fails a ReorderError is returned and the mirror keeps the previous order.
func (b *Blocks) Reorder(ctx context.Context, order []string) error {
	if err := b.validateOrder(order); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, b.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		failed = make(map[string]error)
		g      errgroup.Group
	)
	g.SetLimit(reorderConcurrency)
	for i, id := range order {
		g.Go(func() error {
			if err := b.store.UpdateBlockPosition(ctx, id, i); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		logrus.WithField("page_id", b.pageID).Warnf("reorder: %d of %d position updates failed", len(failed), len(order))
		return &ReorderError{PageID: b.pageID, Failed: failed}
	}

	b.mu.Lock()
	byID := make(map[string]*Block, len(b.mirror))
	for _, block := range b.mirror {
		byID[block.ID] = block
	}
	mirror := make([]*Block, 0, len(order))
	for i, id := range order {
		block := byID[id]
		block.Position = i
		mirror = append(mirror, block)
	}
	b.mirror = mirror
	b.mu.Unlock()

	return nil
}

func (b *Blocks) validateOrder(order []string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	current := mapset.NewThreadUnsafeSetWithSize[string](len(b.mirror))
	for _, block := range b.mirror {
		current.Add(block.ID)
	}

	next := mapset.NewThreadUnsafeSet[string](order...)
	if next.Cardinality() != len(order) || !next.Equal(current) {
		return ErrInvalidOrder
	}

	return nil
}

// Dense reports whether the mirrored positions are exactly 0..n-1 in order.
func (b *Blocks) Dense() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, block := range b.mirror {
		if block.Position != i {
			return false
		}
	}

	return true
}

// IDs returns the mirrored block ids in order.
func (b *Blocks) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.mirror))
	for _, block := range b.mirror {
		ids = append(ids, block.ID)
	}

	return ids
}

// indexOf must be called with mu held.
func (b *Blocks) indexOf(id string) int {
	for i, block := range b.mirror {
		if block.ID == id {
			return i
		}
	}

	return -1
}
