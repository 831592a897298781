// Package builder implements the page builder: an ordered block list with an
// in-memory mirror, page versions, and the editing workflows that combine them.
package builder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/emrgen/pagebuilder/internal/content"
	"github.com/emrgen/pagebuilder/internal/store"
)

// Action names a destructive operation waiting for confirmation.
type Action struct {
	Kind   string
	Target string
}

const (
	ActionDeleteBlock    = "delete_block"
	ActionRestoreVersion = "restore_version"
)

// Confirmer decides whether a destructive action may go ahead.
type Confirmer interface {
	Confirm(ctx context.Context, action Action) bool
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(ctx context.Context, action Action) bool

func (f ConfirmFunc) Confirm(ctx context.Context, action Action) bool {
	return f(ctx, action)
}

// Confirmed returns a Confirmer that always answers ok.
func Confirmed(ok bool) Confirmer {
	return ConfirmFunc(func(context.Context, Action) bool { return ok })
}

// ChangeKind names a successful mutation of a page.
type ChangeKind string

const (
	ChangeBlockCreated    ChangeKind = "block_created"
	ChangeBlockUpdated    ChangeKind = "block_updated"
	ChangeBlockDeleted    ChangeKind = "block_deleted"
	ChangeBlocksReordered ChangeKind = "blocks_reordered"
	ChangeVersionCreated  ChangeKind = "version_created"
	ChangeVersionRestored ChangeKind = "version_restored"
)

// Change is reported to the listener after a mutation succeeded.
type Change struct {
	Kind          ChangeKind
	PageID        string
	BlockID       string
	VersionNumber int64
}

type Option func(*Builder)

// WithTimeout bounds each store call. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(b *Builder) {
		b.timeout = d
	}
}

// WithConfirmer sets who confirms destructive actions. Without one they are refused.
func WithConfirmer(c Confirmer) Option {
	return func(b *Builder) {
		b.confirmer = c
	}
}

// WithRestoreSnapshot controls whether a restore first saves the current draft as a version.
func WithRestoreSnapshot(enabled bool) Option {
	return func(b *Builder) {
		b.snapshotOnRestore = enabled
	}
}

// WithActor records who created versions.
func WithActor(actor string) Option {
	return func(b *Builder) {
		b.actor = actor
	}
}

// WithListener is called after each successful mutation.
func WithListener(f func(Change)) Option {
	return func(b *Builder) {
		b.listener = f
	}
}

// Builder runs the editing workflows of one page. It is the only caller of its
// Blocks and Versions. Workflows are serialized so a move can not interleave with
// another move on the same mirror.
type Builder struct {
	pageID   string
	blocks   *Blocks
	versions *Versions

	timeout           time.Duration
	confirmer         Confirmer
	snapshotOnRestore bool
	actor             string
	listener          func(Change)

	mu      sync.Mutex
	preview atomic.Bool
}

// New creates a builder for one page over s.
func New(s store.Store, pageID string, opts ...Option) *Builder {
	b := &Builder{
		pageID:            pageID,
		timeout:           DefaultTimeout,
		confirmer:         Confirmed(false),
		snapshotOnRestore: true,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.blocks = NewBlocks(pageID, s, b.timeout)
	b.versions = NewVersions(pageID, s, b.timeout)
	b.versions.snapshotOnRestore = b.snapshotOnRestore
	b.versions.actor = b.actor

	return b
}

func (b *Builder) PageID() string {
	return b.pageID
}

// Load fetches the current blocks of the page.
func (b *Builder) Load(ctx context.Context) ([]*Block, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.blocks.List(ctx)
}

// Blocks returns the mirrored blocks in order.
func (b *Builder) Blocks() []*Block {
	return b.blocks.Snapshot()
}

// Block returns a mirrored block opened for editing.
func (b *Builder) Block(id string) (*Block, error) {
	block, ok := b.blocks.Get(id)
	if !ok {
		return nil, ErrUnknownBlock
	}

	return block, nil
}

// AddBlock appends a block of type t with its default content.
func (b *Builder) AddBlock(ctx context.Context, t content.BlockType) (*Block, error) {
	return b.Append(ctx, NewBlock{
		Type:      t,
		Name:      t.Label(),
		Content:   content.Default(t),
		IsVisible: true,
	})
}

// Append adds nb after the last block of the page. nb.Position is ignored.
func (b *Builder) Append(ctx context.Context, nb NewBlock) (*Block, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case nb.Content != nil:
	case len(nb.Raw) > 0:
		nb.Content = decode(nb.Type, nb.Raw)
	default:
		nb.Content = content.Default(nb.Type)
	}
	if !accepts(nb.Type, nb.Content) {
		return nil, ErrContentMismatch
	}
	if err := b.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	nb.Position = nil
	block, err := b.blocks.Create(ctx, nb)
	if err != nil {
		return nil, err
	}

	b.notify(Change{Kind: ChangeBlockCreated, BlockID: block.ID})

	return block, nil
}

// EditBlock saves the edited name, visibility and content of a block.
func (b *Builder) EditBlock(ctx context.Context, id string, edit BlockEdit) (*Block, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	block, ok := b.blocks.Get(id)
	if !ok {
		return nil, ErrUnknownBlock
	}
	if edit.Content != nil && !accepts(block.Type, edit.Content) {
		return nil, ErrContentMismatch
	}

	updated, err := b.blocks.Update(ctx, id, edit)
	if err != nil {
		return nil, err
	}

	b.notify(Change{Kind: ChangeBlockUpdated, BlockID: id})

	return updated, nil
}

// MoveUp swaps a block with the one before it.
func (b *Builder) MoveUp(ctx context.Context, id string) error {
	return b.move(ctx, id, -1)
}

// MoveDown swaps a block with the one after it.
func (b *Builder) MoveDown(ctx context.Context, id string) error {
	return b.move(ctx, id, 1)
}

func (b *Builder) move(ctx context.Context, id string, delta int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	order := b.blocks.IDs()
	i := indexOf(order, id)
	if i < 0 {
		return ErrUnknownBlock
	}

	j := i + delta
	if j < 0 || j >= len(order) {
		// already at the edge; still make sure positions are dense
		if b.blocks.Dense() {
			return nil
		}
	} else {
		order[i], order[j] = order[j], order[i]
	}

	return b.reorder(ctx, order)
}

// Reorder persists a full new order of the page blocks.
func (b *Builder) Reorder(ctx context.Context, order []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.reorder(ctx, order)
}

// reorder re-lists the page after a partial failure, since storage then holds a
// mix of old and new positions. The committed part is still announced as a change.
func (b *Builder) reorder(ctx context.Context, order []string) error {
	err := b.blocks.Reorder(ctx, order)
	if err == nil {
		b.notify(Change{Kind: ChangeBlocksReordered})
		return nil
	}

	var partial *ReorderError
	if errors.As(err, &partial) {
		b.notify(Change{Kind: ChangeBlocksReordered})
		if _, lerr := b.blocks.List(ctx); lerr != nil {
			logrus.WithField("page_id", b.pageID).Warnf("refresh after failed reorder: %v", lerr)
		}
	}

	return err
}

// Duplicate creates a copy of a block right after it and re-packs the positions.
func (b *Builder) Duplicate(ctx context.Context, id string) (*Block, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	orig, ok := b.blocks.Get(id)
	if !ok {
		return nil, ErrUnknownBlock
	}

	position := orig.Position + 1
	dup, err := b.blocks.Create(ctx, NewBlock{
		Type:      orig.Type,
		Name:      orig.Name + " (Copy)",
		Content:   orig.Content,
		Raw:       orig.Raw,
		Position:  &position,
		IsVisible: orig.IsVisible,
	})
	if err != nil {
		return nil, err
	}
	b.notify(Change{Kind: ChangeBlockCreated, BlockID: dup.ID})

	order := make([]string, 0)
	for _, bid := range b.blocks.IDs() {
		if bid == dup.ID {
			continue
		}
		order = append(order, bid)
		if bid == orig.ID {
			order = append(order, dup.ID)
		}
	}

	if err := b.reorder(ctx, order); err != nil {
		return dup, err
	}

	dup, _ = b.blocks.Get(dup.ID)

	return dup, nil
}

// DeleteBlock deletes a block after confirmation and re-packs the remaining positions.
func (b *Builder) DeleteBlock(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.confirmer.Confirm(ctx, Action{Kind: ActionDeleteBlock, Target: id}) {
		return ErrNotConfirmed
	}

	if err := b.blocks.Delete(ctx, id); err != nil {
		return err
	}
	b.notify(Change{Kind: ChangeBlockDeleted, BlockID: id})

	if !b.blocks.Loaded() || b.blocks.Dense() {
		return nil
	}

	return b.reorder(ctx, b.blocks.IDs())
}

// SaveVersion snapshots the current blocks. Empty notes are stored as none.
func (b *Builder) SaveVersion(ctx context.Context, notes string) (*Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var n *string
	if notes = strings.TrimSpace(notes); notes != "" {
		n = &notes
	}

	version, err := b.versions.Create(ctx, n)
	if err != nil {
		return nil, err
	}

	b.notify(Change{Kind: ChangeVersionCreated, VersionNumber: version.Number})

	return version, nil
}

// Versions lists the versions of the page, newest first.
func (b *Builder) Versions(ctx context.Context) ([]*Version, error) {
	return b.versions.List(ctx)
}

// Version returns one version of the page.
func (b *Builder) Version(ctx context.Context, versionID string) (*Version, error) {
	return b.versions.Get(ctx, versionID)
}

// VersionBlocks returns the blocks captured by a version.
func (b *Builder) VersionBlocks(ctx context.Context, versionID string) ([]*Block, error) {
	snapshot, err := b.versions.Blocks(ctx, versionID)
	if err != nil {
		return nil, err
	}

	blocks := make([]*Block, 0, len(snapshot))
	for _, snap := range snapshot {
		blocks = append(blocks, &Block{
			PageID:    b.pageID,
			Type:      content.BlockType(snap.BlockType),
			Name:      snap.Name,
			Content:   decode(content.BlockType(snap.BlockType), snap.Content),
			Raw:       datatypes.JSON(snap.Content),
			Position:  snap.Position,
			IsVisible: snap.IsVisible,
		})
	}

	return blocks, nil
}

// RestoreVersion replaces the draft with a version after confirmation, then
// fetches the blocks again.
func (b *Builder) RestoreVersion(ctx context.Context, versionID string) (*Restored, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.confirmer.Confirm(ctx, Action{Kind: ActionRestoreVersion, Target: versionID}) {
		return nil, ErrNotConfirmed
	}

	restored, err := b.versions.Restore(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if restored.Backup != nil {
		b.notify(Change{Kind: ChangeVersionCreated, VersionNumber: restored.Backup.Number})
	}
	b.notify(Change{Kind: ChangeVersionRestored, VersionNumber: restored.Version.Number})

	if _, err := b.blocks.List(ctx); err != nil {
		return restored, err
	}

	return restored, nil
}

// TogglePreview flips preview mode and returns the new state.
func (b *Builder) TogglePreview() bool {
	for {
		old := b.preview.Load()
		if b.preview.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (b *Builder) Preview() bool {
	return b.preview.Load()
}

func (b *Builder) ensureLoaded(ctx context.Context) error {
	if b.blocks.Loaded() {
		return nil
	}

	_, err := b.blocks.List(ctx)
	return err
}

func (b *Builder) notify(change Change) {
	if b.listener == nil {
		return
	}

	change.PageID = b.pageID
	b.listener(change)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}

	return -1
}
