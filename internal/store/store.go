package store

import (
	"context"

	"gorm.io/datatypes"

	"github.com/emrgen/pagebuilder/internal/model"
)

type Store interface {
	PageStore
	BlockStore
	PageVersionStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type PageStore interface {
	// CreatePage creates a new page.
	CreatePage(ctx context.Context, page *model.Page) error
	// GetPage retrieves a page by ID.
	GetPage(ctx context.Context, id string) (*model.Page, error)
	// GetPageBySlug retrieves a page by slug.
	GetPageBySlug(ctx context.Context, slug string) (*model.Page, error)
	// ListPages retrieves a page of pages ordered by creation time and the total count.
	ListPages(ctx context.Context, offset, limit int) ([]*model.Page, int64, error)
	// UpdatePage saves all page fields.
	UpdatePage(ctx context.Context, page *model.Page) error
	// DeletePage deletes a page together with its blocks and versions.
	DeletePage(ctx context.Context, id string) error
}

// BlockUpdate is a partial block update; nil fields are left untouched.
type BlockUpdate struct {
	BlockType *string
	Name      *string
	Content   datatypes.JSON
	IsVisible *bool
}

// Empty reports whether the update changes nothing.
func (u BlockUpdate) Empty() bool {
	return u.BlockType == nil && u.Name == nil && u.Content == nil && u.IsVisible == nil
}

type BlockStore interface {
	// ListBlocks retrieves the blocks of a page ordered by position, then creation order.
	ListBlocks(ctx context.Context, pageID string) ([]*model.ContentBlock, error)
	// GetBlock retrieves a block by ID.
	GetBlock(ctx context.Context, id string) (*model.ContentBlock, error)
	// CountBlocks counts the blocks of a page.
	CountBlocks(ctx context.Context, pageID string) (int64, error)
	// CreateBlock inserts a block, generating its ID when empty.
	CreateBlock(ctx context.Context, block *model.ContentBlock) error
	// UpdateBlock applies a partial update and returns the stored row.
	UpdateBlock(ctx context.Context, id string, update BlockUpdate) (*model.ContentBlock, error)
	// UpdateBlockPosition persists the position of a single block.
	UpdateBlockPosition(ctx context.Context, id string, position int) error
	// DeleteBlock deletes a block by ID. Remaining positions are not re-packed.
	DeleteBlock(ctx context.Context, id string) error
	// RepackBlocks rewrites the positions of a page to 0..n-1 in list order and
	// returns the number of rows that moved.
	RepackBlocks(ctx context.Context, pageID string) (int, error)
	// ListSparsePageIDs lists pages whose positions are not a dense 0..n-1 sequence.
	ListSparsePageIDs(ctx context.Context) ([]string, error)
}

// VersionOptions describes a version being captured.
type VersionOptions struct {
	Notes     *string
	CreatedBy string
}

// RestoreOptions controls a restore.
type RestoreOptions struct {
	// SnapshotCurrent captures the current draft as a new version before it is replaced.
	SnapshotCurrent bool
	RestoredBy      string
}

// RestoreResult describes a completed restore.
type RestoreResult struct {
	Restored *model.PageVersion
	// Backup is the version holding the pre-restore draft, nil unless requested.
	Backup *model.PageVersion
	Blocks []*model.ContentBlock
}

type PageVersionStore interface {
	// ListPageVersions retrieves the versions of a page, newest first.
	ListPageVersions(ctx context.Context, pageID string) ([]*model.PageVersion, error)
	// GetPageVersion retrieves a version by ID.
	GetPageVersion(ctx context.Context, id string) (*model.PageVersion, error)
	// CreatePageVersion snapshots the current blocks of a page in one transaction.
	// Snapshot positions are the list rank at capture time, so a page with gaps or
	// duplicate positions is captured dense, in list order.
	CreatePageVersion(ctx context.Context, pageID string, opts VersionOptions) (*model.PageVersion, error)
	// RestorePageVersion replaces the current blocks with a version snapshot in one transaction.
	RestorePageVersion(ctx context.Context, versionID string, opts RestoreOptions) (*RestoreResult, error)
	// DecodePageVersion returns the blocks captured by a version.
	DecodePageVersion(version *model.PageVersion) ([]model.BlockSnapshot, error)
	// DeletePageVersion deletes a version. Its number is never issued again.
	DeletePageVersion(ctx context.Context, id string) error
	// PrunePageVersions keeps the newest keep versions of a page and deletes the rest.
	PrunePageVersions(ctx context.Context, pageID string, keep int) (int64, error)
}
