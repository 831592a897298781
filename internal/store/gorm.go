package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/emrgen/pagebuilder/internal/compress"
	"github.com/emrgen/pagebuilder/internal/model"
)

const defaultPageLimit = 100

type Option func(*GormStore)

// WithCompression sets the codec used for new version snapshots.
func WithCompression(c compress.Compress) Option {
	return func(g *GormStore) {
		g.compress = c
	}
}

func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	g := &GormStore{
		db:       db,
		compress: compress.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db       *gorm.DB
	compress compress.Compress
}

func (g *GormStore) withDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db, compress: g.compress}
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(g.withDB(tx))
	})
}

func (g *GormStore) CreatePage(ctx context.Context, page *model.Page) error {
	if page.ID == "" {
		page.ID = uuid.New().String()
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Page{}).Where("slug = ?", page.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlugTaken
		}

		return tx.Create(page).Error
	})
}

func (g *GormStore) GetPage(ctx context.Context, id string) (*model.Page, error) {
	var page model.Page
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (g *GormStore) GetPageBySlug(ctx context.Context, slug string) (*model.Page, error) {
	var page model.Page
	err := g.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (g *GormStore) ListPages(ctx context.Context, offset, limit int) ([]*model.Page, int64, error) {
	var total int64
	if err := g.db.WithContext(ctx).Model(&model.Page{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}

	pages := make([]*model.Page, 0)
	err := g.db.WithContext(ctx).Order("created_at asc, id asc").Offset(offset).Limit(limit).Find(&pages).Error
	if err != nil {
		return nil, 0, err
	}

	return pages, total, nil
}

func (g *GormStore) UpdatePage(ctx context.Context, page *model.Page) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Page{}).Where("slug = ? AND id <> ?", page.Slug, page.ID).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSlugTaken
		}

		// last_version_number is owned by version creation and never written from here
		res := tx.Model(&model.Page{}).Where("id = ?", page.ID).Select(
			"slug", "title", "meta_title", "meta_description", "is_published", "published_at", "updated_at",
		).Updates(page)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPageNotFound
		}

		return nil
	})
}

// DeletePage removes the page, its blocks and its versions together.
func (g *GormStore) DeletePage(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", id).Delete(&model.ContentBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id = ?", id).Delete(&model.PageVersion{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.Page{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPageNotFound
		}

		return nil
	})
}

func (g *GormStore) ListBlocks(ctx context.Context, pageID string) ([]*model.ContentBlock, error) {
	blocks := make([]*model.ContentBlock, 0)
	err := g.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("position asc, created_at asc, id asc").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

func (g *GormStore) GetBlock(ctx context.Context, id string) (*model.ContentBlock, error) {
	var block model.ContentBlock
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&block).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, err
	}

	return &block, nil
}

func (g *GormStore) CountBlocks(ctx context.Context, pageID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.ContentBlock{}).Where("page_id = ?", pageID).Count(&count).Error
	return count, err
}

func (g *GormStore) CreateBlock(ctx context.Context, block *model.ContentBlock) error {
	if block.ID == "" {
		block.ID = uuid.New().String()
	}
	if len(block.Content) == 0 {
		block.Content = datatypes.JSON("{}")
	}

	return g.db.WithContext(ctx).Create(block).Error
}

func (g *GormStore) UpdateBlock(ctx context.Context, id string, update BlockUpdate) (*model.ContentBlock, error) {
	fields := make(map[string]interface{})
	if update.BlockType != nil {
		fields["block_type"] = *update.BlockType
	}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Content != nil {
		fields["content"] = update.Content
	}
	if update.IsVisible != nil {
		fields["is_visible"] = *update.IsVisible
	}

	if len(fields) > 0 {
		res := g.db.WithContext(ctx).Model(&model.ContentBlock{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrBlockNotFound
		}
	}

	return g.GetBlock(ctx, id)
}

func (g *GormStore) UpdateBlockPosition(ctx context.Context, id string, position int) error {
	res := g.db.WithContext(ctx).Model(&model.ContentBlock{}).Where("id = ?", id).Update("position", position)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

func (g *GormStore) DeleteBlock(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ContentBlock{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

func (g *GormStore) RepackBlocks(ctx context.Context, pageID string) (int, error) {
	moved := 0
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		moved = 0
		blocks, err := g.withDB(tx).ListBlocks(ctx, pageID)
		if err != nil {
			return err
		}

		for i, block := range blocks {
			if block.Position == i {
				continue
			}
			if err := tx.Model(&model.ContentBlock{}).Where("id = ?", block.ID).Update("position", i).Error; err != nil {
				return err
			}
			moved++
		}

		return nil
	})

	return moved, err
}

func (g *GormStore) ListSparsePageIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := g.db.WithContext(ctx).Model(&model.ContentBlock{}).
		Select("page_id").
		Group("page_id").
		Having("MIN(position) <> 0 OR MAX(position) + 1 <> COUNT(*) OR COUNT(DISTINCT position) <> COUNT(*)").
		Pluck("page_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (g *GormStore) ListPageVersions(ctx context.Context, pageID string) ([]*model.PageVersion, error) {
	versions := make([]*model.PageVersion, 0)
	err := g.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("version_number desc").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}

	return versions, nil
}

func (g *GormStore) GetPageVersion(ctx context.Context, id string) (*model.PageVersion, error) {
	var version model.PageVersion
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &version, nil
}

// CreatePageVersion allocates the next version number and captures the current blocks
// in the same transaction, so a concurrent block write can not land between the two.
func (g *GormStore) CreatePageVersion(ctx context.Context, pageID string, opts VersionOptions) (*model.PageVersion, error) {
	var version *model.PageVersion
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		version, err = g.withDB(tx).snapshotPage(ctx, pageID, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	return version, nil
}

// RestorePageVersion replaces the current blocks of the version's page with its snapshot.
// Before restoring the page the current blocks can be captured as a new version.
func (g *GormStore) RestorePageVersion(ctx context.Context, versionID string, opts RestoreOptions) (*RestoreResult, error) {
	var result *RestoreResult
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txs := g.withDB(tx)

		version, err := txs.GetPageVersion(ctx, versionID)
		if err != nil {
			return err
		}

		snapshot, err := txs.DecodePageVersion(version)
		if err != nil {
			return err
		}

		result = &RestoreResult{Restored: version}
		if opts.SnapshotCurrent {
			notes := fmt.Sprintf("Auto-saved before restoring version %d", version.VersionNumber)
			result.Backup, err = txs.snapshotPage(ctx, version.PageID, VersionOptions{
				Notes:     &notes,
				CreatedBy: opts.RestoredBy,
			})
			if err != nil {
				return err
			}
		}

		if err := tx.Where("page_id = ?", version.PageID).Delete(&model.ContentBlock{}).Error; err != nil {
			return err
		}

		blocks := make([]*model.ContentBlock, 0, len(snapshot))
		for i, snap := range snapshot {
			content := datatypes.JSON(snap.Content)
			if len(content) == 0 {
				content = datatypes.JSON("{}")
			}
			blocks = append(blocks, &model.ContentBlock{
				ID:        uuid.New().String(),
				PageID:    version.PageID,
				BlockType: snap.BlockType,
				Name:      snap.Name,
				Content:   content,
				Position:  i,
				IsVisible: snap.IsVisible,
			})
		}

		if len(blocks) > 0 {
			if err := tx.Create(&blocks).Error; err != nil {
				return err
			}
		}
		result.Blocks = blocks

		logrus.Infof("restored page %s to version %d (%d blocks)", version.PageID, version.VersionNumber, len(blocks))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (g *GormStore) DecodePageVersion(version *model.PageVersion) ([]model.BlockSnapshot, error) {
	codec, err := compress.ForName(version.Compression)
	if err != nil {
		return nil, err
	}

	data, err := codec.Decode(version.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot of version %d: %w", version.VersionNumber, err)
	}

	return model.DecodeSnapshot(data)
}

func (g *GormStore) DeletePageVersion(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PageVersion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionNotFound
	}

	return nil
}

func (g *GormStore) PrunePageVersions(ctx context.Context, pageID string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	var ids []string
	err := g.db.WithContext(ctx).Model(&model.PageVersion{}).
		Where("page_id = ?", pageID).
		Order("version_number desc").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) <= keep {
		return 0, nil
	}

	res := g.db.WithContext(ctx).Where("id IN ?", ids[keep:]).Delete(&model.PageVersion{})
	return res.RowsAffected, res.Error
}

// snapshotPage must run inside a transaction. Positions are normalized to the list
// rank (position, then creation order) so a restore always yields a dense page.
func (g *GormStore) snapshotPage(ctx context.Context, pageID string, opts VersionOptions) (*model.PageVersion, error) {
	number, err := g.nextVersionNumber(ctx, pageID)
	if err != nil {
		return nil, err
	}

	blocks, err := g.ListBlocks(ctx, pageID)
	if err != nil {
		return nil, err
	}

	snapshot := make([]model.BlockSnapshot, 0, len(blocks))
	for i, block := range blocks {
		snap := block.Snapshot()
		snap.Position = i
		snapshot = append(snapshot, snap)
	}

	data, err := model.EncodeSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	encoded, err := g.compress.Encode(data)
	if err != nil {
		return nil, err
	}

	version := &model.PageVersion{
		ID:            uuid.New().String(),
		PageID:        pageID,
		VersionNumber: number,
		Snapshot:      encoded,
		Compression:   g.compress.Name(),
		BlockCount:    len(snapshot),
		Notes:         opts.Notes,
		CreatedBy:     opts.CreatedBy,
	}
	if err := g.db.WithContext(ctx).Create(version).Error; err != nil {
		return nil, err
	}

	return version, nil
}

// nextVersionNumber bumps the page counter; the row update also serializes concurrent
// version creation for the same page.
func (g *GormStore) nextVersionNumber(ctx context.Context, pageID string) (int64, error) {
	res := g.db.WithContext(ctx).Model(&model.Page{}).
		Where("id = ?", pageID).
		UpdateColumn("last_version_number", gorm.Expr("last_version_number + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrPageNotFound
	}

	var page model.Page
	if err := g.db.WithContext(ctx).Select("last_version_number").Where("id = ?", pageID).First(&page).Error; err != nil {
		return 0, err
	}

	return page.LastVersionNumber, nil
}
