package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/emrgen/pagebuilder/internal/compress"
	"github.com/emrgen/pagebuilder/internal/model"
	"github.com/emrgen/pagebuilder/internal/tester"
)

func createBlocks(t *testing.T, s *GormStore, pageID string, types ...string) []*model.ContentBlock {
	t.Helper()

	blocks := make([]*model.ContentBlock, 0, len(types))
	for i, bt := range types {
		block := &model.ContentBlock{
			PageID:    pageID,
			BlockType: bt,
			Name:      bt,
			Content:   datatypes.JSON(`{"heading":"` + bt + `"}`),
			Position:  i,
			IsVisible: true,
		}
		require.NoError(t, s.CreateBlock(context.TODO(), block))
		blocks = append(blocks, block)
	}

	return blocks
}

func blockTypes(blocks []*model.ContentBlock) []string {
	types := make([]string, 0, len(blocks))
	for _, b := range blocks {
		types = append(types, b.BlockType)
	}
	return types
}

func TestGormStore_ListBlocksOrdering(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	page := tester.CreatePage(t, db)
	ctx := context.TODO()

	createBlocks(t, s, page.ID, "hero", "features", "cta")

	// a second block at position 1 sorts after the older one
	dup := &model.ContentBlock{PageID: page.ID, BlockType: "text", Name: "text", Position: 1}
	require.NoError(t, s.CreateBlock(ctx, dup))

	blocks, err := s.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "features", "text", "cta"}, blockTypes(blocks))
	assert.JSONEq(t, `{}`, string(dup.Content))

	sparse, err := s.ListSparsePageIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{page.ID}, sparse)

	moved, err := s.RepackBlocks(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	blocks, err = s.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	for i, b := range blocks {
		assert.Equal(t, i, b.Position)
	}
	assert.Equal(t, []string{"hero", "features", "text", "cta"}, blockTypes(blocks))

	sparse, err = s.ListSparsePageIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, sparse)
}

func TestGormStore_UpdateBlock(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	page := tester.CreatePage(t, db)
	ctx := context.TODO()

	blocks := createBlocks(t, s, page.ID, "hero")

	name := "Main Hero"
	hidden := false
	updated, err := s.UpdateBlock(ctx, blocks[0].ID, BlockUpdate{Name: &name, IsVisible: &hidden})
	require.NoError(t, err)
	assert.Equal(t, "Main Hero", updated.Name)
	assert.False(t, updated.IsVisible)
	assert.JSONEq(t, `{"heading":"hero"}`, string(updated.Content))

	_, err = s.UpdateBlock(ctx, "missing", BlockUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrBlockNotFound)

	assert.ErrorIs(t, s.UpdateBlockPosition(ctx, "missing", 3), ErrBlockNotFound)
	assert.ErrorIs(t, s.DeleteBlock(ctx, "missing"), ErrBlockNotFound)
}

func TestGormStore_CreatePageVersion(t *testing.T) {
	for _, codec := range []compress.Compress{compress.NewNop(), compress.NewGZip(), compress.NewBrotli(), compress.NewLZ4()} {
		t.Run(codec.Name(), func(t *testing.T) {
			db := tester.TestDB(t)
			s := NewGormStore(db, WithCompression(codec))
			page := tester.CreatePage(t, db)
			ctx := context.TODO()

			// empty page
			v1, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), v1.VersionNumber)
			assert.Equal(t, codec.Name(), v1.Compression)
			snapshot, err := s.DecodePageVersion(v1)
			require.NoError(t, err)
			assert.Empty(t, snapshot)

			createBlocks(t, s, page.ID, "hero", "features")
			notes := "launch"
			v2, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{Notes: &notes, CreatedBy: "admin"})
			require.NoError(t, err)
			assert.Equal(t, int64(2), v2.VersionNumber)
			assert.Equal(t, 2, v2.BlockCount)
			assert.Equal(t, "launch", *v2.Notes)

			snapshot, err = s.DecodePageVersion(v2)
			require.NoError(t, err)
			require.Len(t, snapshot, 2)
			assert.Equal(t, "hero", snapshot[0].BlockType)
			assert.Equal(t, 1, snapshot[1].Position)
			assert.JSONEq(t, `{"heading":"features"}`, string(snapshot[1].Content))

			versions, err := s.ListPageVersions(ctx, page.ID)
			require.NoError(t, err)
			require.Len(t, versions, 2)
			assert.Equal(t, int64(2), versions[0].VersionNumber)
			assert.Equal(t, int64(1), versions[1].VersionNumber)
		})
	}
}

func TestGormStore_VersionNumbersNeverReused(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	page := tester.CreatePage(t, db)
	ctx := context.TODO()

	var last int64
	for i := 0; i < 3; i++ {
		v, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{})
		require.NoError(t, err)
		assert.Greater(t, v.VersionNumber, last)
		last = v.VersionNumber

		// deleting the newest version must not free its number
		require.NoError(t, s.DeletePageVersion(ctx, v.ID))
	}

	v, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), v.VersionNumber)

	_, err = s.CreatePageVersion(ctx, "missing", VersionOptions{})
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestGormStore_PrunePageVersions(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	page := tester.CreatePage(t, db)
	ctx := context.TODO()

	for i := 0; i < 5; i++ {
		_, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{})
		require.NoError(t, err)
	}

	removed, err := s.PrunePageVersions(ctx, page.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	versions, err := s.ListPageVersions(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, int64(5), versions[0].VersionNumber)
	assert.Equal(t, int64(4), versions[1].VersionNumber)

	removed, err = s.PrunePageVersions(ctx, page.ID, 2)
	require.NoError(t, err)
	assert.Zero(t, removed)

	v, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.VersionNumber)
}

func TestGormStore_RestorePageVersion(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	page := tester.CreatePage(t, db)
	ctx := context.TODO()

	blocks := createBlocks(t, s, page.ID, "hero", "features", "cta")
	v1, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{})
	require.NoError(t, err)

	_, err = s.UpdateBlock(ctx, blocks[0].ID, BlockUpdate{Content: datatypes.JSON(`{"heading":"New Heading"}`)})
	require.NoError(t, err)
	require.NoError(t, s.DeleteBlock(ctx, blocks[2].ID))

	result, err := s.RestorePageVersion(ctx, v1.ID, RestoreOptions{SnapshotCurrent: true, RestoredBy: "admin"})
	require.NoError(t, err)
	require.NotNil(t, result.Backup)
	assert.Equal(t, int64(2), result.Backup.VersionNumber)
	assert.Equal(t, 2, result.Backup.BlockCount)
	assert.Contains(t, *result.Backup.Notes, "version 1")

	current, err := s.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "features", "cta"}, blockTypes(current))
	assert.JSONEq(t, `{"heading":"hero"}`, string(current[0].Content))
	for i, b := range current {
		assert.Equal(t, i, b.Position)
	}

	_, err = s.RestorePageVersion(ctx, "missing", RestoreOptions{})
	assert.ErrorIs(t, err, ErrVersionNotFound)
}

func TestGormStore_RestoreIsAtomic(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	page := tester.CreatePage(t, db)
	ctx := context.TODO()

	createBlocks(t, s, page.ID, "hero", "features")
	v1, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{})
	require.NoError(t, err)
	createBlocks(t, s, page.ID, "gallery")

	before, err := s.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	versionsBefore, err := s.ListPageVersions(ctx, page.ID)
	require.NoError(t, err)

	// fail the insert that follows the delete of the current blocks
	failInserts := true
	err = db.Callback().Create().Before("gorm:create").Register("test:fail_block_insert", func(tx *gorm.DB) {
		if failInserts && tx.Statement.Table == "content_blocks" {
			_ = tx.AddError(errors.New("backing store unavailable"))
		}
	})
	require.NoError(t, err)

	_, err = s.RestorePageVersion(ctx, v1.ID, RestoreOptions{SnapshotCurrent: true})
	require.Error(t, err)
	failInserts = false

	after, err := s.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	versionsAfter, err := s.ListPageVersions(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, len(versionsBefore), len(versionsAfter))

	reloaded, err := s.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.LastVersionNumber)
}

func TestGormStore_Pages(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()

	page := &model.Page{Slug: "home", Title: "Home"}
	require.NoError(t, s.CreatePage(ctx, page))
	assert.NotEmpty(t, page.ID)

	assert.ErrorIs(t, s.CreatePage(ctx, &model.Page{Slug: "home", Title: "Other"}), ErrSlugTaken)

	got, err := s.GetPageBySlug(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, page.ID, got.ID)

	now := time.Now()
	got.IsPublished = true
	got.PublishedAt = &now
	got.Title = "Welcome"
	require.NoError(t, s.UpdatePage(ctx, got))

	got, err = s.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
	assert.Equal(t, "Welcome", got.Title)
	require.NotNil(t, got.PublishedAt)

	createBlocks(t, s, page.ID, "hero")
	_, err = s.CreatePageVersion(ctx, page.ID, VersionOptions{})
	require.NoError(t, err)

	pages, total, err := s.ListPages(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, pages, 1)

	require.NoError(t, s.DeletePage(ctx, page.ID))
	_, err = s.GetPage(ctx, page.ID)
	assert.ErrorIs(t, err, ErrPageNotFound)

	blocks, err := s.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	assert.Empty(t, blocks)
	versions, err := s.ListPageVersions(ctx, page.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	assert.ErrorIs(t, s.DeletePage(ctx, page.ID), ErrPageNotFound)
}

func TestGormStore_Transaction(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	page := tester.CreatePage(t, db)
	ctx := context.TODO()

	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateBlock(ctx, &model.ContentBlock{PageID: page.ID, BlockType: "text", Name: "text"}); err != nil {
			return err
		}
		return errors.New("rollback")
	})
	require.Error(t, err)

	count, err := s.CountBlocks(ctx, page.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormStore_SnapshotNormalizesPositions(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	page := tester.CreatePage(t, db)
	ctx := context.TODO()

	for _, b := range []struct {
		blockType string
		position  int
	}{{"hero", 0}, {"features", 4}, {"cta", 4}, {"text", 9}} {
		require.NoError(t, s.CreateBlock(ctx, &model.ContentBlock{PageID: page.ID, BlockType: b.blockType, Name: b.blockType, Position: b.position}))
	}

	version, err := s.CreatePageVersion(ctx, page.ID, VersionOptions{})
	require.NoError(t, err)

	snapshot, err := s.DecodePageVersion(version)
	require.NoError(t, err)
	require.Len(t, snapshot, 4)
	for i, snap := range snapshot {
		assert.Equal(t, i, snap.Position)
	}
	assert.Equal(t, "hero", snapshot[0].BlockType)
	assert.ElementsMatch(t, []string{"features", "cta"}, []string{snapshot[1].BlockType, snapshot[2].BlockType})
	assert.Equal(t, "text", snapshot[3].BlockType)

	// the live rows keep their stored positions
	blocks, err := s.ListBlocks(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, blocks[3].Position)
}
