package builder

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/pagebuilder/internal/model"
	"github.com/emrgen/pagebuilder/internal/store"
)

// Version describes a page version without its snapshot.
type Version struct {
	ID         string
	PageID     string
	Number     int64
	Notes      *string
	BlockCount int
	CreatedBy  string
	CreatedAt  time.Time
}

func versionFromModel(m *model.PageVersion) *Version {
	return &Version{
		ID:         m.ID,
		PageID:     m.PageID,
		Number:     m.VersionNumber,
		Notes:      m.Notes,
		BlockCount: m.BlockCount,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
	}
}

// Restored describes a completed restore.
type Restored struct {
	Version *Version
	// Backup is the version that captured the draft replaced by the restore.
	Backup *Version
}

// Versions captures and restores snapshots of the blocks of one page.
// It keeps no state of its own between calls.
type Versions struct {
	pageID  string
	store   store.PageVersionStore
	timeout time.Duration
	// snapshotOnRestore captures the current draft before a restore replaces it.
	snapshotOnRestore bool
	actor             string
}

func NewVersions(pageID string, store store.PageVersionStore, timeout time.Duration) *Versions {
	return &Versions{
		pageID:            pageID,
		store:             store,
		timeout:           timeout,
		snapshotOnRestore: true,
	}
}

// List returns the versions of the page, newest first.
func (v *Versions) List(ctx context.Context) ([]*Version, error) {
	ctx, cancel := withTimeout(ctx, v.timeout)
	defer cancel()

	rows, err := v.store.ListPageVersions(ctx, v.pageID)
	if err != nil {
		logrus.WithField("page_id", v.pageID).Errorf("list versions: %v", err)
		return nil, &FetchError{PageID: v.pageID, Err: err}
	}

	versions := make([]*Version, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, versionFromModel(row))
	}

	return versions, nil
}

// Get returns a version of the page.
func (v *Versions) Get(ctx context.Context, versionID string) (*Version, error) {
	ctx, cancel := withTimeout(ctx, v.timeout)
	defer cancel()

	row, err := v.get(ctx, versionID)
	if err != nil {
		return nil, &FetchError{PageID: v.pageID, Err: err}
	}

	return versionFromModel(row), nil
}

// Blocks returns the blocks captured by a version of the page.
func (v *Versions) Blocks(ctx context.Context, versionID string) ([]model.BlockSnapshot, error) {
	ctx, cancel := withTimeout(ctx, v.timeout)
	defer cancel()

	row, err := v.get(ctx, versionID)
	if err != nil {
		return nil, &FetchError{PageID: v.pageID, Err: err}
	}

	snapshot, err := v.store.DecodePageVersion(row)
	if err != nil {
		return nil, &FetchError{PageID: v.pageID, Err: err}
	}

	return snapshot, nil
}

// Create snapshots the current blocks of the page as the next version.
func (v *Versions) Create(ctx context.Context, notes *string) (*Version, error) {
	ctx, cancel := withTimeout(ctx, v.timeout)
	defer cancel()

	row, err := v.store.CreatePageVersion(ctx, v.pageID, store.VersionOptions{
		Notes:     notes,
		CreatedBy: v.actor,
	})
	if err != nil {
		logrus.WithField("page_id", v.pageID).Errorf("create version: %v", err)
		return nil, &SnapshotError{PageID: v.pageID, Err: err}
	}

	logrus.WithField("page_id", v.pageID).Infof("created version %d (%d blocks)", row.VersionNumber, row.BlockCount)

	return versionFromModel(row), nil
}

// Restore replaces the current blocks of the page with the snapshot of a version.
// Either every block reflects the snapshot or the blocks are left unchanged.
func (v *Versions) Restore(ctx context.Context, versionID string) (*Restored, error) {
	ctx, cancel := withTimeout(ctx, v.timeout)
	defer cancel()

	if _, err := v.get(ctx, versionID); err != nil {
		return nil, &RestoreError{VersionID: versionID, Err: err}
	}

	result, err := v.store.RestorePageVersion(ctx, versionID, store.RestoreOptions{
		SnapshotCurrent: v.snapshotOnRestore,
		RestoredBy:      v.actor,
	})
	if err != nil {
		logrus.WithField("page_id", v.pageID).Errorf("restore version %s: %v", versionID, err)
		return nil, &RestoreError{VersionID: versionID, Err: err}
	}

	restored := &Restored{Version: versionFromModel(result.Restored)}
	if result.Backup != nil {
		restored.Backup = versionFromModel(result.Backup)
	}

	return restored, nil
}

// get loads a version and checks that it belongs to the page.
func (v *Versions) get(ctx context.Context, versionID string) (*model.PageVersion, error) {
	row, err := v.store.GetPageVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if row.PageID != v.pageID {
		return nil, store.ErrVersionNotFound
	}

	return row, nil
}
