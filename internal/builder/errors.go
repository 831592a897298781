package builder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotConfirmed is returned when a destructive action was not confirmed.
	ErrNotConfirmed = errors.New("action was not confirmed")
	// ErrInvalidOrder is returned when a reorder sequence is not a permutation of the current blocks.
	ErrInvalidOrder = errors.New("order must contain every block of the page exactly once")
	// ErrUnknownBlock is returned when a block is not part of the loaded page.
	ErrUnknownBlock = errors.New("block is not part of the page")
	// ErrContentMismatch is returned when edited content does not match the block type.
	ErrContentMismatch = errors.New("content does not match the block type")
)

// FetchError is returned when a read from the backing store failed.
// The mirror is left as it was.
type FetchError struct {
	PageID string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %s: %v", e.PageID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError is returned when a single block create, update or delete failed.
type WriteError struct {
	Op      string
	BlockID string
	Err     error
}

func (e *WriteError) Error() string {
	if e.BlockID == "" {
		return fmt.Sprintf("%s block: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s block %s: %v", e.Op, e.BlockID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ReorderError is returned when one or more position updates of a reorder failed.
// Storage may hold a mix of old and new positions, so the page must be listed again.
type ReorderError struct {
	PageID string
	// Failed maps block ids to the error of their position update.
	Failed map[string]error
}

func (e *ReorderError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %v", id, e.Failed[id]))
	}

	return fmt.Sprintf("reorder page %s: %d position updates failed (%s)", e.PageID, len(ids), strings.Join(parts, "; "))
}

// Unwrap returns the individual failures so errors.Is can match any of them.
func (e *ReorderError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}

// SnapshotError is returned when a version could not be created. No version row exists.
type SnapshotError struct {
	PageID string
	Err    error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot page %s: %v", e.PageID, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// RestoreError is returned when a restore failed. The current blocks are unchanged.
type RestoreError struct {
	VersionID string
	Err       error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restore version %s: %v", e.VersionID, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}
