package service

import (
	"context"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
	"github.com/emrgen/pagebuilder/internal/builder"
)

var (
	_ v1.VersionServiceServer = (*VersionService)(nil)
)

// NewVersionService creates a new VersionService.
func NewVersionService(editor *Editor) *VersionService {
	return &VersionService{editor: editor}
}

// VersionService captures and restores versions of a page.
type VersionService struct {
	editor *Editor
	v1.UnimplementedVersionServiceServer
}

// ListVersions lists the versions of a page, newest first.
func (s *VersionService) ListVersions(ctx context.Context, request *v1.ListVersionsRequest) (resp *v1.ListVersionsResponse, err error) {
	defer func() { err = done("list_versions", err) }()

	b, err := s.editor.open(ctx, request.PageId, false)
	if err != nil {
		return nil, err
	}

	versions, err := b.Versions(ctx)
	if err != nil {
		return nil, err
	}

	res := &v1.ListVersionsResponse{Versions: make([]*v1.Version, 0, len(versions))}
	for _, v := range versions {
		res.Versions = append(res.Versions, versionToProto(v))
	}

	return res, nil
}

// GetVersion returns a version with the blocks it captured.
func (s *VersionService) GetVersion(ctx context.Context, request *v1.GetVersionRequest) (resp *v1.GetVersionResponse, err error) {
	defer func() { err = done("get_version", err) }()

	b, err := s.editor.open(ctx, request.PageId, false)
	if err != nil {
		return nil, err
	}

	version, err := b.Version(ctx, request.Id)
	if err != nil {
		return nil, err
	}
	snapshot, err := b.VersionBlocks(ctx, request.Id)
	if err != nil {
		return nil, err
	}

	return &v1.GetVersionResponse{Version: versionToProto(version), Blocks: blocksToProto(snapshot)}, nil
}

// CreateVersion snapshots the current blocks of a page.
func (s *VersionService) CreateVersion(ctx context.Context, request *v1.CreateVersionRequest) (resp *v1.CreateVersionResponse, err error) {
	defer func() { err = done("create_version", err) }()

	b, err := s.editor.open(ctx, request.PageId, false)
	if err != nil {
		return nil, err
	}

	version, err := b.SaveVersion(ctx, request.Notes)
	if err != nil {
		return nil, err
	}

	return &v1.CreateVersionResponse{Version: versionToProto(version)}, nil
}

// RestoreVersion replaces the blocks of a page with a version. It must be confirmed.
func (s *VersionService) RestoreVersion(ctx context.Context, request *v1.RestoreVersionRequest) (resp *v1.RestoreVersionResponse, err error) {
	defer func() { err = done("restore_version", err) }()

	if !request.Confirm {
		return nil, builder.ErrNotConfirmed
	}

	b, err := s.editor.open(ctx, request.PageId, request.Confirm)
	if err != nil {
		return nil, err
	}

	restored, err := b.RestoreVersion(ctx, request.Id)
	if err != nil {
		return nil, err
	}

	res := &v1.RestoreVersionResponse{
		Restored: versionToProto(restored.Version),
		Blocks:   blocksToProto(b.Blocks()),
	}
	if restored.Backup != nil {
		res.Backup = versionToProto(restored.Backup)
	}

	return res, nil
}
