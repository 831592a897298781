package v1

import "errors"

type ListVersionsRequest struct {
	PageId string `json:"page_id"`
}

func (r *ListVersionsRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	return nil
}

type ListVersionsResponse struct {
	Versions []*Version `json:"versions"`
}

type GetVersionRequest struct {
	PageId string `json:"page_id"`
	Id     string `json:"id"`
}

func (r *GetVersionRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	if r.Id == "" {
		return errors.New("id is required")
	}
	return nil
}

type GetVersionResponse struct {
	Version *Version `json:"version"`
	// Blocks are the blocks captured by the version, without ids.
	Blocks []*Block `json:"blocks"`
}

type CreateVersionRequest struct {
	PageId string `json:"page_id"`
	Notes  string `json:"notes,omitempty"`
}

func (r *CreateVersionRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	return nil
}

type CreateVersionResponse struct {
	Version *Version `json:"version"`
}

type RestoreVersionRequest struct {
	PageId  string `json:"page_id"`
	Id      string `json:"id"`
	Confirm bool   `json:"confirm"`
}

func (r *RestoreVersionRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	if r.Id == "" {
		return errors.New("id is required")
	}
	return nil
}

type RestoreVersionResponse struct {
	Restored *Version `json:"restored"`
	// Backup holds the draft replaced by the restore, when it was captured.
	Backup *Version `json:"backup,omitempty"`
	Blocks []*Block `json:"blocks"`
}
