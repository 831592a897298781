package v1

import (
	"encoding/json"
	"errors"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

var errPageIdRequired = errors.New("page_id is required")

type ListBlocksRequest struct {
	PageId string `json:"page_id"`
}

func (r *ListBlocksRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	return nil
}

type ListBlocksResponse struct {
	Blocks []*Block `json:"blocks"`
}

type CreateBlockRequest struct {
	PageId    string `json:"page_id"`
	BlockType string `json:"block_type"`
	// Name and Content replace the defaults of the block type when set.
	Name    *string         `json:"name,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

func (r *CreateBlockRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	if r.BlockType == "" {
		return errors.New("block_type is required")
	}
	if len(r.Content) > 0 && !json.Valid(r.Content) {
		return errors.New("content must be valid json")
	}
	return nil
}

type CreateBlockResponse struct {
	Block *Block `json:"block"`
}

type UpdateBlockRequest struct {
	PageId    string          `json:"page_id"`
	Id        string          `json:"id"`
	Name      *string         `json:"name,omitempty"`
	IsVisible *bool           `json:"is_visible,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

func (r *UpdateBlockRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	if r.Id == "" {
		return errors.New("id is required")
	}
	if len(r.Content) > 0 && !json.Valid(r.Content) {
		return errors.New("content must be valid json")
	}
	return nil
}

type UpdateBlockResponse struct {
	Block *Block `json:"block"`
}

type MoveBlockRequest struct {
	PageId    string `json:"page_id"`
	Id        string `json:"id"`
	Direction string `json:"direction"`
}

func (r *MoveBlockRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	if r.Id == "" {
		return errors.New("id is required")
	}
	if r.Direction != DirectionUp && r.Direction != DirectionDown {
		return errors.New("direction must be up or down")
	}
	return nil
}

type MoveBlockResponse struct {
	Blocks []*Block `json:"blocks"`
}

type ReorderBlocksRequest struct {
	PageId   string   `json:"page_id"`
	BlockIds []string `json:"block_ids"`
}

func (r *ReorderBlocksRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	return nil
}

type ReorderBlocksResponse struct {
	Blocks []*Block `json:"blocks"`
}

type DuplicateBlockRequest struct {
	PageId string `json:"page_id"`
	Id     string `json:"id"`
}

func (r *DuplicateBlockRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	if r.Id == "" {
		return errors.New("id is required")
	}
	return nil
}

type DuplicateBlockResponse struct {
	Block  *Block   `json:"block"`
	Blocks []*Block `json:"blocks"`
}

type DeleteBlockRequest struct {
	PageId  string `json:"page_id"`
	Id      string `json:"id"`
	Confirm bool   `json:"confirm"`
}

func (r *DeleteBlockRequest) Validate() error {
	if r.PageId == "" {
		return errPageIdRequired
	}
	if r.Id == "" {
		return errors.New("id is required")
	}
	return nil
}

type DeleteBlockResponse struct {
	Blocks []*Block `json:"blocks"`
}
