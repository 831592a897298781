package model

import (
	"encoding/json"
	"time"
)

// PageVersion is an immutable snapshot of the full block set of a page.
// The snapshot stores copies of the blocks, so later block mutations never touch it.
type PageVersion struct {
	ID            string `gorm:"primaryKey;uuid;not null"`
	PageID        string `gorm:"uuid;not null;uniqueIndex:idx_page_versions_page_number"`
	VersionNumber int64  `gorm:"not null;uniqueIndex:idx_page_versions_page_number"`
	Snapshot      []byte `gorm:"not null"`
	Compression   string // the codec used to compress the snapshot
	BlockCount    int    `gorm:"not null;default:0"`
	Notes         *string
	CreatedBy     string
	CreatedAt     time.Time
}

func (PageVersion) TableName() string {
	return "page_versions"
}

// BlockSnapshot is the serialized form of a block inside a version snapshot.
type BlockSnapshot struct {
	BlockType string          `json:"block_type"`
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content"`
	Position  int             `json:"position"`
	IsVisible bool            `json:"is_visible"`
}

// EncodeSnapshot serializes blocks in the given order.
func EncodeSnapshot(blocks []BlockSnapshot) ([]byte, error) {
	if blocks == nil {
		blocks = make([]BlockSnapshot, 0)
	}

	return json.Marshal(blocks)
}

// DecodeSnapshot parses a serialized snapshot.
func DecodeSnapshot(data []byte) ([]BlockSnapshot, error) {
	blocks := make([]BlockSnapshot, 0)
	if len(data) == 0 {
		return blocks, nil
	}

	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, err
	}

	return blocks, nil
}
