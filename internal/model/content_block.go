package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ContentBlock is one ordered, typed unit of a page.
// Blocks are hard deleted; there is no soft-delete column.
type ContentBlock struct {
	ID        string         `gorm:"primaryKey;uuid;not null"`
	PageID    string         `gorm:"uuid;not null;index:idx_content_blocks_page_position"`
	BlockType string         `gorm:"not null"`
	Name      string         `gorm:"not null"`
	Content   datatypes.JSON `gorm:"not null"`
	Position  int            `gorm:"not null;default:0;index:idx_content_blocks_page_position"`
	IsVisible bool           `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ContentBlock) TableName() string {
	return "content_blocks"
}

// Snapshot returns the part of the block captured by a page version.
func (b *ContentBlock) Snapshot() BlockSnapshot {
	content := json.RawMessage(b.Content)
	if len(content) == 0 {
		content = json.RawMessage("{}")
	}

	return BlockSnapshot{
		BlockType: b.BlockType,
		Name:      b.Name,
		Content:   content,
		Position:  b.Position,
		IsVisible: b.IsVisible,
	}
}

func (b *ContentBlock) MarshalBinary() ([]byte, error) {
	return json.Marshal(b)
}
