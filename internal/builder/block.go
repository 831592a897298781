package builder

import (
	"bytes"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/emrgen/pagebuilder/internal/content"
	"github.com/emrgen/pagebuilder/internal/model"
)

// Block is a content block with its payload decoded into the typed variant.
// Raw is the payload as stored; it is what gets copied and returned to clients.
type Block struct {
	ID        string
	PageID    string
	Type      content.BlockType
	Name      string
	Content   content.Content
	Raw       datatypes.JSON
	Position  int
	IsVisible bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBlock describes a block to create. A nil Position appends the block.
// Raw, when set, is stored as given instead of the encoded Content.
type NewBlock struct {
	Type      content.BlockType
	Name      string
	Content   content.Content
	Raw       datatypes.JSON
	Position  *int
	IsVisible bool
}

// BlockEdit is a partial block update; nil fields are left untouched.
// Content is merged over the stored payload, Raw replaces it.
type BlockEdit struct {
	Name      *string
	IsVisible *bool
	Content   content.Content
	Raw       datatypes.JSON
}

// decode never fails: content that is not a JSON object is edited as an empty raw
// map while Raw keeps the stored bytes.
func decode(t content.BlockType, raw []byte) content.Content {
	c, err := content.Decode(t, raw)
	if err != nil {
		logrus.Warnf("decode %s content: %v", t, err)
		return &content.Custom{Fields: make(map[string]any)}
	}

	return c
}

func blockFromModel(m *model.ContentBlock) *Block {
	return &Block{
		ID:        m.ID,
		PageID:    m.PageID,
		Type:      content.BlockType(m.BlockType),
		Name:      m.Name,
		Content:   decode(content.BlockType(m.BlockType), m.Content),
		Raw:       bytes.Clone(m.Content),
		Position:  m.Position,
		IsVisible: m.IsVisible,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func blocksFromModel(rows []*model.ContentBlock) []*Block {
	blocks := make([]*Block, 0, len(rows))
	for _, row := range rows {
		blocks = append(blocks, blockFromModel(row))
	}

	return blocks
}

// rawContent validates raw as block content of type t.
func rawContent(t content.BlockType, raw datatypes.JSON) (datatypes.JSON, error) {
	if _, err := content.Decode(t, raw); err != nil {
		return nil, err
	}

	return bytes.Clone(raw), nil
}

func encodeContent(c content.Content) (datatypes.JSON, error) {
	data, err := content.Encode(c)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(data), nil
}

// accepts reports whether c can be stored on a block of type t.
// Raw content is accepted for any type.
func accepts(t content.BlockType, c content.Content) bool {
	if _, raw := c.(*content.Custom); raw {
		return true
	}

	return c.Type() == t
}

// clone copies the block including its content, so callers can edit the copy
// without touching the mirror.
func (b *Block) clone() *Block {
	cp := *b
	cp.Raw = bytes.Clone(b.Raw)
	if len(b.Raw) > 0 {
		cp.Content = decode(b.Type, b.Raw)
	}

	return &cp
}
