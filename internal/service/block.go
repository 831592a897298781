package service

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	v1 "github.com/emrgen/pagebuilder/apis/v1"
	"github.com/emrgen/pagebuilder/internal/builder"
	"github.com/emrgen/pagebuilder/internal/content"
)

var (
	_ v1.BlockServiceServer = (*BlockService)(nil)
)

// NewBlockService creates a new BlockService.
func NewBlockService(editor *Editor) *BlockService {
	return &BlockService{editor: editor}
}

// BlockService edits the ordered content blocks of a page.
type BlockService struct {
	editor *Editor
	v1.UnimplementedBlockServiceServer
}

// ListBlocks returns the blocks of a page ordered by position.
func (s *BlockService) ListBlocks(ctx context.Context, request *v1.ListBlocksRequest) (resp *v1.ListBlocksResponse, err error) {
	defer func() { err = done("list_blocks", err) }()

	blocks, err := s.editor.blocks(ctx, request.PageId)
	if err != nil {
		return nil, err
	}

	return &v1.ListBlocksResponse{Blocks: blocks}, nil
}

// CreateBlock appends a block. Name and content default to those of the block type.
func (s *BlockService) CreateBlock(ctx context.Context, request *v1.CreateBlockRequest) (resp *v1.CreateBlockResponse, err error) {
	defer func() { err = done("create_block", err) }()

	t, ok := content.ParseBlockType(request.BlockType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, request.BlockType)
	}

	nb := builder.NewBlock{
		Type:      t,
		Name:      t.Label(),
		Content:   content.Default(t),
		IsVisible: true,
	}
	if request.Name != nil {
		nb.Name = *request.Name
	}
	if len(request.Content) > 0 {
		if nb.Content, err = decodeContent(t, request.Content); err != nil {
			return nil, err
		}
		nb.Raw = datatypes.JSON(request.Content)
	}

	b, err := s.editor.open(ctx, request.PageId, false)
	if err != nil {
		return nil, err
	}

	block, err := b.Append(ctx, nb)
	if err != nil {
		return nil, err
	}

	return &v1.CreateBlockResponse{Block: blockToProto(block)}, nil
}

// UpdateBlock saves the name, visibility or content of a block.
func (s *BlockService) UpdateBlock(ctx context.Context, request *v1.UpdateBlockRequest) (resp *v1.UpdateBlockResponse, err error) {
	defer func() { err = done("update_block", err) }()

	b, err := s.editor.load(ctx, request.PageId, false)
	if err != nil {
		return nil, err
	}

	current, err := b.Block(request.Id)
	if err != nil {
		return nil, err
	}

	edit := builder.BlockEdit{
		Name:      request.Name,
		IsVisible: request.IsVisible,
	}
	if len(request.Content) > 0 {
		if edit.Content, err = decodeContent(current.Type, request.Content); err != nil {
			return nil, err
		}
	}

	block, err := b.EditBlock(ctx, request.Id, edit)
	if err != nil {
		return nil, err
	}

	return &v1.UpdateBlockResponse{Block: blockToProto(block)}, nil
}

// MoveBlock swaps a block with its neighbour in the given direction.
func (s *BlockService) MoveBlock(ctx context.Context, request *v1.MoveBlockRequest) (resp *v1.MoveBlockResponse, err error) {
	defer func() { err = done("move_block", err) }()

	b, err := s.editor.load(ctx, request.PageId, false)
	if err != nil {
		return nil, err
	}

	if request.Direction == v1.DirectionUp {
		err = b.MoveUp(ctx, request.Id)
	} else {
		err = b.MoveDown(ctx, request.Id)
	}
	if err != nil {
		return nil, err
	}

	return &v1.MoveBlockResponse{Blocks: blocksToProto(b.Blocks())}, nil
}

// ReorderBlocks persists a full new order. The ids must name every block of the page once.
func (s *BlockService) ReorderBlocks(ctx context.Context, request *v1.ReorderBlocksRequest) (resp *v1.ReorderBlocksResponse, err error) {
	defer func() { err = done("reorder_blocks", err) }()

	b, err := s.editor.load(ctx, request.PageId, false)
	if err != nil {
		return nil, err
	}

	if err := b.Reorder(ctx, request.BlockIds); err != nil {
		return nil, err
	}

	return &v1.ReorderBlocksResponse{Blocks: blocksToProto(b.Blocks())}, nil
}

// DuplicateBlock inserts a copy of a block right after it.
func (s *BlockService) DuplicateBlock(ctx context.Context, request *v1.DuplicateBlockRequest) (resp *v1.DuplicateBlockResponse, err error) {
	defer func() { err = done("duplicate_block", err) }()

	b, err := s.editor.load(ctx, request.PageId, false)
	if err != nil {
		return nil, err
	}

	dup, err := b.Duplicate(ctx, request.Id)
	if err != nil {
		return nil, err
	}

	return &v1.DuplicateBlockResponse{Block: blockToProto(dup), Blocks: blocksToProto(b.Blocks())}, nil
}

// DeleteBlock deletes a block and closes the gap it leaves. It must be confirmed.
func (s *BlockService) DeleteBlock(ctx context.Context, request *v1.DeleteBlockRequest) (resp *v1.DeleteBlockResponse, err error) {
	defer func() { err = done("delete_block", err) }()

	if !request.Confirm {
		return nil, builder.ErrNotConfirmed
	}

	b, err := s.editor.load(ctx, request.PageId, request.Confirm)
	if err != nil {
		return nil, err
	}

	if _, err := b.Block(request.Id); err != nil {
		return nil, err
	}
	if err := b.DeleteBlock(ctx, request.Id); err != nil {
		return nil, err
	}

	return &v1.DeleteBlockResponse{Blocks: blocksToProto(b.Blocks())}, nil
}

func decodeContent(t content.BlockType, raw []byte) (content.Content, error) {
	c, err := content.Decode(t, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	return c, nil
}
