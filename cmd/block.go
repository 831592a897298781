package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/emrgen/pagebuilder"
	v1 "github.com/emrgen/pagebuilder/apis/v1"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "block commands",
}

func init() {
	blockCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	blockCmd.AddCommand(listBlocksCmd())
	blockCmd.AddCommand(addBlockCmd())
	blockCmd.AddCommand(updateBlockCmd())
	blockCmd.AddCommand(moveBlockCmd())
	blockCmd.AddCommand(reorderBlocksCmd())
	blockCmd.AddCommand(duplicateBlockCmd())
	blockCmd.AddCommand(deleteBlockCmd())
}

// readContent returns the json content given inline or, with a leading @, from a file.
func readContent(value string) (json.RawMessage, error) {
	if value == "" {
		return nil, nil
	}

	data := []byte(value)
	if strings.HasPrefix(value, "@") {
		var err error
		data, err = os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return nil, err
		}
	}

	if !json.Valid(data) {
		return nil, errors.New("content is not valid json")
	}

	return data, nil
}

func listBlocksCmd() *cobra.Command {
	var pageID string
	var withContent bool

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:   "list",
		Short: "list the blocks of a page in order",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.ListBlocks(ctx, &v1.ListBlocksRequest{PageId: pageID})
				if err != nil {
					return err
				}

				printBlocks(res.Blocks, withContent)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().BoolVarP(&withContent, "content", "c", false, "show block content")

	return command
}

func addBlockCmd() *cobra.Command {
	var pageID, blockType, name, content string

	var required = []string{"page-id", "type"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "append a block to a page",
		Long:    `append a block to the end of a page, name and content default to the block type template`,
		Example: `pagebuilder block add -p <page-id> -t text -c '{"body":"Hello"}'` + "\npagebuilder block add -p <page-id> -t hero -c @hero.json",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			raw, err := readContent(content)
			if err != nil {
				color.Red("%v", err)
				return
			}
			req := &v1.CreateBlockRequest{PageId: pageID, BlockType: blockType, Content: raw}
			if cmd.Flag("name").Changed {
				req.Name = &name
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.CreateBlock(ctx, req)
				if err != nil {
					return err
				}

				printBlocks([]*v1.Block{res.Block}, true)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&blockType, "type", "t", "", "block type: hero, features, testimonials, cta, gallery, text, pricing, workouts or custom (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "block name")
	command.Flags().StringVarP(&content, "content", "c", "", "json content, @file reads it from a file")
	command.Flags().SortFlags = false

	return command
}

func updateBlockCmd() *cobra.Command {
	var pageID, blockID, name, content string
	var visible bool

	var required = []string{"page-id", "block-id"}

	command := &cobra.Command{
		Use:     "update",
		Short:   "edit the name, visibility or content of a block",
		Example: `pagebuilder block update -p <page-id> -b <block-id> --visible=false`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			raw, err := readContent(content)
			if err != nil {
				color.Red("%v", err)
				return
			}
			req := &v1.UpdateBlockRequest{PageId: pageID, Id: blockID, Content: raw}
			if cmd.Flag("name").Changed {
				req.Name = &name
			}
			if cmd.Flag("visible").Changed {
				req.IsVisible = &visible
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.UpdateBlock(ctx, req)
				if err != nil {
					return err
				}

				printBlocks([]*v1.Block{res.Block}, true)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&blockID, "block-id", "b", "", "block id (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "block name")
	command.Flags().BoolVar(&visible, "visible", true, "block visibility")
	command.Flags().StringVarP(&content, "content", "c", "", "json content, @file reads it from a file")
	command.Flags().SortFlags = false

	return command
}

func moveBlockCmd() *cobra.Command {
	var pageID, blockID, direction string

	var required = []string{"page-id", "block-id", "direction"}

	command := &cobra.Command{
		Use:     "move",
		Short:   "swap a block with its neighbour",
		Example: "pagebuilder block move -p <page-id> -b <block-id> -d up",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.MoveBlock(ctx, &v1.MoveBlockRequest{PageId: pageID, Id: blockID, Direction: direction})
				if err != nil {
					return err
				}

				printBlocks(res.Blocks, false)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&blockID, "block-id", "b", "", "block id (required)")
	command.Flags().StringVarP(&direction, "direction", "d", "", "up or down (required)")
	command.Flags().SortFlags = false

	return command
}

func reorderBlocksCmd() *cobra.Command {
	var pageID string
	var order []string

	var required = []string{"page-id", "order"}

	command := &cobra.Command{
		Use:     "reorder",
		Short:   "set the order of every block of a page",
		Example: "pagebuilder block reorder -p <page-id> -o <id>,<id>,<id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.ReorderBlocks(ctx, &v1.ReorderBlocksRequest{PageId: pageID, BlockIds: order})
				if err != nil {
					return err
				}

				printBlocks(res.Blocks, false)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringSliceVarP(&order, "order", "o", nil, "block ids in their new order (required)")

	return command
}

func duplicateBlockCmd() *cobra.Command {
	var pageID, blockID string

	var required = []string{"page-id", "block-id"}

	command := &cobra.Command{
		Use:   "duplicate",
		Short: "copy a block, the copy is placed after it",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.DuplicateBlock(ctx, &v1.DuplicateBlockRequest{PageId: pageID, Id: blockID})
				if err != nil {
					return err
				}

				printField("Copy", res.Block.Id)
				printBlocks(res.Blocks, false)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&blockID, "block-id", "b", "", "block id (required)")

	return command
}

func deleteBlockCmd() *cobra.Command {
	var pageID, blockID string
	var yes bool

	var required = []string{"page-id", "block-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a block",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			if !confirmed(yes, "delete block %s?", blockID) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.DeleteBlock(ctx, &v1.DeleteBlockRequest{PageId: pageID, Id: blockID, Confirm: true})
				if err != nil {
					return err
				}

				color.Green("block deleted")
				printBlocks(res.Blocks, false)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&blockID, "block-id", "b", "", "block id (required)")
	command.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return command
}
