package cmd

import (
	"context"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/emrgen/pagebuilder"
	v1 "github.com/emrgen/pagebuilder/apis/v1"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "page commands",
}

func init() {
	pageCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	pageCmd.AddCommand(createPageCmd())
	pageCmd.AddCommand(getPageCmd())
	pageCmd.AddCommand(listPagesCmd())
	pageCmd.AddCommand(updatePageCmd())
	pageCmd.AddCommand(publishPageCmd())
	pageCmd.AddCommand(unpublishPageCmd())
	pageCmd.AddCommand(deletePageCmd())
}

func createPageCmd() *cobra.Command {
	var req v1.CreatePageRequest

	var required = []string{"title"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a page",
		Long:    `create a page, the slug is derived from the title when not given`,
		Example: `pagebuilder page create -t "About us" -s about`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.CreatePage(ctx, &req)
				if err != nil {
					return err
				}

				printPages(res.Page)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&req.Title, "title", "t", "", "page title (required)")
	command.Flags().StringVarP(&req.Slug, "slug", "s", "", "page slug")
	command.Flags().StringVar(&req.MetaTitle, "meta-title", "", "seo title")
	command.Flags().StringVar(&req.MetaDescription, "meta-description", "", "seo description")
	command.Flags().SortFlags = false

	return command
}

func getPageCmd() *cobra.Command {
	var req v1.GetPageRequest

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a page by id or slug",
		Example: "pagebuilder page get -p <page-id>\npagebuilder page get -s about",
		Run: func(cmd *cobra.Command, args []string) {
			if req.Id == "" && req.Slug == "" {
				color.Red("missing: --page-id or --slug")
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.GetPage(ctx, &req)
				if err != nil {
					return err
				}

				page := res.Page
				printPages(page)
				printField("Meta title", page.MetaTitle)
				printField("Meta description", page.MetaDescription)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&req.Id, "page-id", "p", "", "page id")
	command.Flags().StringVarP(&req.Slug, "slug", "s", "", "page slug")

	return command
}

func listPagesCmd() *cobra.Command {
	var req v1.ListPagesRequest

	command := &cobra.Command{
		Use:   "list",
		Short: "list pages",
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.ListPages(ctx, &req)
				if err != nil {
					return err
				}

				printPages(res.Pages...)
				printField("Total", strconv.FormatInt(res.Total, 10))
				return nil
			})
		},
	}

	command.Flags().Int32VarP(&req.Offset, "offset", "o", 0, "pages to skip")
	command.Flags().Int32VarP(&req.Limit, "limit", "l", 0, "pages to return")

	return command
}

func updatePageCmd() *cobra.Command {
	var pageID, title, slug, metaTitle, metaDescription string

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:     "update",
		Short:   "update page details",
		Example: `pagebuilder page update -p <page-id> -t "Team"`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := &v1.UpdatePageRequest{Id: pageID}
			if cmd.Flag("title").Changed {
				req.Title = &title
			}
			if cmd.Flag("slug").Changed {
				req.Slug = &slug
			}
			if cmd.Flag("meta-title").Changed {
				req.MetaTitle = &metaTitle
			}
			if cmd.Flag("meta-description").Changed {
				req.MetaDescription = &metaDescription
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.UpdatePage(ctx, req)
				if err != nil {
					return err
				}

				printPages(res.Page)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "page title")
	command.Flags().StringVarP(&slug, "slug", "s", "", "page slug")
	command.Flags().StringVar(&metaTitle, "meta-title", "", "seo title")
	command.Flags().StringVar(&metaDescription, "meta-description", "", "seo description")
	command.Flags().SortFlags = false

	return command
}

func publishPageCmd() *cobra.Command {
	var pageID string

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:   "publish",
		Short: "publish a page",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.PublishPage(ctx, &v1.PublishPageRequest{Id: pageID})
				if err != nil {
					return err
				}

				printPages(res.Page)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func unpublishPageCmd() *cobra.Command {
	var pageID string

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:   "unpublish",
		Short: "unpublish a page",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.UnpublishPage(ctx, &v1.UnpublishPageRequest{Id: pageID})
				if err != nil {
					return err
				}

				printPages(res.Page)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func deletePageCmd() *cobra.Command {
	var pageID string
	var yes bool

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a page with its blocks and versions",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			if !confirmed(yes, "delete page %s with all its blocks and versions?", pageID) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				_, err := client.DeletePage(ctx, &v1.DeletePageRequest{Id: pageID, Confirm: true})
				if err != nil {
					return err
				}

				color.Green("page deleted")
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return command
}
