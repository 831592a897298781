package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/emrgen/pagebuilder"
	v1 "github.com/emrgen/pagebuilder/apis/v1"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "page version commands",
}

func init() {
	versionCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	versionCmd.AddCommand(listVersionsCmd())
	versionCmd.AddCommand(getVersionCmd())
	versionCmd.AddCommand(saveVersionCmd())
	versionCmd.AddCommand(restoreVersionCmd())
}

func listVersionsCmd() *cobra.Command {
	var pageID string

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:   "list",
		Short: "list the versions of a page, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.ListVersions(ctx, &v1.ListVersionsRequest{PageId: pageID})
				if err != nil {
					return err
				}

				printVersions(res.Versions...)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func getVersionCmd() *cobra.Command {
	var pageID, versionID string

	var required = []string{"page-id", "version-id"}

	command := &cobra.Command{
		Use:   "get",
		Short: "show a version with its blocks",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.GetVersion(ctx, &v1.GetVersionRequest{PageId: pageID, Id: versionID})
				if err != nil {
					return err
				}

				printVersions(res.Version)
				printBlocks(res.Blocks, true)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id (required)")

	return command
}

func saveVersionCmd() *cobra.Command {
	var pageID, notes string

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:     "save",
		Short:   "save the current blocks of a page as a new version",
		Example: `pagebuilder version save -p <page-id> -n "before launch"`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.CreateVersion(ctx, &v1.CreateVersionRequest{PageId: pageID, Notes: notes})
				if err != nil {
					return err
				}

				printVersions(res.Version)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&notes, "notes", "n", "", "version notes")

	return command
}

func restoreVersionCmd() *cobra.Command {
	var pageID, versionID string
	var yes bool

	var required = []string{"page-id", "version-id"}

	command := &cobra.Command{
		Use:   "restore",
		Short: "replace the blocks of a page with a saved version",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			if !confirmed(yes, "replace the current blocks of page %s?", pageID) {
				return
			}

			withClient(func(ctx context.Context, client pagebuilder.Client) error {
				res, err := client.RestoreVersion(ctx, &v1.RestoreVersionRequest{PageId: pageID, Id: versionID, Confirm: true})
				if err != nil {
					return err
				}

				color.Green("restored version %d", res.Restored.VersionNumber)
				if res.Backup != nil {
					color.Magenta("previous draft saved as version %d", res.Backup.VersionNumber)
				}
				printBlocks(res.Blocks, false)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id (required)")
	command.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return command
}
