package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagebuilder",
	Short: "page builder service and client",
	Example: `pagebuilder serve
pagebuilder page create -t "About us"
pagebuilder block add -p <page-id> -t hero
pagebuilder block list -p <page-id>
pagebuilder block reorder -p <page-id> -o <id>,<id>,<id>
pagebuilder version save -p <page-id> -n "before launch"
pagebuilder version restore -p <page-id> -v <version-id>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(contextCommand)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
