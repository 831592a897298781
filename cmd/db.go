package cmd

import (
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emrgen/pagebuilder/internal/config"
	"github.com/emrgen/pagebuilder/internal/model"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(migrateCmd())
}

func migrateCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			cnf := config.LoadConfig()
			config.SetupLogging(cnf)

			if err := model.Migrate(config.GetDb(cnf)); err != nil {
				logrus.Fatalf("migration failed: %v", err)
			}
			color.Green("%s database migrated", cnf.Db.Driver)
		},
	}

	return command
}
