package cmd

import (
	"fmt"

	"github.com/foodgram-api/config"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(cfg config.Config, _ *gorm.DB) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", cfg.DBDriver)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
