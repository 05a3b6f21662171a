// Package cmd holds the foodgram command line: the API server and its maintenance tasks.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/foodgram-api/config"
	"github.com/foodgram-api/database"
	"github.com/foodgram-api/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "foodgram",
	Short:         "foodgram serves the recipe sharing API",
	Long:          "foodgram runs the recipe sharing HTTP API and the tasks around it: schema migrations, catalog import and admin accounts.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			config.LoadEnv(envFile)
		} else {
			config.LoadEnv()
		}
		cfg := config.Load()
		logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default .env)")
}

// withDB loads config, opens and migrates the database, then runs fn
func withDB(ctx context.Context, fn func(cfg config.Config, db *gorm.DB) error) error {
	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := database.Close(db); cerr != nil {
			logger.WithError(cerr).Warn("closing database")
		}
	}()

	if err := database.Ping(ctx, db); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := database.NewDBConnection(cfg.DBDriver, db).Migrate(); err != nil {
		return err
	}
	return fn(cfg, db)
}
