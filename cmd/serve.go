package cmd

import (
	"os/signal"
	"syscall"

	"github.com/foodgram-api/config"
	"github.com/foodgram-api/logger"
	"github.com/foodgram-api/metrics"
	"github.com/foodgram-api/server"
	"github.com/foodgram-api/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load().Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withDB(ctx, func(cfg config.Config, db *gorm.DB) error {
			m := metrics.New()
			svc := services.New(db, services.Options{
				JWTSecret: cfg.JWTSecret,
				JWTTTL:    cfg.JWTTTL,
				MediaRoot: cfg.MediaRoot,
				MediaURL:  cfg.MediaURL,
			}, m)

			logger.WithFields(logrus.Fields{
				"db_driver":  cfg.DBDriver,
				"gin_mode":   cfg.GinMode,
				"media_root": cfg.MediaRoot,
				"rate_limit": cfg.RateLimitPerMinute,
			}).Info("starting foodgram api")

			srv := server.New(cfg, server.NewEngine(cfg, db, svc, m))
			return server.Run(ctx, srv)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

