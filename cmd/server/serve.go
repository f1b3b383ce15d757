package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/signlearn/signlearn-hub/internal/bootstrap"
	httpserver "github.com/signlearn/signlearn-hub/internal/interface/http"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := bootstrap.NewLogger(cfg)
	defer func() { _ = log.Sync() }()

	c, err := bootstrap.NewContainer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("bootstrap.NewContainer() > %w", err)
	}

	server := httpserver.NewServer(bootstrap.HTTPConfig(cfg), c.HTTP)

	app := bootstrap.New()
	app.AddShutdownHook(func(context.Context) error {
		c.Close()
		return nil
	})
	app.AddShutdownHook(server.Shutdown)

	if cfg.IsDevelopment() {
		color.Yellow("SignLearn Hub %s listening on http://%s", cfg.App.Version, cfg.HTTP.Addr())
	}
	log.Info("service started",
		logger.String("address", cfg.HTTP.Addr()),
		logger.Bool("cache", c.Cache != nil),
	)

	return app.Run(ctx, func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	}, func(context.Context) error {
		return server.Start()
	})
}
