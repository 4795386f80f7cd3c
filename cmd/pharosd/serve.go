package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/adapters/builder"
	"github.com/pharoslabs/pharos/internal/adapters/docker"
	apihttp "github.com/pharoslabs/pharos/internal/adapters/http"
	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/manifest"
	"github.com/pharoslabs/pharos/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the control API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log := telemetry.NewLogger(cfg.Log.Level, "pharosd")

			resolver := manifest.NewResolver(manifest.NewHTTPIndex(cfg.Builder.IndexURL, nil))

			builderAdapter, err := builder.NewAdapter(cfg, resolver, telemetry.NewLogger(cfg.Log.Level, "builder"))
			if err != nil {
				return fmt.Errorf("initializing builder: %w", err)
			}
			dockerAdapter, err := docker.NewAdapter(cfg, telemetry.NewLogger(cfg.Log.Level, "runtime"))
			if err != nil {
				return fmt.Errorf("initializing container runtime: %w", err)
			}

			app := apihttp.NewServer(builderAdapter, dockerAdapter, cfg.App.Port, telemetry.NewLogger(cfg.Log.Level, "api"))

			log.Info("control API listening", "addr", cfg.Server.Addr)
			if err := app.Listen(cfg.Server.Addr); err != nil {
				return fmt.Errorf("control API failed: %w", err)
			}
			return nil
		},
	}
}
