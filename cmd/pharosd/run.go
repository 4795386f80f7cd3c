package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/adapters/docker"
	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/telemetry"
)

func newRunCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "run IMAGE",
		Short: "Launch one container from a prepared image",
		Long: `Starts a single container from IMAGE with the application port published on
all interfaces and waits until the port is bound. If the entry point fails to
load or the port cannot be bound the command exits non-zero with nothing left
running.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log := telemetry.NewLogger(cfg.Log.Level, "pharosd-run")

			adapter, err := docker.NewAdapter(cfg, log)
			if err != nil {
				return fmt.Errorf("initializing container runtime: %w", err)
			}

			ctr, err := adapter.Launch(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(ctr)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "container name (also the proxy subdomain)")
	return cmd
}
