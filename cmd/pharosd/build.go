package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pharoslabs/pharos/internal/adapters/builder"
	"github.com/pharoslabs/pharos/internal/config"
	"github.com/pharoslabs/pharos/internal/core/ports"
	"github.com/pharoslabs/pharos/internal/manifest"
	"github.com/pharoslabs/pharos/internal/telemetry"
)

func newBuildCmd() *cobra.Command {
	var (
		srcDir  string
		repoURL string
		tag     string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Prepare an image from a source tree and its dependency manifest",
		Long: `Stages the source tree, resolves the dependency manifest against the package
index, and builds an immutable image. On any failure (missing manifest,
unresolvable dependency, build error) no image is produced and the command
exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log := telemetry.NewLogger(cfg.Log.Level, "pharosd-build")

			resolver := manifest.NewResolver(manifest.NewHTTPIndex(cfg.Builder.IndexURL, nil))
			adapter, err := builder.NewAdapter(cfg, resolver, log)
			if err != nil {
				return fmt.Errorf("initializing builder: %w", err)
			}

			img, err := adapter.PrepareImage(cmd.Context(), ports.BuildRequest{
				SourceDir: srcDir,
				RepoURL:   repoURL,
				Tag:       tag,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(img)
		},
	}

	cmd.Flags().StringVar(&srcDir, "src", "", "local source tree to build")
	cmd.Flags().StringVar(&repoURL, "repo", "", "git repository to clone and build")
	cmd.Flags().StringVar(&tag, "tag", "", "tag for the built image")
	cmd.MarkFlagRequired("tag")
	cmd.MarkFlagsMutuallyExclusive("src", "repo")
	cmd.MarkFlagsOneRequired("src", "repo")

	return cmd
}
