package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "pharosd",
		Short: "Build-and-run bootstrap daemon for containerized applications",
		Long: `pharosd turns a source tree plus its dependency manifest into an immutable
container image, then launches the application process bound to the platform
port. Build and run are independent phases: "build" never starts a process,
"run" never builds an image.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")

	root.AddCommand(newServeCmd(), newBuildCmd(), newRunCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
