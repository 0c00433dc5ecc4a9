package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagWorkspace string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docmark",
		Short: "Extract and serve documentation comments from source files",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", envOrDefault("DOCMARK_CONFIG", ""), "Path to config file (default <workspace>/.docmark.yaml)")
	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", ".", "Workspace root")

	root.AddCommand(newExtractCmd(), newIndexCmd(), newQueryCmd(), newLSPCmd())
	return root
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
