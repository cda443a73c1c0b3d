package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "plexus",
	Short: "plexus - an interactive graph canvas for the terminal",
	Long: brand.Sprint("plexus") + " - force-directed node-link graphs in the terminal\n" +
		subtle.Sprint("Explore, edit and lay out graph documents, or serve them to agents over MCP"),
	Version:       version,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("plexus {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", envOrDefault("PLEXUS_CONFIG", ""),
		"config file (default ~/.config/plexus/config.toml)")

	rootCmd.AddCommand(
		exploreCmd(),
		sampleCmd(),
		layoutCmd(),
		exportCmd(),
		mcpCmd(),
		archiveCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
		return err
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
