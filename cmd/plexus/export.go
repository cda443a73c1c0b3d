package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plexkit/plexus/pkg/config"
	"github.com/plexkit/plexus/pkg/export"
	"github.com/plexkit/plexus/pkg/loader"
)

func exportCmd() *cobra.Command {
	var (
		out      string
		format   string
		width    float64
		height   float64
		noLabels bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a graph document as DOT, CSV or SVG",
		Long: `Render a document into an interchange format.

The format comes from --format, or failing that from the output file
extension. Without -o the result goes to stdout.

  plexus export deps.json -o deps.svg
  plexus export deps.json --format dot | dot -Tpng > deps.png`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v (using defaults)\n", err)
			}

			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			if format == "" {
				bad.Fprintln(os.Stderr, "  plexus: pick a format with --format or an -o extension")
				os.Exit(1)
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			snap, err := loader.Load(args[0], logger)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}

			opts := export.DefaultOptions()
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}
			opts.Palette = cfg.Colors
			opts.HideLabels = noLabels

			gen, err := export.New(export.Format(format), opts)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
			r, err := gen.Generate(snap)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}

			if out == "" {
				if _, err := io.Copy(os.Stdout, r); err != nil {
					bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
					os.Exit(1)
				}
				return
			}

			f, err := os.Create(out)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			if _, err := io.Copy(f, r); err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
			good.Printf("  wrote %s\n", out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "output format: dot|csv|svg")
	cmd.Flags().Float64Var(&width, "width", 0, "SVG canvas width")
	cmd.Flags().Float64Var(&height, "height", 0, "SVG canvas height")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit node and edge labels")
	return cmd
}
