package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plexkit/plexus/pkg/config"
	"github.com/plexkit/plexus/pkg/layout"
	"github.com/plexkit/plexus/pkg/loader"
)

func layoutCmd() *cobra.Command {
	var (
		out    string
		ticks  int
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Run the force layout headless and write the settled positions",
		Long: `Anneal a document's layout to rest without opening the canvas.

Pinned nodes stay where they are; everything else flows into place. The
physics section of the config file applies here too.

  plexus layout deps.json                 # settle in place
  plexus layout deps.json -o settled.json # keep the input untouched`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v (using defaults)\n", err)
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			snap, err := loader.Load(args[0], logger)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}

			positioned, res := layout.Run(snap, layout.Options{
				Physics:  cfg.PhysicsConfig(),
				Width:    width,
				Height:   height,
				MaxTicks: ticks,
				Logger:   logger,
			})

			if out == "" {
				out = args[0]
			}
			if err := loader.Save(out, positioned); err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}

			state := "hit the tick cap"
			if res.Settled {
				state = "settled"
			}
			good.Printf("  wrote %s: %d nodes, %d links\n", out, res.Nodes, res.Links)
			subtle.Printf("  %s after %d ticks in %s (alpha %.4f)\n",
				state, res.Ticks, res.Elapsed.Round(time.Millisecond), res.Alpha)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: overwrite the input)")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "tick cap (default 1000)")
	cmd.Flags().Float64Var(&width, "width", 0, "layout region width (default 1000)")
	cmd.Flags().Float64Var(&height, "height", 0, "layout region height (default 1000)")
	return cmd
}
