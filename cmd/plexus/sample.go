package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/plexkit/plexus/pkg/layout"
	"github.com/plexkit/plexus/pkg/loader"
	"github.com/plexkit/plexus/pkg/sample"
)

func sampleCmd() *cobra.Command {
	var (
		seed       int64
		clusters   int
		perCluster int
		settle     bool
	)

	cmd := &cobra.Command{
		Use:   "sample <file>",
		Short: "Write a generated demo graph document",
		Long: `Generate a demo graph of service clusters and write it as a document.

The same seed always produces the same graph.

  plexus sample demo.json --seed 7
  plexus sample demo.yaml --clusters 6 --size 4 --settle`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			snap := sample.Graph(seed, clusters, perCluster)
			if settle {
				snap, _ = layout.Run(snap, layout.Options{
					Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
				})
			}
			if err := loader.Save(args[0], snap); err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
			good.Printf("  wrote %s: %d nodes, %d edges\n", args[0], len(snap.Nodes), len(snap.Edges))
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "noise seed; same seed, same graph")
	cmd.Flags().IntVar(&clusters, "clusters", 4, "number of service clusters")
	cmd.Flags().IntVar(&perCluster, "size", 6, "satellite nodes per cluster")
	cmd.Flags().BoolVar(&settle, "settle", false, "run the layout to rest before writing")
	return cmd
}
