package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/plexkit/plexus/pkg/archive"
	"github.com/plexkit/plexus/pkg/canvas"
	"github.com/plexkit/plexus/pkg/config"
	"github.com/plexkit/plexus/pkg/sample"
	"github.com/plexkit/plexus/pkg/store"
)

func exploreCmd() *cobra.Command {
	var (
		flags       storeFlags
		metricsAddr string
		logFile     string
		archiveDir  string
		archiveKeep int
		useSample   bool
		sampleSeed  int64
	)

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Open the interactive canvas",
		Long: `Open a graph document on the force-directed canvas.

With a file argument the document loads into memory and the w key writes
it back. Without one, the configured store backend is opened instead, so
several sessions (or an MCP agent) can share one graph.

  plexus explore deps.json            # edit a document file
  plexus explore --sample             # play with a generated graph
  plexus explore --store sqlite --db team.db`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v (using defaults)\n", err)
			}

			// The TUI owns the terminal. Logs go to a file when asked,
			// otherwise nowhere.
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if logFile != "" {
				f, err := tea.LogToFile(logFile, "plexus")
				if err != nil {
					bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
					os.Exit(1)
				}
				defer f.Close()
				logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}

			var (
				st       store.GraphStore
				savePath string
			)
			if useSample {
				st = store.NewMemoryStoreFrom(sample.Graph(sampleSeed, 4, 6))
			} else {
				file := ""
				if len(args) == 1 {
					file = args[0]
				}
				st, savePath, err = openStore(flags.merge(cfg.Store), file, logger)
				if err != nil {
					bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
					os.Exit(1)
				}
			}
			defer st.Close()

			if metricsAddr != "" {
				go serveMetrics(metricsAddr, logger)
			}

			var arch archive.Archive
			if archiveDir != "" {
				arch = archive.NewLocalArchive(archiveDir, archiveKeep)
			}

			err = canvas.Run(canvas.Options{
				Store:          st,
				Physics:        cfg.PhysicsConfig(),
				Camera:         cfg.CameraConfig(),
				Scene:          cfg.SceneConfig(),
				Gesture:        cfg.GestureConfig(),
				Palette:        cfg.Colors,
				DebounceWindow: cfg.DebounceWindow(),
				SavePath:       savePath,
				Archive:        arch,
				Logger:         logger,
			})
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. 127.0.0.1:9190)")
	cmd.Flags().StringVar(&logFile, "log", "", "append debug logs to this file")
	cmd.Flags().StringVar(&archiveDir, "archive-dir", "", "keep timestamped snapshots of every change in this directory")
	cmd.Flags().IntVar(&archiveKeep, "archive-keep", 20, "snapshots to retain in the archive directory")
	cmd.Flags().BoolVar(&useSample, "sample", false, "explore a generated demo graph")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 1, "seed for --sample")
	return cmd
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server failed", "error", err)
	}
}
