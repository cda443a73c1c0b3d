package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/plexkit/plexus/pkg/config"
	"github.com/plexkit/plexus/pkg/loader"
	"github.com/plexkit/plexus/pkg/mcp"
)

func mcpCmd() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "mcp [file]",
		Short: "Serve the graph to agents over the Model Context Protocol",
		Long: `Speak MCP on stdio, exposing the graph as a resource plus editing tools.

With a file argument the document is served from memory and written back
when the session ends. Point it at the sqlite or redis backend instead to
share a live graph with an open canvas.

  plexus mcp deps.json
  plexus mcp --store redis --redis-addr 127.0.0.1:6379`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v (using defaults)\n", err)
			}

			// stdout belongs to the protocol; keep everything else off it.
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			st, savePath, err := openStore(flags.merge(cfg.Store), file, logger)
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
			defer st.Close()

			if err := mcp.NewServer(st).Serve(); err != nil {
				bad.Fprintf(os.Stderr, "  plexus: mcp server: %v\n", err)
				os.Exit(1)
			}

			// Serve returns when the agent hangs up; fold the session's
			// edits back into the document.
			if savePath != "" {
				snap, err := st.Load()
				if err == nil {
					err = loader.Save(savePath, snap)
				}
				if err != nil {
					bad.Fprintf(os.Stderr, "  plexus: saving %s: %v\n", savePath, err)
					os.Exit(1)
				}
			}
		},
	}

	flags.register(cmd)
	return cmd
}
