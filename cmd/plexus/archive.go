package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plexkit/plexus/pkg/archive"
	"github.com/plexkit/plexus/pkg/loader"
)

func archiveCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect snapshots written by explore --archive-dir",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", ".plexus-archive", "archive directory")

	cmd.AddCommand(
		archiveListCmd(&dir),
		archiveRestoreCmd(&dir),
	)
	return cmd
}

func archiveListCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots, oldest first",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			arch := archive.NewLocalArchive(*dir, 0)
			entries, err := arch.List(context.Background())
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
			if len(entries) == 0 {
				subtle.Println("  no snapshots")
				return
			}
			for _, e := range entries {
				fmt.Printf("  %s  %s  %6d bytes\n",
					e.Key, e.Saved.Local().Format(time.RFC3339), e.Size)
			}
		},
	}
}

func archiveRestoreCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <key> <file>",
		Short: "Write an archived snapshot back out as a document",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			arch := archive.NewLocalArchive(*dir, 0)
			snap, err := arch.Get(context.Background(), args[0])
			if err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
			if err := loader.Save(args[1], snap); err != nil {
				bad.Fprintf(os.Stderr, "  plexus: %v\n", err)
				os.Exit(1)
			}
			good.Printf("  restored %s to %s: %d nodes, %d edges\n",
				args[0], args[1], len(snap.Nodes), len(snap.Edges))
		},
	}
}
