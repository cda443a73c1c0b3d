package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/plexkit/plexus/pkg/graph"
)

// LocalArchive implements Archive on a local directory, one JSON file per
// entry. Writes go through a temp file and rename, so a crash mid-write
// never leaves a truncated entry behind.
type LocalArchive struct {
	root string
	keep int
}

// NewLocalArchive creates an archive rooted at dir. keep bounds the number
// of entries; after every Put the oldest entries beyond the bound are
// pruned. keep <= 0 keeps everything.
func NewLocalArchive(dir string, keep int) *LocalArchive {
	return &LocalArchive{root: dir, keep: keep}
}

// Put writes the snapshot under key and prunes old entries past the keep
// bound.
func (a *LocalArchive) Put(ctx context.Context, key string, snap graph.Snapshot) error {
	if err := os.MkdirAll(a.root, 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode archive entry: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(a.root, "entry-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write archive entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store archive entry %s: %w", key, err)
	}

	return a.prune(ctx)
}

// Get retrieves the snapshot stored under key.
func (a *LocalArchive) Get(ctx context.Context, key string) (graph.Snapshot, error) {
	data, err := os.ReadFile(a.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return graph.Snapshot{}, fmt.Errorf("archive entry %s not found", key)
		}
		return graph.Snapshot{}, fmt.Errorf("failed to read archive entry %s: %w", key, err)
	}

	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return graph.Snapshot{}, fmt.Errorf("failed to decode archive entry %s: %w", key, err)
	}
	return snap, nil
}

// List returns all entries, oldest first.
func (a *LocalArchive) List(ctx context.Context) ([]Entry, error) {
	dirents, err := os.ReadDir(a.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Key:   de.Name(),
			Saved: info.ModTime(),
			Size:  info.Size(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Delete removes the entry stored under key.
func (a *LocalArchive) Delete(ctx context.Context, key string) error {
	if err := os.Remove(a.path(key)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("archive entry %s not found", key)
		}
		return fmt.Errorf("failed to delete archive entry %s: %w", key, err)
	}
	return nil
}

func (a *LocalArchive) path(key string) string {
	return filepath.Join(a.root, filepath.Base(key))
}

func (a *LocalArchive) prune(ctx context.Context) error {
	if a.keep <= 0 {
		return nil
	}
	entries, err := a.List(ctx)
	if err != nil {
		return err
	}
	for len(entries) > a.keep {
		if err := a.Delete(ctx, entries[0].Key); err != nil {
			return err
		}
		entries = entries[1:]
	}
	return nil
}
