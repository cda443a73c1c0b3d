// Package archive keeps timestamped copies of a graph document so an
// editing session can be recovered after a crash or an unwanted change.
// Entries are immutable once written; the archive only ever grows at the
// head and prunes at the tail.
package archive

import (
	"context"
	"time"

	"github.com/plexkit/plexus/pkg/graph"
)

// Entry describes one archived snapshot.
type Entry struct {
	Key   string
	Saved time.Time
	Size  int64
}

// Archive stores and retrieves archived graph snapshots.
type Archive interface {
	// Put writes a snapshot under the given key.
	Put(ctx context.Context, key string, snap graph.Snapshot) error

	// Get retrieves the snapshot stored under key.
	Get(ctx context.Context, key string) (graph.Snapshot, error)

	// List returns all entries, oldest first.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes the entry stored under key.
	Delete(ctx context.Context, key string) error
}

// keyFormat orders lexically the same way it orders chronologically, so
// List can sort keys instead of parsing them.
const keyFormat = "20060102-150405.000"

// Key returns the archive key for a snapshot taken at t.
func Key(t time.Time) string {
	return t.UTC().Format(keyFormat) + ".json"
}
