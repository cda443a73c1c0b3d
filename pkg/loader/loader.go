// Package loader reads and writes graph documents as JSON or YAML files.
// Documents are sanitized on the way in, so the rest of the program only
// ever sees snapshots with resolvable edges and unique node ids.
package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plexkit/plexus/pkg/graph"
)

// Load reads the graph document at path. The format is chosen by file
// extension: .json, .yaml or .yml.
func Load(path string, logger *slog.Logger) (graph.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.Snapshot{}, fmt.Errorf("failed to read graph file: %w", err)
	}
	return Parse(data, filepath.Ext(path), logger)
}

// Parse decodes a graph document and sanitizes it. ext selects the codec
// the same way Load does.
func Parse(data []byte, ext string, logger *slog.Logger) (graph.Snapshot, error) {
	var snap graph.Snapshot

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &snap); err != nil {
			return graph.Snapshot{}, fmt.Errorf("failed to parse JSON graph: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return graph.Snapshot{}, fmt.Errorf("failed to parse YAML graph: %w", err)
		}
	default:
		return graph.Snapshot{}, fmt.Errorf("unsupported graph format %q (want .json, .yaml or .yml)", ext)
	}

	return snap.Sanitize(logger), nil
}

// Save writes the snapshot to path, choosing the codec by extension like
// Load does.
func Save(path string, snap graph.Snapshot) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON graph: %w", err)
		}
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to encode YAML graph: %w", err)
		}
	default:
		return fmt.Errorf("unsupported graph format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write graph file: %w", err)
	}
	return nil
}
