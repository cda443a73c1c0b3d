package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/plexkit/plexus/pkg/graph"
)

// CSVGenerator writes the graph as one flat table, node rows first,
// then edge rows, distinguished by the kind column.
type CSVGenerator struct{}

// NewCSVGenerator creates a new CSV generator.
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

func (g *CSVGenerator) Generate(snap graph.Snapshot) (io.Reader, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	headers := []string{"kind", "id", "label", "type", "source", "target", "x", "y", "pinned", "directed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	nodes := make([]graph.Node, len(snap.Nodes))
	copy(nodes, snap.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, n := range nodes {
		row := []string{
			"node", n.ID, n.Label, n.Type, "", "",
			strconv.FormatFloat(n.X, 'g', -1, 64),
			strconv.FormatFloat(n.Y, 'g', -1, 64),
			strconv.FormatBool(n.Pinned()),
			"",
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write node row: %w", err)
		}
	}

	edges := make([]graph.Edge, len(snap.Edges))
	copy(edges, snap.Edges)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	for _, e := range edges {
		row := []string{
			"edge", e.ID, e.Label, "", e.Source, e.Target, "", "", "",
			strconv.FormatBool(e.Directed),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write edge row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}
