package export

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/plexkit/plexus/pkg/graph"
)

// DOTGenerator writes the graph in Graphviz DOT format. Node positions
// are carried as pinned pos attributes, so neato reproduces the canvas
// layout.
type DOTGenerator struct {
	opts Options
}

// NewDOTGenerator creates a new DOT generator.
func NewDOTGenerator(opts Options) *DOTGenerator {
	return &DOTGenerator{opts: opts.withDefaults()}
}

func (g *DOTGenerator) Generate(snap graph.Snapshot) (io.Reader, error) {
	buf := &bytes.Buffer{}
	buf.WriteString("digraph plexus {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded];\n\n")

	// Sort nodes for deterministic output
	nodes := make([]graph.Node, len(snap.Nodes))
	copy(nodes, snap.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, n := range nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		if n.Type != "" {
			label += "\n(" + n.Type + ")"
		}
		// DOT points grow upward, world y grows downward
		py := -n.Y
		if py == 0 {
			py = 0 // avoid "-0"
		}
		fmt.Fprintf(buf, "  %q [label=%q, pos=\"%g,%g!\"];\n", n.ID, label, n.X, py)
	}

	buf.WriteString("\n")

	edges := make([]graph.Edge, len(snap.Edges))
	copy(edges, snap.Edges)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	for _, e := range edges {
		attrs := ""
		if e.Label != "" {
			attrs = fmt.Sprintf(" [label=%q]", e.Label)
		}
		if !e.Directed {
			if attrs == "" {
				attrs = " [dir=none]"
			} else {
				attrs = fmt.Sprintf(" [label=%q, dir=none]", e.Label)
			}
		}
		fmt.Fprintf(buf, "  %q -> %q%s;\n", e.Source, e.Target, attrs)
	}

	buf.WriteString("}\n")
	return buf, nil
}
