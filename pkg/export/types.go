// Package export renders a graph snapshot into interchange formats:
// Graphviz DOT for tooling, CSV for spreadsheets, and SVG for
// publication-quality vector output.
package export

import (
	"io"

	"github.com/plexkit/plexus/pkg/graph"
)

type Format string

const (
	FormatDOT Format = "dot"
	FormatCSV Format = "csv"
	FormatSVG Format = "svg"
)

// Options tunes the generated output. Zero values fall back to the
// defaults below; Palette maps node types to fill colors for SVG.
type Options struct {
	Width      float64
	Height     float64
	NodeRadius float64
	FontSize   float64
	Background string
	Palette    map[string]string
	HideLabels bool
}

// DefaultOptions returns the standard export tuning.
func DefaultOptions() Options {
	return Options{
		Width:      960,
		Height:     600,
		NodeRadius: 12,
		FontSize:   11,
		Background: "#ffffff",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = def.NodeRadius
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	if o.Background == "" {
		o.Background = def.Background
	}
	return o
}

// Generator turns a snapshot into one output document.
type Generator interface {
	Generate(snap graph.Snapshot) (io.Reader, error)
}
