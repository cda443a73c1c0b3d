package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/plexkit/plexus/pkg/graph"
)

// Fill colors for the built-in node types. Options.Palette overrides.
var defaultFills = map[string]string{
	"service":  "#4285F4",
	"database": "#34A853",
	"cache":    "#FBBC05",
	"queue":    "#A142F4",
	"user":     "#EA4335",
}

const defaultFill = "#4285F4"

// SVGGenerator writes the graph as a standalone SVG document. World
// coordinates are fitted to the requested canvas with a uniform scale.
type SVGGenerator struct {
	opts Options
}

// NewSVGGenerator creates a new SVG generator.
func NewSVGGenerator(opts Options) *SVGGenerator {
	return &SVGGenerator{opts: opts.withDefaults()}
}

func (g *SVGGenerator) Generate(snap graph.Snapshot) (io.Reader, error) {
	o := g.opts
	buf := &bytes.Buffer{}

	project := fitProjection(snap.Nodes, o)

	buf.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, o.Width, o.Height, o.Width, o.Height, o.Background))

	buf.WriteString(`<defs>
  <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5"
      markerWidth="6" markerHeight="6" orient="auto">
    <path d="M0,0 L10,5 L0,10 z" fill="#666666"/>
  </marker>
</defs>
`)

	byID := make(map[string]graph.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}

	// Edges first, so nodes draw over them
	for _, e := range snap.Edges {
		src, okS := byID[e.Source]
		dst, okT := byID[e.Target]
		if !okS || !okT {
			continue
		}
		x1, y1 := project(src.X, src.Y)
		x2, y2 := project(dst.X, dst.Y)

		marker := ""
		if e.Directed {
			// Pull the line back to the target's rim so the arrowhead
			// is not swallowed by the circle.
			if d := math.Hypot(x2-x1, y2-y1); d > o.NodeRadius {
				x2 -= (x2 - x1) / d * o.NodeRadius
				y2 -= (y2 - y1) / d * o.NodeRadius
			}
			marker = ` marker-end="url(#arrow)"`
		}
		buf.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#666666" stroke-width="1"%s />
`, x1, y1, x2, y2, marker))

		if !o.HideLabels && e.Label != "" {
			midX, midY := (x1+x2)/2, (y1+y2)/2
			buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%g" fill="#666666" text-anchor="middle" alignment-baseline="middle">%s</text>
`, midX, midY, o.FontSize, escapeText(e.Label)))
		}
	}

	for _, n := range snap.Nodes {
		x, y := project(n.X, n.Y)
		buf.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%g" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5" />
`, x, y, o.NodeRadius, g.fill(n.Type)))

		if !o.HideLabels && n.Label != "" {
			labelY := y + o.NodeRadius + o.FontSize + 2
			buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%g" fill="#333333" text-anchor="middle">%s</text>
`, x, labelY, o.FontSize, escapeText(n.Label)))
		}
	}

	buf.WriteString(`</svg>`)
	return buf, nil
}

func (g *SVGGenerator) fill(typ string) string {
	if c, ok := g.opts.Palette[typ]; ok && c != "" {
		return c
	}
	if c, ok := defaultFills[typ]; ok {
		return c
	}
	return defaultFill
}

// fitProjection maps world coordinates onto the canvas, centered, with
// a uniform scale and a margin wide enough for node circles and labels.
func fitProjection(nodes []graph.Node, o Options) func(x, y float64) (float64, float64) {
	if len(nodes) == 0 {
		return func(x, y float64) (float64, float64) { return x, y }
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}

	margin := o.NodeRadius*2 + o.FontSize*2
	spanX, spanY := maxX-minX, maxY-minY
	scale := 1.0
	if spanX > 0 || spanY > 0 {
		sx, sy := math.Inf(1), math.Inf(1)
		if spanX > 0 {
			sx = (o.Width - 2*margin) / spanX
		}
		if spanY > 0 {
			sy = (o.Height - 2*margin) / spanY
		}
		scale = math.Min(sx, sy)
		if math.IsInf(scale, 1) {
			scale = 1
		}
		if scale < 0 {
			scale = 0 // canvas smaller than the margins
		}
	}

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return func(x, y float64) (float64, float64) {
		return o.Width/2 + (x-cx)*scale, o.Height/2 + (y-cy)*scale
	}
}

// escapeText replaces the XML metacharacters that can appear in labels.
func escapeText(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
