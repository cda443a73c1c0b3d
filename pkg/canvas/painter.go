package canvas

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plexkit/plexus/pkg/camera"
	"github.com/plexkit/plexus/pkg/interaction"
	"github.com/plexkit/plexus/pkg/scene"
)

// Terminal cells are roughly twice as tall as they are wide, so one screen
// unit maps to one column but two screen units map to one row. The camera
// and the gesture controller work in square screen units; only the painter
// and the mouse handlers convert.
const cellAspect = 2.0

// screenToCell maps square screen units to a grid cell.
func screenToCell(sx, sy float64) (int, int) {
	return int(math.Round(sx)), int(math.Round(sy / cellAspect))
}

// cellToScreen maps a grid cell to square screen units.
func cellToScreen(col, row int) (float64, float64) {
	return float64(col), float64(row) * cellAspect
}

// Draw layers, low to high. A cell only accepts a write from a layer at or
// above the one that currently owns it.
const (
	layerEmpty = iota
	layerEdge
	layerLabel
	layerNode
	layerMenu
)

type cell struct {
	r     rune
	fg    string
	bold  bool
	faint bool
	layer uint8
}

type styleKey struct {
	fg    string
	bold  bool
	faint bool
}

// Accent colors. Node base colors come from the palette; these cover
// everything else.
const (
	colorEdge       = "240"
	colorNode       = "252"
	colorLabel      = "246"
	colorSelected   = "214"
	colorHighlight  = "221"
	colorMenuBorder = "63"
	colorMenuText   = "252"
	colorMenuDim    = "241"
)

// Node glyphs by type, with a stable hashed fallback for anything else.
var typeGlyphs = map[string]rune{
	"":         'O',
	"service":  '@',
	"database": '#',
	"cache":    '*',
	"queue":    '+',
	"user":     'X',
}

var fallbackGlyphs = []rune{'O', '@', '#', 'X', '*', '+'}

func glyphFor(typ string) rune {
	if g, ok := typeGlyphs[typ]; ok {
		return g
	}
	h := fnv.New32a()
	h.Write([]byte(typ))
	return fallbackGlyphs[h.Sum32()%uint32(len(fallbackGlyphs))]
}

// painter rasterizes scene frames onto a rune grid and renders the grid as
// styled terminal rows. Not safe for concurrent use.
type painter struct {
	cols, rows int
	cells      []cell

	palette    map[string]string
	baseRadius float64

	nodeCells map[string][2]int
	styles    map[styleKey]lipgloss.Style
}

func newPainter(palette map[string]string, baseRadius float64) *painter {
	return &painter{
		palette:    palette,
		baseRadius: baseRadius,
		nodeCells:  map[string][2]int{},
		styles:     map[styleKey]lipgloss.Style{},
	}
}

func (p *painter) resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	p.cols, p.rows = cols, rows
	p.cells = make([]cell, cols*rows)
	p.clear()
}

func (p *painter) clear() {
	for i := range p.cells {
		p.cells[i] = cell{r: ' '}
	}
}

func (p *painter) put(col, row int, c cell) {
	if col < 0 || col >= p.cols || row < 0 || row >= p.rows {
		return
	}
	at := &p.cells[row*p.cols+col]
	if c.layer < at.layer {
		return
	}
	*at = c
}

// at returns the cell at a grid position, for inspection.
func (p *painter) at(col, row int) cell {
	if col < 0 || col >= p.cols || row < 0 || row >= p.rows {
		return cell{}
	}
	return p.cells[row*p.cols+col]
}

// paint rasterizes one frame through the view transform. Edges go first,
// then nodes, then labels; the layer rules keep nodes on top of both.
func (p *painter) paint(f scene.Frame, t camera.Transform) {
	p.clear()
	p.nodeCells = make(map[string][2]int, len(f.Nodes))

	for _, e := range f.Edges {
		p.drawEdge(e, t)
	}
	for _, n := range f.Nodes {
		p.drawNode(n, t)
	}
	for _, l := range f.EdgeLabels {
		p.drawEdgeLabel(l, t)
	}
	for _, l := range f.NodeLabels {
		p.drawNodeLabel(l)
	}
}

func (p *painter) drawEdge(e scene.RenderEdge, t camera.Transform) {
	sx1, sy1 := t.Apply(e.X1, e.Y1)
	sx2, sy2 := t.Apply(e.X2, e.Y2)
	x1, y1 := sx1, sy1/cellAspect
	x2, y2 := sx2, sy2/cellAspect

	tcol, trow := int(math.Round(x2)), int(math.Round(y2))
	ax, ay, bx, by, ok := clipLine(x1, y1, x2, y2, float64(p.cols), float64(p.rows))
	if !ok {
		return
	}
	pts := linePoints(
		int(math.Round(ax)), int(math.Round(ay)),
		int(math.Round(bx)), int(math.Round(by)),
	)

	c := cell{fg: colorEdge, layer: layerEdge}
	if e.Selected {
		c.fg = colorSelected
		c.bold = true
	}
	if e.Opacity < 1 {
		c.faint = true
	}

	for i, pt := range pts {
		if i == 0 || i == len(pts)-1 {
			continue // endpoint cells belong to the nodes
		}
		c.r = '·'
		p.put(pt[0], pt[1], c)
	}

	// Arrowhead one cell short of the target, and only when the walk
	// actually reached it rather than a clipped pseudo-endpoint.
	if e.Directed && len(pts) >= 3 {
		last, prev := pts[len(pts)-1], pts[len(pts)-2]
		if last[0] == tcol && last[1] == trow {
			c.r = arrowGlyph(last[0]-prev[0], last[1]-prev[1], e.Selected)
			p.put(prev[0], prev[1], c)
		}
	}
}

// arrowGlyph picks a 4-way arrowhead for the dominant step direction.
func arrowGlyph(dx, dy int, selected bool) rune {
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			if selected {
				return '▶'
			}
			return '>'
		}
		if selected {
			return '◀'
		}
		return '<'
	}
	if dy > 0 {
		if selected {
			return '▼'
		}
		return 'v'
	}
	if selected {
		return '▲'
	}
	return '^'
}

func (p *painter) drawNode(n scene.RenderNode, t camera.Transform) {
	sx, sy := t.Apply(n.X, n.Y)
	col, row := screenToCell(sx, sy)
	p.nodeCells[n.ID] = [2]int{col, row}

	c := cell{r: glyphFor(n.Type), fg: p.nodeColor(n), layer: layerNode}
	if n.Tier != scene.TierDefault {
		c.bold = true
	}
	if n.Opacity < 1 {
		c.faint = true
	}
	p.put(col, row, c)

	// A radius above the resting size means the focus pulse is running.
	if n.Radius > p.baseRadius*1.05 {
		p.drawPulse(col, row, n.Radius*t.K, c.fg)
	}
}

func (p *painter) nodeColor(n scene.RenderNode) string {
	switch n.Tier {
	case scene.TierSelected:
		return colorSelected
	case scene.TierHighlighted:
		return colorHighlight
	}
	if c, ok := p.palette[n.Type]; ok && c != "" {
		return c
	}
	if c, ok := p.palette[""]; ok && c != "" {
		return c
	}
	return colorNode
}

// drawPulse rings the node at radius r screen units.
func (p *painter) drawPulse(col, row int, r float64, fg string) {
	if r < 2 {
		return
	}
	rc := int(math.Ceil(r))
	c := cell{r: '◦', fg: fg, layer: layerEdge}
	for dr := -rc; dr <= rc; dr++ {
		if math.Abs(float64(dr))*cellAspect > r+1 {
			continue
		}
		for dc := -rc; dc <= rc; dc++ {
			d := math.Hypot(float64(dc), float64(dr)*cellAspect)
			if math.Abs(d-r) < 0.75 {
				p.put(col+dc, row+dr, c)
			}
		}
	}
}

// drawNodeLabel snaps the label to the row under its node, so it stays
// attached at every zoom level.
func (p *painter) drawNodeLabel(l scene.RenderLabel) {
	at, ok := p.nodeCells[l.Owner]
	if !ok {
		return
	}
	p.drawText(at[0], at[1]+1, l)
}

func (p *painter) drawEdgeLabel(l scene.RenderLabel, t camera.Transform) {
	sx, sy := t.Apply(l.X, l.Y)
	col, row := screenToCell(sx, sy)
	p.drawText(col, row, l)
}

func (p *painter) drawText(centerCol, row int, l scene.RenderLabel) {
	runes := []rune(l.Text)
	if len(runes) == 0 {
		return
	}
	c := cell{fg: colorLabel, layer: layerLabel}
	switch l.Tier {
	case scene.TierSelected:
		c.fg, c.bold = colorSelected, true
	case scene.TierHighlighted:
		c.fg, c.bold = colorHighlight, true
	}
	if l.Opacity < 1 {
		c.faint = true
	}
	start := centerCol - len(runes)/2
	for i, r := range runes {
		c.r = r
		p.put(start+i, row, c)
	}
}

// render assembles the grid into styled terminal rows, merging runs of
// identically styled cells to keep the escape-code overhead down.
func (p *painter) render() string {
	var b strings.Builder
	for row := 0; row < p.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		p.renderRow(&b, row)
	}
	return b.String()
}

func (p *painter) renderRow(b *strings.Builder, row int) {
	var run []rune
	var cur styleKey
	flush := func() {
		if len(run) == 0 {
			return
		}
		if cur == (styleKey{}) {
			b.WriteString(string(run))
		} else {
			b.WriteString(p.style(cur).Render(string(run)))
		}
		run = run[:0]
	}
	for col := 0; col < p.cols; col++ {
		c := p.cells[row*p.cols+col]
		k := styleKey{fg: c.fg, bold: c.bold, faint: c.faint}
		if k != cur {
			flush()
			cur = k
		}
		run = append(run, c.r)
	}
	flush()
}

func (p *painter) style(k styleKey) lipgloss.Style {
	if s, ok := p.styles[k]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if k.fg != "" {
		s = s.Foreground(lipgloss.Color(k.fg))
	}
	if k.bold {
		s = s.Bold(true)
	}
	if k.faint {
		s = s.Faint(true)
	}
	p.styles[k] = s
	return s
}

// linePoints walks a Bresenham line between two cells, inclusive.
func linePoints(x0, y0, x1, y1 int) [][2]int {
	pts := make([][2]int, 0, 16)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		pts = append(pts, [2]int{x, y})
		if x == x1 && y == y1 {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// clipLine clamps a segment to the grid box with a one-cell margin,
// returning false when it lies entirely outside. Liang-Barsky.
func clipLine(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}

	const lo = -1.0
	if !clip(-dx, x0-lo) || !clip(dx, maxX-x0) || !clip(-dy, y0-lo) || !clip(dy, maxY-y0) {
		return 0, 0, 0, 0, false
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type menuRowKind int

const (
	menuRowTitle menuRowKind = iota
	menuRowSection
	menuRowUnlink
	menuRowConnect
	menuRowEmpty
)

type menuRow struct {
	kind  menuRowKind
	text  string
	index int // into Connected or Unconnected for entry rows
}

// menuLayout is the on-screen geometry of the context menu, shared by the
// painter and the mouse handler so clicks land on what was drawn.
type menuLayout struct {
	col, row      int
	width, height int
	rows          []menuRow
	offset        int
	visibleRows   int
}

const menuMaxVisible = 12

// layoutMenu builds the row list and box geometry for an open context
// menu, scrolled so the cursor's row is visible and clamped inside the
// grid.
func layoutMenu(menu interaction.ContextMenu, title string, cols, rows, cursor int) menuLayout {
	mr := make([]menuRow, 0, 3+len(menu.Connected)+len(menu.Unconnected))
	mr = append(mr, menuRow{kind: menuRowTitle, text: title})
	if len(menu.Connected) > 0 {
		mr = append(mr, menuRow{kind: menuRowSection, text: "connected"})
		for i, e := range menu.Connected {
			dir := "←"
			if e.Outgoing {
				dir = "→"
			}
			mr = append(mr, menuRow{kind: menuRowUnlink, text: fmt.Sprintf("✕ %s %s", dir, e.Label), index: i})
		}
	}
	if len(menu.Unconnected) > 0 {
		mr = append(mr, menuRow{kind: menuRowSection, text: "connect to"})
		for i, e := range menu.Unconnected {
			mr = append(mr, menuRow{kind: menuRowConnect, text: "+ " + e.Label, index: i})
		}
	}
	if len(mr) == 1 {
		mr = append(mr, menuRow{kind: menuRowEmpty, text: "(no other nodes)"})
	}

	inner := 0
	for _, r := range mr {
		if n := len([]rune(r.text)); n > inner {
			inner = n
		}
	}
	if max := cols - 6; max > 0 && inner > max {
		inner = max
	}
	if inner < 8 {
		inner = 8
	}

	visible := len(mr)
	if visible > menuMaxVisible {
		visible = menuMaxVisible
	}
	if visible > rows-2 {
		visible = rows - 2
	}
	if visible < 1 {
		visible = 1
	}

	l := menuLayout{
		width:       inner + 4,
		height:      visible + 2,
		rows:        mr,
		visibleRows: visible,
	}

	if ri, ok := l.selectableRowIndex(cursor); ok && ri >= l.offset+visible {
		l.offset = ri - visible + 1
	}
	if l.offset > len(mr)-visible {
		l.offset = len(mr) - visible
	}
	if l.offset < 0 {
		l.offset = 0
	}

	col := int(math.Round(menu.ScreenX))
	row := int(math.Round(menu.ScreenY / cellAspect))
	if col+l.width > cols {
		col = cols - l.width
	}
	if col < 0 {
		col = 0
	}
	if row+l.height > rows {
		row = rows - l.height
	}
	if row < 0 {
		row = 0
	}
	l.col, l.row = col, row
	return l
}

// selectableRowIndex maps a cursor over selectable rows to the absolute
// row index.
func (l menuLayout) selectableRowIndex(cursor int) (int, bool) {
	k := 0
	for i, r := range l.rows {
		if r.kind == menuRowUnlink || r.kind == menuRowConnect {
			if k == cursor {
				return i, true
			}
			k++
		}
	}
	return 0, false
}

func (l menuLayout) selectableCount() int {
	n := 0
	for _, r := range l.rows {
		if r.kind == menuRowUnlink || r.kind == menuRowConnect {
			n++
		}
	}
	return n
}

// selectableAt returns the cursor'th selectable row.
func (l menuLayout) selectableAt(cursor int) (menuRow, bool) {
	if i, ok := l.selectableRowIndex(cursor); ok {
		return l.rows[i], true
	}
	return menuRow{}, false
}

// contains reports whether the cell lies inside the menu box.
func (l menuLayout) contains(col, row int) bool {
	return len(l.rows) > 0 &&
		col >= l.col && col < l.col+l.width &&
		row >= l.row && row < l.row+l.height
}

// rowAt resolves a cell to the selectable row drawn there, if any.
func (l menuLayout) rowAt(col, row int) (menuRow, bool) {
	if !l.contains(col, row) {
		return menuRow{}, false
	}
	if row == l.row || row == l.row+l.height-1 {
		return menuRow{}, false
	}
	ri := l.offset + (row - l.row - 1)
	if ri < 0 || ri >= len(l.rows) {
		return menuRow{}, false
	}
	r := l.rows[ri]
	if r.kind != menuRowUnlink && r.kind != menuRowConnect {
		return menuRow{}, false
	}
	return r, true
}

// drawMenu paints the context menu box over the grid.
func (p *painter) drawMenu(l menuLayout, cursor int) {
	if len(l.rows) == 0 {
		return
	}
	inner := l.width - 4
	border := cell{fg: colorMenuBorder, layer: layerMenu}
	cursorRow, _ := l.selectableRowIndex(cursor)

	p.hline(l.col, l.row, l.width, '╭', '─', '╮', border)
	for vi := 0; vi < l.visibleRows; vi++ {
		ri := l.offset + vi
		y := l.row + 1 + vi
		border.r = '│'
		p.put(l.col, y, border)
		p.put(l.col+l.width-1, y, border)
		if ri >= len(l.rows) {
			continue
		}

		r := l.rows[ri]
		c := cell{fg: colorMenuText, layer: layerMenu}
		switch r.kind {
		case menuRowTitle:
			c.bold = true
		case menuRowSection, menuRowEmpty:
			c.fg = colorMenuDim
		default:
			if ri == cursorRow {
				c.fg = colorSelected
				c.bold = true
			}
		}

		text := []rune(r.text)
		if len(text) > inner {
			text = text[:inner]
		}
		for i := 0; i < inner+2; i++ {
			c.r = ' '
			if i >= 1 && i-1 < len(text) {
				c.r = text[i-1]
			}
			p.put(l.col+1+i, y, c)
		}
	}
	p.hline(l.col, l.row+l.height-1, l.width, '╰', '─', '╯', border)
}

func (p *painter) hline(col, row, width int, left, mid, right rune, c cell) {
	c.r = left
	p.put(col, row, c)
	c.r = mid
	for i := 1; i < width-1; i++ {
		p.put(col+i, row, c)
	}
	c.r = right
	p.put(col+width-1, row, c)
}
