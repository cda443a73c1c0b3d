package canvas

import (
	"strings"
	"testing"

	"github.com/plexkit/plexus/pkg/camera"
	"github.com/plexkit/plexus/pkg/interaction"
	"github.com/plexkit/plexus/pkg/scene"
)

// centered maps world (0,0) to cell (20, 6) on a 40x12 grid.
var centered = camera.Transform{X: 20, Y: 12, K: 1}

func gridPainter() *painter {
	p := newPainter(nil, 25)
	p.resize(40, 12)
	return p
}

func TestScreenCellRoundTrip(t *testing.T) {
	for _, tc := range [][2]int{{0, 0}, {7, 3}, {39, 11}} {
		sx, sy := cellToScreen(tc[0], tc[1])
		col, row := screenToCell(sx, sy)
		if col != tc[0] || row != tc[1] {
			t.Errorf("round trip (%d, %d) -> (%d, %d)", tc[0], tc[1], col, row)
		}
	}
}

func TestGlyphFor(t *testing.T) {
	if g := glyphFor("database"); g != '#' {
		t.Errorf("database glyph = %q, want '#'", g)
	}
	if g := glyphFor(""); g != 'O' {
		t.Errorf("untyped glyph = %q, want 'O'", g)
	}
	// Unknown types hash to a stable glyph from the fallback set.
	first := glyphFor("warehouse")
	if second := glyphFor("warehouse"); second != first {
		t.Errorf("fallback glyph not stable: %q then %q", first, second)
	}
}

func TestPaintNodeGlyphAndSnappedLabel(t *testing.T) {
	p := gridPainter()
	p.paint(scene.Frame{
		Nodes: []scene.RenderNode{
			{ID: "n1", Type: "database", X: 0, Y: 0, Radius: 25, Opacity: 1},
		},
		NodeLabels: []scene.RenderLabel{
			{Owner: "n1", Text: "db", X: 0, Y: 33, Opacity: 1},
		},
	}, centered)

	if got := p.at(20, 6).r; got != '#' {
		t.Errorf("node cell = %q, want '#'", got)
	}
	// The label snaps to the row under the node, whatever its world Y.
	if p.at(19, 7).r != 'd' || p.at(20, 7).r != 'b' {
		t.Errorf("label cells = %q%q, want \"db\" under the node", p.at(19, 7).r, p.at(20, 7).r)
	}
}

func TestPaintDirectedEdgeArrow(t *testing.T) {
	p := gridPainter()
	p.paint(scene.Frame{
		Edges: []scene.RenderEdge{
			{ID: "e1", X1: -10, Y1: 0, X2: 10, Y2: 0, Directed: true, Opacity: 1},
		},
		Nodes: []scene.RenderNode{
			{ID: "s", X: -10, Y: 0, Radius: 25, Opacity: 1},
			{ID: "t", X: 10, Y: 0, Radius: 25, Opacity: 1},
		},
	}, centered)

	// Endpoints are node glyphs, the body is dots, and the cell before
	// the target carries the arrowhead.
	if got := p.at(10, 6).r; got != 'O' {
		t.Errorf("source cell = %q, want the node glyph", got)
	}
	if got := p.at(20, 6).r; got != '·' {
		t.Errorf("edge body cell = %q, want '·'", got)
	}
	if got := p.at(29, 6).r; got != '>' {
		t.Errorf("arrow cell = %q, want '>'", got)
	}
}

func TestPaintSelectedStyling(t *testing.T) {
	p := gridPainter()
	p.paint(scene.Frame{
		Nodes: []scene.RenderNode{
			{ID: "n1", X: 0, Y: 0, Radius: 25, Opacity: 1, Tier: scene.TierSelected},
		},
	}, centered)

	c := p.at(20, 6)
	if c.fg != colorSelected || !c.bold {
		t.Errorf("selected node cell = %+v, want bold %s", c, colorSelected)
	}
}

func TestPaintEnteringNodeIsFaint(t *testing.T) {
	p := gridPainter()
	p.paint(scene.Frame{
		Nodes: []scene.RenderNode{
			{ID: "n1", X: 0, Y: 0, Radius: 10, Opacity: 0.4},
		},
	}, centered)

	if !p.at(20, 6).faint {
		t.Error("half-entered node should render faint")
	}
}

func TestPaintPulseRing(t *testing.T) {
	p := newPainter(nil, 2)
	p.resize(40, 12)
	p.paint(scene.Frame{
		Nodes: []scene.RenderNode{
			{ID: "n1", X: 0, Y: 0, Radius: 3, Opacity: 1},
		},
	}, centered)

	if got := p.at(23, 6).r; got != '◦' {
		t.Errorf("pulse ring cell = %q, want '◦'", got)
	}
}

func TestPaintSkipsFullyOffscreenEdge(t *testing.T) {
	p := gridPainter()
	p.paint(scene.Frame{
		Edges: []scene.RenderEdge{
			{ID: "e1", X1: -500, Y1: -500, X2: -400, Y2: -500, Opacity: 1},
		},
	}, centered)

	for row := 0; row < 12; row++ {
		for col := 0; col < 40; col++ {
			if p.at(col, row).r != ' ' {
				t.Fatalf("cell (%d, %d) = %q, want empty grid", col, row, p.at(col, row).r)
			}
		}
	}
}

func TestClipLine(t *testing.T) {
	if _, _, _, _, ok := clipLine(-10, -10, -5, -20, 40, 12); ok {
		t.Error("segment entirely outside should be rejected")
	}

	ax, ay, bx, by, ok := clipLine(-10, 5, 50, 5, 40, 12)
	if !ok {
		t.Fatal("crossing segment should survive clipping")
	}
	if ax < -1 || bx > 40 || ay != 5 || by != 5 {
		t.Errorf("clipped to (%.1f, %.1f)-(%.1f, %.1f), want x within [-1, 40] on y=5", ax, ay, bx, by)
	}
}

func TestRenderKeepsRowCount(t *testing.T) {
	p := gridPainter()
	out := p.render()
	if got := len(strings.Split(out, "\n")); got != 12 {
		t.Errorf("render produced %d rows, want 12", got)
	}
}

func menuFixture() interaction.ContextMenu {
	return interaction.ContextMenu{
		Visible:      true,
		ScreenX:      10,
		ScreenY:      10,
		SourceNodeID: "a",
		Connected: []interaction.ConnectedEntry{
			{NodeID: "b", Label: "beta", EdgeID: "e1", Outgoing: true},
		},
		Unconnected: []interaction.UnconnectedEntry{
			{NodeID: "c", Label: "gamma"},
			{NodeID: "d", Label: "delta"},
		},
	}
}

func TestLayoutMenuRowsAndHitTesting(t *testing.T) {
	l := layoutMenu(menuFixture(), "alpha", 80, 21, 0)

	// title, connected header, 1 entry, connect header, 2 entries
	if len(l.rows) != 6 {
		t.Fatalf("menu has %d rows, want 6", len(l.rows))
	}
	if l.selectableCount() != 3 {
		t.Fatalf("selectable rows = %d, want 3", l.selectableCount())
	}
	if l.col != 10 || l.row != 5 {
		t.Errorf("menu anchored at (%d, %d), want (10, 5)", l.col, l.row)
	}

	// The border never hits; the first entry row does.
	if _, ok := l.rowAt(l.col, l.row+2); ok {
		t.Error("left border should not resolve to a row")
	}
	r, ok := l.rowAt(l.col+2, l.row+1+2)
	if !ok || r.kind != menuRowUnlink || r.index != 0 {
		t.Errorf("entry cell resolved to %+v, want unlink row 0", r)
	}

	// Cursor 1 is the first connect row.
	r, ok = l.selectableAt(1)
	if !ok || r.kind != menuRowConnect || r.index != 0 {
		t.Errorf("cursor 1 = %+v, want connect row 0", r)
	}
}

func TestLayoutMenuClampsInsideGrid(t *testing.T) {
	menu := menuFixture()
	menu.ScreenX = 79
	menu.ScreenY = 40

	l := layoutMenu(menu, "alpha", 80, 21, 0)
	if l.col+l.width > 80 || l.row+l.height > 21 {
		t.Errorf("menu box (%d, %d, %dx%d) escapes the 80x21 grid", l.col, l.row, l.width, l.height)
	}
}

func TestLayoutMenuScrollsCursorIntoView(t *testing.T) {
	menu := interaction.ContextMenu{Visible: true, SourceNodeID: "a"}
	for i := 0; i < 20; i++ {
		menu.Unconnected = append(menu.Unconnected, interaction.UnconnectedEntry{
			NodeID: "n", Label: "node",
		})
	}

	l := layoutMenu(menu, "alpha", 80, 21, 19)
	if l.visibleRows >= len(l.rows) {
		t.Fatal("fixture should overflow the visible window")
	}
	ri, ok := l.selectableRowIndex(19)
	if !ok {
		t.Fatal("cursor 19 should exist")
	}
	if ri < l.offset || ri >= l.offset+l.visibleRows {
		t.Errorf("cursor row %d outside window [%d, %d)", ri, l.offset, l.offset+l.visibleRows)
	}
}

func TestDrawMenuPaintsBoxAndCursor(t *testing.T) {
	p := newPainter(nil, 25)
	p.resize(80, 21)
	l := layoutMenu(menuFixture(), "alpha", 80, 21, 1)
	p.drawMenu(l, 1)

	if got := p.at(l.col, l.row).r; got != '╭' {
		t.Errorf("top-left corner = %q, want '╭'", got)
	}
	if got := p.at(l.col+l.width-1, l.row+l.height-1).r; got != '╯' {
		t.Errorf("bottom-right corner = %q, want '╯'", got)
	}

	// The cursored row renders in the selection accent.
	ri, _ := l.selectableRowIndex(1)
	y := l.row + 1 + (ri - l.offset)
	if c := p.at(l.col+2, y); c.fg != colorSelected || !c.bold {
		t.Errorf("cursor row cell = %+v, want bold %s", c, colorSelected)
	}
}
