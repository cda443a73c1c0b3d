// Package canvas is the terminal host for the graph editor: a bubbletea
// program that owns a graph store, runs the layout simulation on a frame
// tick, routes mouse and key input through the gesture controller, and
// paints the scene as a rune grid.
package canvas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plexkit/plexus/pkg/archive"
	"github.com/plexkit/plexus/pkg/bridge"
	"github.com/plexkit/plexus/pkg/camera"
	"github.com/plexkit/plexus/pkg/gesture"
	"github.com/plexkit/plexus/pkg/graph"
	"github.com/plexkit/plexus/pkg/interaction"
	"github.com/plexkit/plexus/pkg/loader"
	"github.com/plexkit/plexus/pkg/physics"
	"github.com/plexkit/plexus/pkg/scene"
	"github.com/plexkit/plexus/pkg/store"
)

// Chrome rows around the grid: one title line above, status and help
// lines below.
const (
	titleRows  = 1
	footerRows = 2
)

// zoomStep is the scale factor applied per wheel notch.
const zoomStep = 1.2

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Options configures a canvas program. Zero-value fields fall back to the
// package defaults; only Store is required.
type Options struct {
	Store store.GraphStore

	Physics physics.Config
	Camera  camera.Config
	Scene   scene.Config
	Gesture gesture.Config

	// Palette maps node types to colors; the "" key is the fallback.
	Palette map[string]string

	// DebounceWindow is the quiet period before a dragged node position
	// is written back to the store.
	DebounceWindow time.Duration

	// FrameInterval is the animation tick period.
	FrameInterval time.Duration

	// SavePath, when set, is where the write key saves the document.
	SavePath string

	// Archive, when set, receives debounced autosave snapshots after
	// every mutation, plus a final one on quit.
	Archive        archive.Archive
	AutosaveWindow time.Duration

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Physics == (physics.Config{}) {
		o.Physics = physics.DefaultConfig()
	}
	if o.Camera == (camera.Config{}) {
		o.Camera = camera.DefaultConfig()
	}
	if o.Scene == (scene.Config{}) {
		o.Scene = scene.DefaultConfig()
	}
	if o.Gesture == (gesture.Config{}) {
		o.Gesture = gesture.DefaultConfig()
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = 300 * time.Millisecond
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = 33 * time.Millisecond
	}
	if o.AutosaveWindow <= 0 {
		o.AutosaveWindow = 3 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type mode int

const (
	modeCanvas mode = iota
	modeSearch
	modePrompt
)

type frameMsg time.Time

type snapshotMsg struct {
	snap graph.Snapshot
	err  error
}

type panState struct {
	active  bool
	moved   bool
	lastCol int
	lastRow int
}

// Model is the bubbletea model for the canvas. Use New, then hand it to
// tea.NewProgram (or Run).
type Model struct {
	opts   Options
	logger *slog.Logger

	sim   *physics.Simulation
	cam   *camera.Camera
	state *interaction.State
	scn   *scene.Scene
	ctrl  *gesture.Controller
	moves *bridge.PositionBridge
	auto  *bridge.Debouncer[string, struct{}]

	paint *painter
	keys  keyMap
	help  help.Model
	input textinput.Model
	spin  spinner.Model

	mode     mode
	width    int
	height   int
	gridRows int
	ready    bool
	loading  bool
	fitted   bool
	stale    bool
	dirty    bool
	quitting bool
	err      error
	status   string

	now      time.Time
	lastSnap graph.Snapshot

	createX, createY float64
	menu             menuLayout
	menuCursor       int
	pan              panState
}

// New wires up a canvas over the given store.
func New(opts Options) *Model {
	opts = opts.withDefaults()

	m := &Model{
		opts:    opts,
		logger:  opts.Logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		paint:   newPainter(opts.Palette, opts.Scene.NodeRadius),
		loading: true,
	}

	m.sim = physics.New(opts.Physics, opts.Logger)
	m.cam = camera.New(opts.Camera)
	m.state = interaction.NewState()
	m.scn = scene.New(m.sim, m.state, opts.Scene, opts.Logger)
	m.moves = bridge.NewPositionBridge(opts.DebounceWindow, hostSink{m}, m.clock)
	m.ctrl = gesture.New(gesture.Deps{
		View:      m.cam,
		Scene:     m.scn,
		Layout:    m.sim,
		Navigator: sceneNavigator{m},
		State:     m.state,
		Sink:      m.moves,
	}, opts.Gesture, opts.Logger)

	if opts.Archive != nil {
		m.auto = bridge.NewDebouncer[string, struct{}](opts.AutosaveWindow, func(string, struct{}) {
			m.archiveNow()
		})
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	m.spin = s

	ti := textinput.New()
	ti.CharLimit = 64
	m.input = ti

	return m
}

// Run starts the canvas with mouse tracking and the alternate screen and
// blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("canvas exited: %w", err)
	}
	return nil
}

// clock returns the current frame time, or the wall clock before the
// first frame arrives.
func (m *Model) clock() time.Time {
	if m.now.IsZero() {
		return time.Now()
	}
	return m.now
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd(), m.frameCmd())
}

func (m *Model) frameCmd() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) loadCmd() tea.Cmd {
	st := m.opts.Store
	return func() tea.Msg {
		snap, err := st.Load()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(msg)
		return m, nil

	case frameMsg:
		return m, m.stepFrame(time.Time(msg))

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w

	rows := h - titleRows - footerRows
	if rows < 1 {
		rows = 1
	}
	m.gridRows = rows
	m.paint.resize(w, rows)

	sw, sh := cellToScreen(w, rows)
	m.cam.SetViewport(sw, sh)
	m.sim.SetViewport(sw, sh)
	m.ready = true
}

func (m *Model) applySnapshot(msg snapshotMsg) {
	m.loading = false
	if msg.err != nil {
		m.err = fmt.Errorf("load graph: %w", msg.err)
		m.logger.Error("failed to load graph", "error", msg.err)
		return
	}
	m.err = nil
	m.lastSnap = msg.snap
	m.scn.Apply(msg.snap, m.clock())
	m.state.Prune(m.scn.HasNode, m.scn.HasEdge)
	m.scn.Restyle()
}

// stepFrame advances every animated subsystem by one tick and re-arms the
// frame timer. Store reloads requested by mutations piggyback here.
func (m *Model) stepFrame(now time.Time) tea.Cmd {
	m.now = now

	if m.sim.Tick() {
		m.scn.Reposition()
	}
	if focused := m.cam.Step(now); focused != "" {
		m.scn.PulseNode(focused, now)
	}
	m.ctrl.Step(now)
	m.scn.Step(now)
	m.scn.Restyle()
	m.moves.Flush(now)
	if m.auto != nil {
		m.auto.Flush(now)
	}

	if m.ready && !m.fitted {
		if nodes := m.scn.LiveNodes(); len(nodes) > 0 {
			m.cam.FitToScreen(nodes, now)
			m.fitted = true
		}
	}

	cmds := []tea.Cmd{m.frameCmd()}
	if m.stale {
		m.stale = false
		cmds = append(cmds, m.loadCmd())
	}
	return tea.Batch(cmds...)
}

// mutate runs a store mutation, surfaces the outcome on the status line,
// and marks the canvas stale so the next frame reloads store truth.
func (m *Model) mutate(what string, fn func() error) {
	if err := fn(); err != nil {
		m.logger.Error("store mutation failed", "op", what, "error", err)
		m.err = fmt.Errorf("%s: %w", what, err)
		return
	}
	m.err = nil
	m.status = what
	m.stale = true
	m.dirty = true
	if m.auto != nil {
		m.auto.Call("autosave", struct{}{}, m.clock())
	}
}

func (m *Model) handleMouse(ev tea.MouseMsg) {
	if !m.ready || m.mode != modeCanvas {
		return
	}
	col, row := ev.X, ev.Y-titleRows
	sx, sy := cellToScreen(col, row)

	switch ev.Action {
	case tea.MouseActionPress:
		m.mousePress(ev, col, row, sx, sy)
	case tea.MouseActionMotion:
		m.mouseMotion(col, row, sx, sy)
	case tea.MouseActionRelease:
		m.mouseRelease(sx, sy)
	}
}

func (m *Model) mousePress(ev tea.MouseMsg, col, row int, sx, sy float64) {
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		m.cam.ZoomBy(zoomStep, sx, sy)
	case tea.MouseButtonWheelDown:
		m.cam.ZoomBy(1/zoomStep, sx, sy)

	case tea.MouseButtonLeft:
		if row < 0 || row >= m.gridRows {
			return
		}
		if m.ctrl.MenuOpen() {
			m.menuClick(col, row)
			return
		}
		if m.ctrl.PointerDown(sx, sy) {
			return
		}
		m.pan = panState{active: true, lastCol: col, lastRow: row}

	case tea.MouseButtonRight:
		if row < 0 || row >= m.gridRows {
			return
		}
		m.ctrl.RightClick(sx, sy)
		m.menuCursor = 0
	}
}

func (m *Model) mouseMotion(col, row int, sx, sy float64) {
	if m.ctrl.Dragging() {
		m.ctrl.PointerMove(sx, sy)
		m.scn.Reposition()
		return
	}
	if m.pan.active {
		dx, dy := col-m.pan.lastCol, row-m.pan.lastRow
		if dx != 0 || dy != 0 {
			m.cam.PanBy(float64(dx), float64(dy)*cellAspect)
			m.pan.moved = true
			m.pan.lastCol, m.pan.lastRow = col, row
		}
	}
}

func (m *Model) mouseRelease(sx, sy float64) {
	if m.ctrl.Dragging() {
		m.ctrl.PointerUp(sx, sy, m.clock())
		return
	}
	if m.pan.active {
		moved := m.pan.moved
		m.pan = panState{}
		if !moved {
			m.ctrl.Click(sx, sy, m.clock())
		}
	}
}

func (m *Model) menuClick(col, row int) {
	r, ok := m.menu.rowAt(col, row)
	if !ok {
		if !m.menu.contains(col, row) {
			m.ctrl.MenuDismiss()
		}
		return
	}
	m.activateMenuRow(r)
}

func (m *Model) activateMenuRow(r menuRow) {
	switch r.kind {
	case menuRowConnect:
		m.ctrl.MenuSelectUnconnected(r.index)
	case menuRowUnlink:
		m.ctrl.MenuSelectConnected(r.index)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modePrompt:
		return m.handlePromptKey(msg)
	}
	return m.handleCanvasKey(msg)
}

func (m *Model) handleCanvasKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.MenuOpen() {
		switch msg.String() {
		case "up", "k":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down", "j":
			if m.menuCursor < m.menu.selectableCount()-1 {
				m.menuCursor++
			}
		case "enter":
			if r, ok := m.menu.selectableAt(m.menuCursor); ok {
				m.activateMenuRow(r)
			}
		case "esc", "q":
			m.ctrl.MenuDismiss()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Fit):
		m.cam.FitToScreen(m.scn.LiveNodes(), m.clock())
	case key.Matches(msg, m.keys.Center):
		m.centerSelected()
	case key.Matches(msg, m.keys.Add):
		wx, wy := m.viewCenterWorld()
		m.startCreate(wx, wy)
	case key.Matches(msg, m.keys.Delete):
		m.deleteSelected()
	case key.Matches(msg, m.keys.Unpin):
		m.unpinAll()
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.input.Placeholder = "search nodes"
		m.input.SetValue("")
		m.input.Focus()
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Escape):
		m.ctrl.Escape()
		m.state.ClearHighlights()
		m.scn.Restyle()
		m.status = ""
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.state.ClearHighlights()
		m.scn.Restyle()
		m.closeInput()
		return m, nil
	case "enter":
		m.status = fmt.Sprintf("%d match(es)", m.state.HighlightCount())
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applySearch(m.input.Value())
	return m, cmd
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.closeInput()
		return m, nil
	case "enter":
		label := strings.TrimSpace(m.input.Value())
		m.closeInput()
		if label != "" {
			m.createNode(label)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeCanvas
	m.input.Blur()
	m.input.SetValue("")
}

// applySearch recomputes the highlight set for a query over labels, ids
// and types. An empty query clears it.
func (m *Model) applySearch(query string) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		m.state.ClearHighlights()
		m.scn.Restyle()
		return
	}
	var ids []string
	for _, n := range m.scn.LiveNodes() {
		if strings.Contains(strings.ToLower(n.Label), q) ||
			strings.Contains(strings.ToLower(n.ID), q) ||
			strings.Contains(strings.ToLower(n.Type), q) {
			ids = append(ids, n.ID)
		}
	}
	m.state.SetHighlights(ids)
	m.scn.Restyle()
}

// startCreate opens the label prompt for a node to be created at the
// given world position. A ":type" suffix on the entered label sets the
// node type.
func (m *Model) startCreate(x, y float64) {
	m.createX, m.createY = x, y
	m.mode = modePrompt
	m.input.Placeholder = "label[:type]"
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) createNode(label string) {
	typ := ""
	if i := strings.LastIndex(label, ":"); i > 0 {
		typ = strings.TrimSpace(label[i+1:])
		label = strings.TrimSpace(label[:i])
	}
	x, y := m.createX, m.createY
	m.mutate("create node", func() error {
		_, err := m.opts.Store.CreateNode(label, typ, x, y)
		return err
	})
}

func (m *Model) centerSelected() {
	sel := m.state.Selection()
	if sel.Kind != interaction.SelectionNode {
		m.status = "no node selected"
		return
	}
	if n, ok := m.scn.NodeByID(sel.ID); ok {
		m.cam.CenterOnNode(n, m.opts.Camera.FocusScale, m.clock())
	}
}

func (m *Model) deleteSelected() {
	sel := m.state.Selection()
	switch sel.Kind {
	case interaction.SelectionNode:
		id := sel.ID
		m.mutate("delete node", func() error { return m.opts.Store.DeleteNode(id) })
	case interaction.SelectionEdge:
		id := sel.ID
		m.mutate("delete edge", func() error { return m.opts.Store.DeleteEdge(id) })
	default:
		m.status = "nothing selected"
	}
}

// unpinAll releases every pinned node and reheats so the layout can
// settle into a fresh arrangement.
func (m *Model) unpinAll() {
	n := 0
	for _, node := range m.scn.LiveNodes() {
		if node.Pinned() {
			node.Unpin()
			n++
		}
	}
	if n == 0 {
		m.status = "no pinned nodes"
		return
	}
	m.sim.Reheat()
	m.status = fmt.Sprintf("unpinned %d node(s)", n)
}

func (m *Model) save() {
	if m.opts.SavePath == "" {
		m.status = "no file to write (open a graph file)"
		return
	}
	if err := loader.Save(m.opts.SavePath, m.currentSnapshot()); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.dirty = false
	m.status = "wrote " + m.opts.SavePath
}

// currentSnapshot is the last loaded document with live layout positions
// folded in, so saves capture what is on screen.
func (m *Model) currentSnapshot() graph.Snapshot {
	snap := graph.Snapshot{
		Nodes: make([]graph.Node, 0, len(m.lastSnap.Nodes)),
		Edges: append([]graph.Edge(nil), m.lastSnap.Edges...),
	}
	for _, n := range m.lastSnap.Nodes {
		if live, ok := m.scn.NodeByID(n.ID); ok {
			n.X, n.Y = live.X, live.Y
			n.FX, n.FY = nil, nil
			if live.Pinned() {
				fx, fy := *live.FX, *live.FY
				n.FX, n.FY = &fx, &fy
			}
		}
		snap.Nodes = append(snap.Nodes, n)
	}
	return snap
}

func (m *Model) archiveNow() {
	if m.opts.Archive == nil || !m.dirty {
		return
	}
	key := archive.Key(m.clock())
	if err := m.opts.Archive.Put(context.Background(), key, m.currentSnapshot()); err != nil {
		m.logger.Error("autosave failed", "key", key, "error", err)
		return
	}
	m.logger.Debug("autosaved", "key", key)
}

// quit tears the session down: pending debounced writes are discarded,
// then a final archive copy is taken if anything changed.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.moves.Discard()
	if m.auto != nil {
		m.auto.Discard()
		m.archiveNow()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) viewCenterWorld() (float64, float64) {
	sw, sh := cellToScreen(m.width, m.gridRows)
	return m.cam.ScreenToWorld(sw/2, sh/2)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return fmt.Sprintf("\n  %s initializing...", m.spin.View())
	}

	m.paint.paint(m.scn.Frame(m.clock()), m.cam.Transform())
	if menu := m.state.Menu(); menu.Visible {
		m.menu = layoutMenu(menu, m.scn.NodeLabelOf(menu.SourceNodeID), m.width, m.gridRows, m.menuCursor)
		m.paint.drawMenu(m.menu, m.menuCursor)
	} else {
		m.menu = menuLayout{}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.titleView(),
		m.paint.render(),
		m.statusView(),
		m.help.View(m.keys),
	)
}

func (m *Model) titleView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" plexus "))
	if m.loading {
		b.WriteString(" " + m.spin.View())
	}
	b.WriteString(subtleStyle.Render(fmt.Sprintf(" %d nodes · %d edges",
		len(m.scn.LiveNodes()), len(m.scn.LiveEdges()))))
	if m.sim.Settled() {
		b.WriteString(okStyle.Render(" • settled"))
	} else {
		b.WriteString(subtleStyle.Render(fmt.Sprintf(" • alpha %.3f", m.sim.Alpha())))
	}
	if m.dirty {
		b.WriteString(subtleStyle.Render(" • unsaved"))
	}
	return b.String()
}

func (m *Model) statusView() string {
	switch m.mode {
	case modeSearch:
		return statusStyle.Render(" / ") + m.input.View()
	case modePrompt:
		return statusStyle.Render(" new node: ") + m.input.View()
	}
	if m.err != nil {
		return errorStyle.Render(" " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(" " + m.status)
	}
	sel := m.state.Selection()
	switch sel.Kind {
	case interaction.SelectionNode:
		return statusStyle.Render(" node ") + subtleStyle.Render(m.scn.NodeLabelOf(sel.ID))
	case interaction.SelectionEdge:
		return statusStyle.Render(" edge ") + subtleStyle.Render(sel.ID)
	}
	return subtleStyle.Render(" drag nodes · right-click connects · / searches")
}

// hostSink applies gesture events against the store and mirrors them on
// the status line. Node moves arrive here already debounced.
type hostSink struct{ m *Model }

func (h hostSink) OnBackgroundClicked(x, y float64) {
	h.m.startCreate(x, y)
}

func (h hostSink) OnNodeSelected(nodeID string) {
	h.m.status = "node " + h.m.scn.NodeLabelOf(nodeID)
}

func (h hostSink) OnEdgeSelected(edgeID string) {
	h.m.status = "edge " + edgeID
}

func (h hostSink) OnNodeMoved(nodeID string, x, y float64) {
	h.m.mutate("moved node", func() error {
		return h.m.opts.Store.MoveNode(nodeID, x, y)
	})
}

func (h hostSink) OnCreateEdgeRequested(sourceID, targetID string) {
	h.m.mutate("created edge", func() error {
		_, err := h.m.opts.Store.CreateEdge(sourceID, targetID, "", true)
		return err
	})
}

func (h hostSink) OnDeleteEdgeRequested(edgeID string) {
	h.m.mutate("deleted edge", func() error {
		return h.m.opts.Store.DeleteEdge(edgeID)
	})
}

// sceneNavigator resolves deferred focus requests against the live scene,
// falling back to the current view center when the node is gone.
type sceneNavigator struct{ m *Model }

func (n sceneNavigator) CenterOnNode(nodeID string) {
	m := n.m
	if node, ok := m.scn.NodeByID(nodeID); ok {
		m.cam.CenterOnNode(node, m.opts.Camera.FocusScale, m.clock())
		return
	}
	wx, wy := m.viewCenterWorld()
	m.cam.CenterOnPoint(wx, wy, m.opts.Camera.FocusScale, m.clock())
}
