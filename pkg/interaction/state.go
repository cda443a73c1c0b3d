// Package interaction holds the canvas interaction state: the current
// selection, the search highlight set, and the context menu. It is pure
// data, written by the gesture controller and the host's search box,
// and read by the scene synchronizer for styling.
package interaction

// SelectionKind says what kind of entity is selected, if any.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionNode
	SelectionEdge
)

// Selection identifies the selected entity. At most one entity is
// selected at a time.
type Selection struct {
	Kind SelectionKind
	ID   string
}

// ConnectedEntry is one row of the context menu's connected list: a
// neighbor of the menu's source node together with the edge that joins
// them and its direction.
type ConnectedEntry struct {
	NodeID   string
	Label    string
	EdgeID   string
	Outgoing bool
}

// UnconnectedEntry is one row of the context menu's unconnected list: a
// candidate for edge creation from the source node.
type UnconnectedEntry struct {
	NodeID string
	Label  string
}

// ContextMenu is the open context menu, anchored at screen coordinates.
// Only meaningful while Visible is true.
type ContextMenu struct {
	Visible      bool
	ScreenX      float64
	ScreenY      float64
	SourceNodeID string
	Connected    []ConnectedEntry
	Unconnected  []UnconnectedEntry
}

// State is the interaction state holder. Not safe for concurrent use.
type State struct {
	selection  Selection
	highlights map[string]struct{}
	menu       ContextMenu
}

// NewState returns an empty interaction state.
func NewState() *State {
	return &State{highlights: map[string]struct{}{}}
}

// SelectNode makes the node the sole selection.
func (s *State) SelectNode(id string) {
	s.selection = Selection{Kind: SelectionNode, ID: id}
}

// SelectEdge makes the edge the sole selection.
func (s *State) SelectEdge(id string) {
	s.selection = Selection{Kind: SelectionEdge, ID: id}
}

// ClearSelection empties the selection.
func (s *State) ClearSelection() {
	s.selection = Selection{}
}

// Selection returns the current selection.
func (s *State) Selection() Selection { return s.selection }

// SetHighlights replaces the highlight set wholesale, as each new search
// result does.
func (s *State) SetHighlights(ids []string) {
	s.highlights = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.highlights[id] = struct{}{}
	}
}

// ClearHighlights empties the highlight set.
func (s *State) ClearHighlights() {
	s.highlights = map[string]struct{}{}
}

// Highlighted reports whether the node is in the highlight set.
func (s *State) Highlighted(id string) bool {
	_, ok := s.highlights[id]
	return ok
}

// HighlightCount returns the size of the highlight set.
func (s *State) HighlightCount() int { return len(s.highlights) }

// OpenMenu replaces the context menu state and marks it visible.
func (s *State) OpenMenu(m ContextMenu) {
	m.Visible = true
	s.menu = m
}

// CloseMenu hides the context menu.
func (s *State) CloseMenu() {
	s.menu = ContextMenu{}
}

// Menu returns the current context menu state.
func (s *State) Menu() ContextMenu { return s.menu }

// Prune drops state that refers to entities no longer in the graph: a
// selection of a deleted entity is cleared, highlights of deleted nodes
// are removed, and a menu whose source node vanished is closed.
func (s *State) Prune(hasNode, hasEdge func(id string) bool) {
	switch s.selection.Kind {
	case SelectionNode:
		if !hasNode(s.selection.ID) {
			s.ClearSelection()
		}
	case SelectionEdge:
		if !hasEdge(s.selection.ID) {
			s.ClearSelection()
		}
	}

	for id := range s.highlights {
		if !hasNode(id) {
			delete(s.highlights, id)
		}
	}

	if s.menu.Visible && !hasNode(s.menu.SourceNodeID) {
		s.CloseMenu()
	}
}
