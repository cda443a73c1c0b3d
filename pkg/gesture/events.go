package gesture

// EventSink receives the domain events the canvas raises upward. The
// canvas never mutates the authoritative graph itself: the host is
// expected to translate these events into store calls and feed the
// resulting snapshot back into the scene.
type EventSink interface {
	// OnBackgroundClicked reports a click on empty canvas in world
	// coordinates, typically used to create a node there.
	OnBackgroundClicked(x, y float64)
	// OnNodeSelected and OnEdgeSelected report selection changes.
	OnNodeSelected(nodeID string)
	OnEdgeSelected(edgeID string)
	// OnNodeMoved reports the final position of a completed drag.
	OnNodeMoved(nodeID string, x, y float64)
	// OnCreateEdgeRequested asks the host to connect two nodes.
	OnCreateEdgeRequested(sourceID, targetID string)
	// OnDeleteEdgeRequested asks the host to remove an edge.
	OnDeleteEdgeRequested(edgeID string)
}

// NopSink discards every event. Useful as a default and in tests.
type NopSink struct{}

func (NopSink) OnBackgroundClicked(x, y float64)              {}
func (NopSink) OnNodeSelected(nodeID string)                  {}
func (NopSink) OnEdgeSelected(edgeID string)                  {}
func (NopSink) OnNodeMoved(nodeID string, x, y float64)       {}
func (NopSink) OnCreateEdgeRequested(sourceID, targetID string) {}
func (NopSink) OnDeleteEdgeRequested(edgeID string)           {}
