package bridge

import (
	"time"

	"github.com/plexkit/plexus/pkg/gesture"
)

// Position is a node's reported world coordinate pair.
type Position struct {
	X, Y float64
}

// PositionBridge sits between the gesture controller and the host's
// event sink. Node move reports are debounced per node so continuous
// dragging produces one outbound call per quiet node instead of one per
// pointer event; every other event passes straight through.
type PositionBridge struct {
	inner gesture.EventSink
	deb   *Debouncer[string, Position]
	now   func() time.Time
}

// NewPositionBridge wraps inner with a move-report debounce window. A
// nil clock uses time.Now.
func NewPositionBridge(window time.Duration, inner gesture.EventSink, clock func() time.Time) *PositionBridge {
	if inner == nil {
		inner = gesture.NopSink{}
	}
	if clock == nil {
		clock = time.Now
	}
	b := &PositionBridge{inner: inner, now: clock}
	b.deb = NewDebouncer(window, func(id string, p Position) {
		b.inner.OnNodeMoved(id, p.X, p.Y)
	})
	return b
}

// OnNodeMoved records the move and restarts the node's quiescence
// window instead of reporting immediately.
func (b *PositionBridge) OnNodeMoved(nodeID string, x, y float64) {
	b.deb.Call(nodeID, Position{X: x, Y: y}, b.now())
}

// Flush delivers moves whose window elapsed. The canvas calls this once
// per frame.
func (b *PositionBridge) Flush(now time.Time) int {
	return b.deb.Flush(now)
}

// Discard drops undelivered moves, as canvas teardown does.
func (b *PositionBridge) Discard() {
	b.deb.Discard()
}

func (b *PositionBridge) OnBackgroundClicked(x, y float64) {
	b.inner.OnBackgroundClicked(x, y)
}

func (b *PositionBridge) OnNodeSelected(nodeID string) {
	b.inner.OnNodeSelected(nodeID)
}

func (b *PositionBridge) OnEdgeSelected(edgeID string) {
	b.inner.OnEdgeSelected(edgeID)
}

func (b *PositionBridge) OnCreateEdgeRequested(sourceID, targetID string) {
	b.inner.OnCreateEdgeRequested(sourceID, targetID)
}

func (b *PositionBridge) OnDeleteEdgeRequested(edgeID string) {
	b.inner.OnDeleteEdgeRequested(edgeID)
}
