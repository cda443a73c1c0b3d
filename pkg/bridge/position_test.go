package bridge

import (
	"testing"
	"time"
)

type movesSink struct {
	moves  []move
	clicks int
}

type move struct {
	id   string
	x, y float64
}

func (s *movesSink) OnBackgroundClicked(x, y float64)                {}
func (s *movesSink) OnNodeSelected(nodeID string)                    { s.clicks++ }
func (s *movesSink) OnEdgeSelected(edgeID string)                    {}
func (s *movesSink) OnCreateEdgeRequested(sourceID, targetID string) {}
func (s *movesSink) OnDeleteEdgeRequested(edgeID string)             {}
func (s *movesSink) OnNodeMoved(id string, x, y float64) {
	s.moves = append(s.moves, move{id: id, x: x, y: y})
}

func TestDragBurstProducesOneMove(t *testing.T) {
	now := t0
	sink := &movesSink{}
	b := NewPositionBridge(500*time.Millisecond, sink, func() time.Time { return now })

	for i := 0; i < 20; i++ {
		now = now.Add(16 * time.Millisecond)
		b.OnNodeMoved("a", float64(i), float64(i*2))
	}
	b.Flush(now)
	if len(sink.moves) != 0 {
		t.Fatalf("moves reported while the drag was still active: %+v", sink.moves)
	}

	b.Flush(now.Add(time.Second))
	if len(sink.moves) != 1 {
		t.Fatalf("expected exactly 1 move report, got %d", len(sink.moves))
	}
	if m := sink.moves[0]; m.id != "a" || m.x != 19 || m.y != 38 {
		t.Fatalf("expected final coordinates, got %+v", m)
	}
}

func TestOtherEventsPassThroughImmediately(t *testing.T) {
	sink := &movesSink{}
	b := NewPositionBridge(500*time.Millisecond, sink, func() time.Time { return t0 })

	b.OnNodeSelected("a")
	if sink.clicks != 1 {
		t.Fatal("selection event was delayed by the bridge")
	}
}

func TestTeardownDiscardsPendingMoves(t *testing.T) {
	sink := &movesSink{}
	b := NewPositionBridge(500*time.Millisecond, sink, func() time.Time { return t0 })

	b.OnNodeMoved("a", 1, 2)
	b.Discard()
	b.Flush(t0.Add(time.Hour))

	if len(sink.moves) != 0 {
		t.Fatalf("discarded move still delivered: %+v", sink.moves)
	}
}
