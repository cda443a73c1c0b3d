package sample

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func TestGraphIsDeterministic(t *testing.T) {
	a := Graph(42, 4, 4)
	b := Graph(42, 4, 4)

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed must produce the same graph")
	}

	c := Graph(43, 4, 4)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds should produce different graphs")
	}
}

func TestGraphIsStructurallySound(t *testing.T) {
	snap := Graph(7, 4, 4)

	wantNodes := 4 * (1 + 4)
	if len(snap.Nodes) != wantNodes {
		t.Errorf("expected %d nodes, got %d", wantNodes, len(snap.Nodes))
	}
	if len(snap.Edges) < 4*4 {
		t.Errorf("expected at least the %d hub-member edges, got %d", 4*4, len(snap.Edges))
	}

	// Sanitizing a generated graph must be a no-op: ids unique, every
	// edge endpoint resolvable.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clean := snap.Sanitize(logger)
	if len(clean.Nodes) != len(snap.Nodes) || len(clean.Edges) != len(snap.Edges) {
		t.Errorf("generated graph lost items to sanitize: %d/%d nodes, %d/%d edges",
			len(clean.Nodes), len(snap.Nodes), len(clean.Edges), len(snap.Edges))
	}
}

func TestGraphClampsDegenerateArguments(t *testing.T) {
	snap := Graph(1, 0, -3)

	if len(snap.Nodes) != 1 {
		t.Errorf("expected a single hub for clusters=0, got %d nodes", len(snap.Nodes))
	}
	if len(snap.Edges) != 0 {
		t.Errorf("expected no edges for perCluster<0, got %d", len(snap.Edges))
	}
}

func TestMemberKindsVary(t *testing.T) {
	memberKinds := map[string]bool{}
	for _, n := range Graph(11, 8, 6).Nodes {
		if n.Type != "service" {
			memberKinds[n.Type] = true
		}
	}
	// 48 samples spread across the noise field cannot all land in one
	// kind band.
	if len(memberKinds) < 2 {
		t.Errorf("expected varied member kinds, got %v", memberKinds)
	}

	for kind := range memberKinds {
		switch kind {
		case "database", "cache", "queue", "user":
		default:
			t.Errorf("unexpected member kind %q", kind)
		}
	}
}
