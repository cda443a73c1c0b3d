package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/plexkit/plexus/pkg/graph"
	"github.com/plexkit/plexus/pkg/store"
)

func seededServer() (*Server, *store.MemoryStore) {
	st := store.NewMemoryStoreFrom(graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "a", Label: "alpha", Type: "service", X: 10, Y: 20},
			{ID: "b", Label: "beta", Type: "database", X: 30, Y: 40},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "a", Target: "b", Directed: true},
		},
	})
	return NewServer(st), st
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool returned error: %+v", result.Content)
	}
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestMCPServer_ReadGraph(t *testing.T) {
	s, _ := seededServer()

	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: "plexus://graph",
		},
	}

	result, err := s.handleReadGraph(context.Background(), req)
	if err != nil {
		t.Fatalf("handleReadGraph failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("Expected 1 resource content, got %d", len(result))
	}

	content, ok := result[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("Expected TextResourceContents")
	}
	if content.MIMEType != "application/json" {
		t.Errorf("Expected application/json, got %s", content.MIMEType)
	}

	var snap graph.Snapshot
	if err := json.Unmarshal([]byte(content.Text), &snap); err != nil {
		t.Fatalf("Failed to parse result JSON: %v", err)
	}
	if len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
		t.Errorf("got %d nodes and %d edges, want 2 and 1", len(snap.Nodes), len(snap.Edges))
	}
}

func TestMCPServer_CreateNode(t *testing.T) {
	s, st := seededServer()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "create_node",
			Arguments: map[string]interface{}{
				"label": "gateway",
				"type":  "service",
				"x":     50.0,
				"y":     60.0,
			},
		},
	}

	result, err := s.handleCreateNode(context.Background(), req)
	if err != nil {
		t.Fatalf("handleCreateNode failed: %v", err)
	}

	var n graph.Node
	if err := json.Unmarshal([]byte(toolText(t, result)), &n); err != nil {
		t.Fatalf("Failed to parse created node: %v", err)
	}
	if n.ID == "" || n.Label != "gateway" || n.X != 50 {
		t.Errorf("created node = %+v, want generated id, label gateway, x 50", n)
	}

	snap, _ := st.Load()
	if len(snap.Nodes) != 3 {
		t.Errorf("store has %d nodes, want 3", len(snap.Nodes))
	}
}

func TestMCPServer_CreateNodeRequiresLabel(t *testing.T) {
	s, _ := seededServer()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "create_node",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := s.handleCreateNode(context.Background(), req)
	if err != nil {
		t.Fatalf("handleCreateNode failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for missing label")
	}
}

func TestMCPServer_MoveNodePins(t *testing.T) {
	s, st := seededServer()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "move_node",
			Arguments: map[string]interface{}{
				"id": "a",
				"x":  99.0,
				"y":  88.0,
			},
		},
	}

	result, err := s.handleMoveNode(context.Background(), req)
	if err != nil {
		t.Fatalf("handleMoveNode failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %+v", result.Content)
	}

	snap, _ := st.Load()
	for _, n := range snap.Nodes {
		if n.ID != "a" {
			continue
		}
		if n.X != 99 || n.Y != 88 || !n.Pinned() {
			t.Errorf("moved node = %+v, want pinned at (99, 88)", n)
		}
	}
}

func TestMCPServer_MoveUnknownNode(t *testing.T) {
	s, _ := seededServer()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "move_node",
			Arguments: map[string]interface{}{
				"id": "nope", "x": 0.0, "y": 0.0,
			},
		},
	}

	result, err := s.handleMoveNode(context.Background(), req)
	if err != nil {
		t.Fatalf("handleMoveNode failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for unknown id")
	}
}

func TestMCPServer_DeleteNodeCascades(t *testing.T) {
	s, st := seededServer()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "delete_node",
			Arguments: map[string]interface{}{"id": "a"},
		},
	}

	result, err := s.handleDeleteNode(context.Background(), req)
	if err != nil {
		t.Fatalf("handleDeleteNode failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %+v", result.Content)
	}

	snap, _ := st.Load()
	if len(snap.Nodes) != 1 || len(snap.Edges) != 0 {
		t.Errorf("got %d nodes and %d edges after delete, want 1 and 0", len(snap.Nodes), len(snap.Edges))
	}
}

func TestMCPServer_CreateAndDeleteEdge(t *testing.T) {
	s, st := seededServer()

	createReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "create_edge",
			Arguments: map[string]interface{}{
				"source":   "b",
				"target":   "a",
				"label":    "reads",
				"directed": true,
			},
		},
	}

	result, err := s.handleCreateEdge(context.Background(), createReq)
	if err != nil {
		t.Fatalf("handleCreateEdge failed: %v", err)
	}

	var e graph.Edge
	if err := json.Unmarshal([]byte(toolText(t, result)), &e); err != nil {
		t.Fatalf("Failed to parse created edge: %v", err)
	}
	if e.ID == "" || e.Source != "b" || e.Target != "a" || !e.Directed {
		t.Errorf("created edge = %+v", e)
	}

	deleteReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "delete_edge",
			Arguments: map[string]interface{}{"id": e.ID},
		},
	}
	result, err = s.handleDeleteEdge(context.Background(), deleteReq)
	if err != nil {
		t.Fatalf("handleDeleteEdge failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %+v", result.Content)
	}

	snap, _ := st.Load()
	if len(snap.Edges) != 1 {
		t.Errorf("store has %d edges, want the original 1", len(snap.Edges))
	}
}

func TestMCPServer_EdgeEndpointsMustExist(t *testing.T) {
	s, _ := seededServer()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "create_edge",
			Arguments: map[string]interface{}{
				"source": "a",
				"target": "ghost",
			},
		},
	}

	result, err := s.handleCreateEdge(context.Background(), req)
	if err != nil {
		t.Fatalf("handleCreateEdge failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for missing endpoint")
	}
}

func TestMCPServer_GetPrompt(t *testing.T) {
	s, _ := seededServer()

	req := mcp.GetPromptRequest{}
	req.Params.Name = "plexus-aware"

	result, err := s.handleGetPrompt(context.Background(), req)
	if err != nil {
		t.Fatalf("handleGetPrompt failed: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("Expected 1 prompt message, got %d", len(result.Messages))
	}

	if _, err := s.handleGetPrompt(context.Background(), mcp.GetPromptRequest{}); err == nil {
		t.Error("Expected error for unknown prompt name")
	}
}
