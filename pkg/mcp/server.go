// Package mcp exposes the graph store over the Model Context Protocol,
// so agents can read and edit the same document the canvas shows.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plexkit/plexus/pkg/store"
)

// Server adapts a GraphStore to the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	store     store.GraphStore
}

// NewServer creates a new MCP server instance over the given store.
func NewServer(st store.GraphStore) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"plexus",
			"1.0.0",
		),
		store: st,
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	// plexus://graph
	s.mcpServer.AddResource(mcp.NewResource(
		"plexus://graph",
		"Graph Document",
		mcp.WithResourceDescription("The full node-link graph: nodes with labels, types and positions, plus edges"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadGraph)
}

// --- Tools ---

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"get_graph",
		mcp.WithDescription("Return the full graph document as JSON"),
	), s.handleGetGraph)

	s.mcpServer.AddTool(mcp.NewTool(
		"create_node",
		mcp.WithDescription("Add a node to the graph. Returns the created node including its generated id."),
		mcp.WithString("label", mcp.Required(), mcp.Description("Display label")),
		mcp.WithString("type", mcp.Description("Node type, drives display color (e.g. 'service', 'database')")),
		mcp.WithNumber("x", mcp.Description("Initial x position (default 0, the layout will place it)")),
		mcp.WithNumber("y", mcp.Description("Initial y position (default 0)")),
	), s.handleCreateNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"move_node",
		mcp.WithDescription("Move a node to a fixed position. The node is pinned there until unpinned in the canvas."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("New x position")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("New y position")),
	), s.handleMoveNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"delete_node",
		mcp.WithDescription("Delete a node. Edges touching it are deleted too."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
	), s.handleDeleteNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"create_edge",
		mcp.WithDescription("Connect two existing nodes. Returns the created edge including its generated id."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source node id")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target node id")),
		mcp.WithString("label", mcp.Description("Edge label")),
		mcp.WithBoolean("directed", mcp.Description("Render with an arrow head (default false)")),
	), s.handleCreateEdge)

	s.mcpServer.AddTool(mcp.NewTool(
		"delete_edge",
		mcp.WithDescription("Delete a single edge"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Edge id")),
	), s.handleDeleteEdge)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"plexus-aware",
		mcp.WithPromptDescription("Provides context about the plexus graph document and editing tools"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.graphJSON()
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.graphJSON()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleCreateNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := mcp.ParseString(request, "label", "")
	typ := mcp.ParseString(request, "type", "")
	x := mcp.ParseFloat64(request, "x", 0)
	y := mcp.ParseFloat64(request, "y", 0)

	if label == "" {
		return mcp.NewToolResultError("label is required"), nil
	}

	n, err := s.store.CreateNode(label, typ, x, y)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store error: %v", err)), nil
	}

	data, err := json.Marshal(n)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal node: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleMoveNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")
	x := mcp.ParseFloat64(request, "x", 0)
	y := mcp.ParseFloat64(request, "y", 0)

	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.store.MoveNode(id, x, y); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("node %s pinned at (%g, %g)", id, x, y)), nil
}

func (s *Server) handleDeleteNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.store.DeleteNode(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("node %s deleted", id)), nil
}

func (s *Server) handleCreateEdge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := mcp.ParseString(request, "source", "")
	target := mcp.ParseString(request, "target", "")
	label := mcp.ParseString(request, "label", "")
	directed := mcp.ParseBoolean(request, "directed", false)

	if source == "" || target == "" {
		return mcp.NewToolResultError("source and target are required"), nil
	}

	e, err := s.store.CreateEdge(source, target, label, directed)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store error: %v", err)), nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal edge: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleDeleteEdge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.store.DeleteEdge(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("edge %s deleted", id)), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "plexus-aware" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are interacting with plexus, an interactive node-link graph canvas.

Concepts:
- Node: a vertex with a label, an optional type (drives its color), and a position.
- Edge: a connection between two nodes by id; directed edges render with an arrow.
- Pin: a node moved by hand (or via move_node) stays where it was put; unpinned nodes flow with the force layout.

Use get_graph (or the plexus://graph resource) to see the current document before editing.
Edits made through the tools show up live in any open canvas.
`

	return mcp.NewGetPromptResult(
		"plexus-aware",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}

func (s *Server) graphJSON() ([]byte, error) {
	snap, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}
	return data, nil
}
