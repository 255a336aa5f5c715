package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/frost"
	"github.com/aretw0/frost/pkg/domain"
	persistence "github.com/aretw0/frost/pkg/persistence/middleware"
	"github.com/aretw0/frost/pkg/ports"
)

// PendingResponse is the structured result of has_pending.
type PendingResponse struct {
	Session string `json:"session" jsonschema_description:"The session that was checked"`
	Pending bool   `json:"pending" jsonschema_description:"True when a payload with at least one branch is stored"`
}

// SessionArgs is the argument set shared by every tool.
type SessionArgs struct {
	Session string `json:"session"`
}

// Engine defines the payload operations exposed over MCP.
type Engine interface {
	Inspect(ctx context.Context, storage ports.Storage) (*domain.Payload, error)
	Flush(ctx context.Context, storage ports.Storage) error
	HasPending(ctx context.Context, storage ports.Storage) (bool, error)
}

// Sessions runs a function against a session-scoped storage under its lock.
type Sessions interface {
	Do(ctx context.Context, sessionID string, fn func(context.Context, ports.Storage) error) error
}

// ClassLister exposes the registered class tags.
type ClassLister interface {
	Tags() []string
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	sessions  Sessions
	classes   ClassLister
	view      persistence.Middleware
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithClasses publishes the registered class tags as a resource.
func WithClasses(c ClassLister) Option {
	return func(s *Server) {
		s.classes = c
	}
}

// WithView wraps session storage for inspect_payload, e.g. with redaction.
func WithView(mw persistence.Middleware) Option {
	return func(s *Server) {
		s.view = mw
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, sessions Sessions, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("frost-mcp", strings.TrimSpace(frost.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: inspect_payload
	s.mcpServer.AddTool(mcp.NewTool("inspect_payload",
		mcp.WithDescription("Show the frozen branches and fields stored for a session without consuming them."),
		mcp.WithString("session", mcp.Required(), mcp.Description("Session ID")),
	), s.handleInspect)

	// TOOL: flush_payload
	s.mcpServer.AddTool(mcp.NewTool("flush_payload",
		mcp.WithDescription("Delete the frozen payload of a session. The next request starts from a fresh skeleton."),
		mcp.WithString("session", mcp.Required(), mcp.Description("Session ID")),
	), s.handleFlush)

	// TOOL: has_pending
	s.mcpServer.AddTool(mcp.NewTool("has_pending",
		mcp.WithDescription("Report whether a session has frozen branches waiting to be thawed."),
		mcp.WithString("session", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[PendingResponse](),
	), mcp.NewStructuredToolHandler(s.handlePending))
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var payload *domain.Payload
	err = s.sessions.Do(ctx, id, func(ctx context.Context, storage ports.Storage) error {
		if s.view != nil {
			storage = s.view(storage)
		}
		var err error
		payload, err = s.engine.Inspect(ctx, storage)
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	if payload == nil {
		return mcp.NewToolResultText(fmt.Sprintf("session %q has no pending payload", id)), nil
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleFlush(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = s.sessions.Do(ctx, id, func(ctx context.Context, storage ports.Storage) error {
		return s.engine.Flush(ctx, storage)
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("flush failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("flushed session %q", id)), nil
}

func (s *Server) handlePending(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (PendingResponse, error) {
	if args.Session == "" {
		return PendingResponse{}, fmt.Errorf("session is required")
	}

	var pending bool
	err := s.sessions.Do(ctx, args.Session, func(ctx context.Context, storage ports.Storage) error {
		var err error
		pending, err = s.engine.HasPending(ctx, storage)
		return err
	})
	if err != nil {
		return PendingResponse{}, fmt.Errorf("has_pending failed: %w", err)
	}
	return PendingResponse{Session: args.Session, Pending: pending}, nil
}

func (s *Server) registerResources() {
	if s.classes == nil {
		return
	}
	// EXPOSE: frost://classes
	s.mcpServer.AddResource(mcp.NewResource("frost://classes", "Registered Class Tags",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.classes.Tags())
		if err != nil {
			return nil, fmt.Errorf("failed to encode class tags: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "frost://classes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
