// Package mcp exposes the Compass persistence core over the Model Context
// Protocol. Each core operation is surfaced as a named tool; read-only
// listings are also published as resources. The package owns protocol framing
// only — all invariants live in the registry and goal store.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/compass/pkg/config"
	"github.com/entrhq/compass/pkg/goal"
	"github.com/entrhq/compass/pkg/logging"
	"github.com/entrhq/compass/pkg/registry"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Compass"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP server over a workspace registry.
type Server struct {
	mcpServer *mcp.Server
	reg       *registry.Registry
	log       *logging.Logger
}

// New creates a configured MCP server. The registry must already be
// initialized. Tools whose names are excluded by the config tool filter are
// not registered.
func New(cfg config.Config, reg *registry.Registry, logger *logging.Logger) (*Server, error) {
	match, err := cfg.ToolMatcher()
	if err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	s := &Server{mcpServer: mcpServer, reg: reg, log: logger}

	addTool(s, match, WorkspaceListTool(), WorkspaceListHandler(reg))
	addTool(s, match, WorkspaceCreateTool(), WorkspaceCreateHandler(reg))
	addTool(s, match, WorkspaceActivateTool(), WorkspaceActivateHandler(reg))
	addTool(s, match, GoalCreateTool(), GoalCreateHandler(reg))
	addTool(s, match, GoalListTool(), GoalListHandler(reg))
	addTool(s, match, GoalSummariesTool(), GoalSummariesHandler(reg))
	addTool(s, match, GoalSetActiveTool(), GoalSetActiveHandler(reg))
	addTool(s, match, GoalGetActiveTool(), GoalGetActiveHandler(reg))
	addTool(s, match, PlanGetTool(), PlanGetHandler(reg))
	addTool(s, match, PlanUpdateTool(), PlanUpdateHandler(reg))
	addTool(s, match, LearningAddTool(), LearningAddHandler(reg))
	addTool(s, match, LearningListTool(), LearningListHandler(reg))
	addTool(s, match, LearningGetTool(), LearningGetHandler(reg))

	mcpServer.AddResource(WorkspaceListResource(), WorkspaceListResourceHandler(reg))
	mcpServer.AddResource(GoalSummariesResource(), GoalSummariesResourceHandler(reg))

	return s, nil
}

// addTool registers a tool unless the configured filter excludes it.
func addTool[In, Out any](s *Server, match func(string) bool, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) {
	if !match(tool.Name) {
		if s.log != nil {
			s.log.Debugf("tool %s excluded by filter", tool.Name)
		}
		return
	}
	mcp.AddTool(s.mcpServer, tool, handler)
}

// Serve runs the MCP server on stdio until it stops or the context ends. A
// context cancellation is a clean shutdown, not an error.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if s.log != nil {
		s.log.Infof("serving MCP on stdio")
	}
	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// storeFor resolves a workspace name through the registry and roots an
// initialized goal store at the registered path. An unreachable path surfaces
// here, when the store bootstraps its hierarchy.
func storeFor(reg *registry.Registry, workspace string) (*goal.Store, error) {
	ws, err := reg.Get(workspace)
	if err != nil {
		return nil, err
	}
	store := goal.NewStore(ws.Path)
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

// mapErr prefixes core sentinel failures with stable client-facing markers.
// Other errors pass through unmodified.
func mapErr(err error) error {
	switch {
	case errors.Is(err, goal.ErrNotFound), errors.Is(err, registry.ErrNotFound):
		return fmt.Errorf("not found: %w", err)
	case errors.Is(err, goal.ErrAlreadyExists), errors.Is(err, registry.ErrAlreadyExists):
		return fmt.Errorf("already exists: %w", err)
	case errors.Is(err, goal.ErrInvalidName):
		return fmt.Errorf("invalid name: %w", err)
	}
	return err
}
