package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/compass/pkg/registry"
)

// WorkspaceEntry represents a registered workspace in tool output.
type WorkspaceEntry struct {
	Name       string `json:"name" jsonschema:"workspace name"`
	Path       string `json:"path" jsonschema:"workspace root path"`
	LastActive string `json:"last_active" jsonschema:"last activation timestamp"`
}

func workspaceEntry(ws registry.Workspace) WorkspaceEntry {
	return WorkspaceEntry{Name: ws.Name, Path: ws.Path, LastActive: ws.LastActive}
}

// WorkspaceListInput represents the MCP tool input for listing workspaces.
type WorkspaceListInput struct{}

// WorkspaceListResult represents the MCP tool output for listing workspaces.
type WorkspaceListResult struct {
	Workspaces []WorkspaceEntry `json:"workspaces"`
}

// WorkspaceListTool defines the MCP tool schema for listing workspaces.
func WorkspaceListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "workspace_list",
		Description: "Lists registered workspaces, most recently active first",
	}
}

// WorkspaceListHandler executes a workspace listing request.
func WorkspaceListHandler(reg *registry.Registry) mcp.ToolHandlerFor[WorkspaceListInput, WorkspaceListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ WorkspaceListInput) (*mcp.CallToolResult, WorkspaceListResult, error) {
		result := WorkspaceListResult{}
		for _, ws := range reg.List() {
			result.Workspaces = append(result.Workspaces, workspaceEntry(ws))
		}
		return nil, result, nil
	}
}

// WorkspaceCreateInput represents the MCP tool input for registering a
// workspace.
type WorkspaceCreateInput struct {
	Name string `json:"name" jsonschema:"unique workspace name"`
	Path string `json:"path" jsonschema:"absolute path to the workspace root"`
}

// WorkspaceCreateResult represents the MCP tool output for registering a
// workspace.
type WorkspaceCreateResult struct {
	Workspace WorkspaceEntry `json:"workspace"`
}

// WorkspaceCreateTool defines the MCP tool schema for registering workspaces.
func WorkspaceCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "workspace_create",
		Description: "Registers a new named workspace pointing at a directory",
	}
}

// WorkspaceCreateHandler executes a workspace registration request.
func WorkspaceCreateHandler(reg *registry.Registry) mcp.ToolHandlerFor[WorkspaceCreateInput, WorkspaceCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WorkspaceCreateInput) (*mcp.CallToolResult, WorkspaceCreateResult, error) {
		ws, err := reg.Create(input.Name, input.Path)
		if err != nil {
			return nil, WorkspaceCreateResult{}, mapErr(err)
		}
		return nil, WorkspaceCreateResult{Workspace: workspaceEntry(ws)}, nil
	}
}

// WorkspaceActivateInput represents the MCP tool input for activating a
// workspace.
type WorkspaceActivateInput struct {
	Name string `json:"name" jsonschema:"workspace name"`
}

// WorkspaceActivateResult represents the MCP tool output for activating a
// workspace.
type WorkspaceActivateResult struct {
	Workspace WorkspaceEntry `json:"workspace"`
}

// WorkspaceActivateTool defines the MCP tool schema for activating a
// workspace.
func WorkspaceActivateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "workspace_activate",
		Description: "Marks a workspace as the active one and refreshes its last-active timestamp",
	}
}

// WorkspaceActivateHandler executes a workspace activation request.
func WorkspaceActivateHandler(reg *registry.Registry) mcp.ToolHandlerFor[WorkspaceActivateInput, WorkspaceActivateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WorkspaceActivateInput) (*mcp.CallToolResult, WorkspaceActivateResult, error) {
		ws, err := reg.Touch(input.Name)
		if err != nil {
			return nil, WorkspaceActivateResult{}, mapErr(err)
		}
		return nil, WorkspaceActivateResult{Workspace: workspaceEntry(ws)}, nil
	}
}
