package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/compass/pkg/registry"
)

// WorkspaceListResource defines the readable workspace listing resource.
func WorkspaceListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "workspace_list",
		Title:       "Workspaces",
		Description: "Readable listing of registered workspaces",
		MIMEType:    "application/json",
		URI:         "workspaces://list",
	}
}

// WorkspaceListResourceHandler returns the registered workspaces as a JSON
// resource.
func WorkspaceListResourceHandler(reg *registry.Registry) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := WorkspaceListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		payload := WorkspaceListResult{}
		for _, ws := range reg.List() {
			payload.Workspaces = append(payload.Workspaces, workspaceEntry(ws))
		}
		return jsonResource(uri, payload)
	}
}

// GoalSummariesResource defines the readable goal summaries resource for the
// active workspace.
func GoalSummariesResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "goal_summaries",
		Title:       "Goal summaries",
		Description: "Goal names and plan-derived descriptions for the active workspace",
		MIMEType:    "application/json",
		URI:         "goals://summaries",
	}
}

// GoalSummariesResourceHandler returns goal summaries for the workspace most
// recently activated this session.
func GoalSummariesResourceHandler(reg *registry.Registry) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := GoalSummariesResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		ws, ok := reg.ActiveWorkspace()
		if !ok {
			return nil, fmt.Errorf("no workspace has been activated this session")
		}
		store, err := storeFor(reg, ws.Name)
		if err != nil {
			return nil, mapErr(err)
		}
		summaries, err := store.GoalSummaries()
		if err != nil {
			return nil, mapErr(err)
		}

		payload := GoalSummariesResult{}
		for _, s := range summaries {
			payload.Summaries = append(payload.Summaries, SummaryEntry{Name: s.Name, Description: s.Description})
		}
		return jsonResource(uri, payload)
	}
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
