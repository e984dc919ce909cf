package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/compass/pkg/registry"
)

// PlanGetInput represents the MCP tool input for reading a plan.
type PlanGetInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
	Goal      string `json:"goal" jsonschema:"goal name"`
}

// PlanGetResult represents the MCP tool output for reading a plan. Found is
// false when the goal does not exist.
type PlanGetResult struct {
	Found bool   `json:"found" jsonschema:"whether the goal exists"`
	Plan  string `json:"plan" jsonschema:"the plan markdown, empty when not found"`
}

// PlanGetTool defines the MCP tool schema for reading plans.
func PlanGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "plan_get",
		Description: "Reads a goal's plan document",
	}
}

// PlanGetHandler executes a plan read request.
func PlanGetHandler(reg *registry.Registry) mcp.ToolHandlerFor[PlanGetInput, PlanGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlanGetInput) (*mcp.CallToolResult, PlanGetResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, PlanGetResult{}, mapErr(err)
		}
		plan, ok, err := store.Plan(input.Goal)
		if err != nil {
			return nil, PlanGetResult{}, mapErr(err)
		}
		return nil, PlanGetResult{Found: ok, Plan: plan}, nil
	}
}

// PlanUpdateInput represents the MCP tool input for overwriting a plan.
type PlanUpdateInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
	Goal      string `json:"goal" jsonschema:"goal name"`
	Plan      string `json:"plan" jsonschema:"replacement plan markdown"`
}

// PlanUpdateResult represents the MCP tool output for overwriting a plan.
type PlanUpdateResult struct {
	Goal string `json:"goal" jsonschema:"the updated goal"`
}

// PlanUpdateTool defines the MCP tool schema for overwriting plans.
func PlanUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "plan_update",
		Description: "Overwrites a goal's plan document",
	}
}

// PlanUpdateHandler executes a plan update request.
func PlanUpdateHandler(reg *registry.Registry) mcp.ToolHandlerFor[PlanUpdateInput, PlanUpdateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlanUpdateInput) (*mcp.CallToolResult, PlanUpdateResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, PlanUpdateResult{}, mapErr(err)
		}
		if err := store.UpdatePlan(input.Goal, input.Plan); err != nil {
			return nil, PlanUpdateResult{}, mapErr(err)
		}
		return nil, PlanUpdateResult{Goal: input.Goal}, nil
	}
}
