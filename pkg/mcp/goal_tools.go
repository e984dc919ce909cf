package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/compass/pkg/goal"
	"github.com/entrhq/compass/pkg/registry"
)

// GoalCreateInput represents the MCP tool input for creating a goal.
type GoalCreateInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
	Name      string `json:"name" jsonschema:"goal name, used as its directory name"`
	Plan      string `json:"plan" jsonschema:"initial plan markdown, may be empty"`
}

// GoalCreateResult represents the MCP tool output for creating a goal.
type GoalCreateResult struct {
	Name      string `json:"name" jsonschema:"goal name"`
	CreatedAt string `json:"created_at" jsonschema:"creation timestamp"`
	UpdatedAt string `json:"updated_at" jsonschema:"last update timestamp"`
}

// GoalCreateTool defines the MCP tool schema for creating goals.
func GoalCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_create",
		Description: "Creates a goal with an initial plan document in a workspace",
	}
}

// GoalCreateHandler executes a goal creation request.
func GoalCreateHandler(reg *registry.Registry) mcp.ToolHandlerFor[GoalCreateInput, GoalCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalCreateInput) (*mcp.CallToolResult, GoalCreateResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, GoalCreateResult{}, mapErr(err)
		}
		g, err := store.CreateGoal(input.Name, input.Plan)
		if err != nil {
			return nil, GoalCreateResult{}, mapErr(err)
		}
		return nil, GoalCreateResult{
			Name:      g.Name,
			CreatedAt: g.CreatedAt.Format(goal.TimeFormat),
			UpdatedAt: g.UpdatedAt.Format(goal.TimeFormat),
		}, nil
	}
}

// GoalListInput represents the MCP tool input for listing goals.
type GoalListInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
}

// GoalListResult represents the MCP tool output for listing goals.
type GoalListResult struct {
	Goals []string `json:"goals"`
}

// GoalListTool defines the MCP tool schema for listing goals.
func GoalListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_list",
		Description: "Lists the goal names in a workspace",
	}
}

// GoalListHandler executes a goal listing request.
func GoalListHandler(reg *registry.Registry) mcp.ToolHandlerFor[GoalListInput, GoalListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalListInput) (*mcp.CallToolResult, GoalListResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, GoalListResult{}, mapErr(err)
		}
		names, err := store.ListGoals()
		if err != nil {
			return nil, GoalListResult{}, mapErr(err)
		}
		return nil, GoalListResult{Goals: names}, nil
	}
}

// SummaryEntry pairs a goal name with its extracted description. Description
// is omitted for goals whose plan has no summarizable shape.
type SummaryEntry struct {
	Name        string  `json:"name" jsonschema:"goal name"`
	Description *string `json:"description,omitempty" jsonschema:"summary from the plan's heading and first paragraph"`
}

// GoalSummariesInput represents the MCP tool input for goal summaries.
type GoalSummariesInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
}

// GoalSummariesResult represents the MCP tool output for goal summaries.
type GoalSummariesResult struct {
	Summaries []SummaryEntry `json:"summaries"`
}

// GoalSummariesTool defines the MCP tool schema for goal summaries.
func GoalSummariesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_summaries",
		Description: "Lists every goal in a workspace with a short description derived from its plan",
	}
}

// GoalSummariesHandler executes a goal summaries request.
func GoalSummariesHandler(reg *registry.Registry) mcp.ToolHandlerFor[GoalSummariesInput, GoalSummariesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalSummariesInput) (*mcp.CallToolResult, GoalSummariesResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, GoalSummariesResult{}, mapErr(err)
		}
		summaries, err := store.GoalSummaries()
		if err != nil {
			return nil, GoalSummariesResult{}, mapErr(err)
		}
		result := GoalSummariesResult{}
		for _, s := range summaries {
			result.Summaries = append(result.Summaries, SummaryEntry{Name: s.Name, Description: s.Description})
		}
		return nil, result, nil
	}
}

// GoalSetActiveInput represents the MCP tool input for setting the active
// goal.
type GoalSetActiveInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
	Name      string `json:"name" jsonschema:"goal name"`
}

// GoalSetActiveResult represents the MCP tool output for setting the active
// goal.
type GoalSetActiveResult struct {
	ActiveGoal string `json:"active_goal" jsonschema:"the goal now marked active"`
}

// GoalSetActiveTool defines the MCP tool schema for setting the active goal.
func GoalSetActiveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_set_active",
		Description: "Marks a goal as the workspace's active goal",
	}
}

// GoalSetActiveHandler executes a set-active-goal request.
func GoalSetActiveHandler(reg *registry.Registry) mcp.ToolHandlerFor[GoalSetActiveInput, GoalSetActiveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalSetActiveInput) (*mcp.CallToolResult, GoalSetActiveResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, GoalSetActiveResult{}, mapErr(err)
		}
		if err := store.SetActiveGoal(input.Name); err != nil {
			return nil, GoalSetActiveResult{}, mapErr(err)
		}
		return nil, GoalSetActiveResult{ActiveGoal: input.Name}, nil
	}
}

// GoalGetActiveInput represents the MCP tool input for reading the active
// goal.
type GoalGetActiveInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
}

// GoalGetActiveResult represents the MCP tool output for reading the active
// goal. ActiveGoal is omitted when no goal is active.
type GoalGetActiveResult struct {
	ActiveGoal *string `json:"active_goal,omitempty" jsonschema:"the currently active goal, if any"`
}

// GoalGetActiveTool defines the MCP tool schema for reading the active goal.
func GoalGetActiveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_get_active",
		Description: "Returns the workspace's currently active goal, if one is set",
	}
}

// GoalGetActiveHandler executes a get-active-goal request.
func GoalGetActiveHandler(reg *registry.Registry) mcp.ToolHandlerFor[GoalGetActiveInput, GoalGetActiveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalGetActiveInput) (*mcp.CallToolResult, GoalGetActiveResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, GoalGetActiveResult{}, mapErr(err)
		}
		result := GoalGetActiveResult{}
		if name, ok := store.ActiveGoal(); ok {
			result.ActiveGoal = &name
		}
		return nil, result, nil
	}
}
