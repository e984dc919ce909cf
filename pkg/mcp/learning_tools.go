package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/compass/pkg/goal"
	"github.com/entrhq/compass/pkg/registry"
)

// learningScope maps an optional goal name to a store scope.
func learningScope(goalName string) goal.Scope {
	if goalName == "" {
		return goal.WorkspaceScope()
	}
	return goal.GoalScope(goalName)
}

// LearningAddInput represents the MCP tool input for recording a learning.
// Omitting the goal stores the learning at workspace level.
type LearningAddInput struct {
	Workspace    string `json:"workspace" jsonschema:"workspace name"`
	Goal         string `json:"goal,omitempty" jsonschema:"optional goal name; omit for a workspace-level learning"`
	Timestamp    string `json:"timestamp" jsonschema:"ISO-8601 UTC instant with millisecond precision, the learning's identity"`
	Title        string `json:"title" jsonschema:"short learning title"`
	Context      string `json:"context" jsonschema:"what was being worked on"`
	Details      string `json:"details" jsonschema:"what was learned"`
	Rationale    string `json:"rationale" jsonschema:"why it matters"`
	Alternatives string `json:"alternatives" jsonschema:"alternatives considered"`
	References   string `json:"references" jsonschema:"related links or files"`
}

// LearningAddResult represents the MCP tool output for recording a learning.
type LearningAddResult struct {
	Timestamp string `json:"timestamp" jsonschema:"the recorded learning's timestamp"`
	Goal      string `json:"goal,omitempty" jsonschema:"goal scope, empty for workspace level"`
}

// LearningAddTool defines the MCP tool schema for recording learnings.
func LearningAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "learning_add",
		Description: "Records a timestamped learning at workspace level or under a goal",
	}
}

// LearningAddHandler executes a learning recording request.
func LearningAddHandler(reg *registry.Registry) mcp.ToolHandlerFor[LearningAddInput, LearningAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LearningAddInput) (*mcp.CallToolResult, LearningAddResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, LearningAddResult{}, mapErr(err)
		}
		learning := goal.Learning{
			Timestamp:    input.Timestamp,
			Title:        input.Title,
			Context:      input.Context,
			Details:      input.Details,
			Rationale:    input.Rationale,
			Alternatives: input.Alternatives,
			References:   input.References,
		}
		if err := store.AddLearning(learning, learningScope(input.Goal)); err != nil {
			return nil, LearningAddResult{}, mapErr(err)
		}
		return nil, LearningAddResult{Timestamp: input.Timestamp, Goal: input.Goal}, nil
	}
}

// LearningEntry represents a stored learning in tool output.
type LearningEntry struct {
	Timestamp string `json:"timestamp" jsonschema:"the learning's timestamp"`
	Content   string `json:"content" jsonschema:"the learning's markdown document"`
}

// LearningListInput represents the MCP tool input for listing learnings.
type LearningListInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
	Goal      string `json:"goal,omitempty" jsonschema:"optional goal name; omit for workspace-level learnings"`
}

// LearningListResult represents the MCP tool output for listing learnings,
// most recent first.
type LearningListResult struct {
	Learnings []LearningEntry `json:"learnings"`
}

// LearningListTool defines the MCP tool schema for listing learnings.
func LearningListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "learning_list",
		Description: "Lists the learnings in a scope, most recent first",
	}
}

// LearningListHandler executes a learning listing request.
func LearningListHandler(reg *registry.Registry) mcp.ToolHandlerFor[LearningListInput, LearningListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LearningListInput) (*mcp.CallToolResult, LearningListResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, LearningListResult{}, mapErr(err)
		}
		entries, err := store.Learnings(learningScope(input.Goal))
		if err != nil {
			return nil, LearningListResult{}, mapErr(err)
		}
		result := LearningListResult{}
		for _, e := range entries {
			result.Learnings = append(result.Learnings, LearningEntry{Timestamp: e.Timestamp, Content: e.Content})
		}
		return nil, result, nil
	}
}

// LearningGetInput represents the MCP tool input for reading one learning.
type LearningGetInput struct {
	Workspace string `json:"workspace" jsonschema:"workspace name"`
	Goal      string `json:"goal,omitempty" jsonschema:"optional goal name; omit for workspace-level learnings"`
	Timestamp string `json:"timestamp" jsonschema:"the learning's timestamp"`
}

// LearningGetResult represents the MCP tool output for reading one learning.
type LearningGetResult struct {
	Learning LearningEntry `json:"learning"`
}

// LearningGetTool defines the MCP tool schema for reading one learning.
func LearningGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "learning_get",
		Description: "Reads the learning stored under a timestamp in a scope",
	}
}

// LearningGetHandler executes a learning read request.
func LearningGetHandler(reg *registry.Registry) mcp.ToolHandlerFor[LearningGetInput, LearningGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LearningGetInput) (*mcp.CallToolResult, LearningGetResult, error) {
		store, err := storeFor(reg, input.Workspace)
		if err != nil {
			return nil, LearningGetResult{}, mapErr(err)
		}
		entry, err := store.Learning(input.Timestamp, learningScope(input.Goal))
		if err != nil {
			return nil, LearningGetResult{}, mapErr(err)
		}
		return nil, LearningGetResult{Learning: LearningEntry{Timestamp: entry.Timestamp, Content: entry.Content}}, nil
	}
}
