package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/compass/pkg/config"
	"github.com/entrhq/compass/pkg/goal"
	"github.com/entrhq/compass/pkg/registry"
)

func TestNewServer(t *testing.T) {
	reg := newTestRegistry(t)

	s, err := New(config.Config{}, reg, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.mcpServer)
}

func TestNewServerWithToolFilter(t *testing.T) {
	reg := newTestRegistry(t)

	s, err := New(config.Config{ToolFilter: []string{"goal_*"}}, reg, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.mcpServer)
}

func TestNewServerBadToolFilter(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := New(config.Config{ToolFilter: []string{"goal_["}}, reg, nil)
	assert.Error(t, err)
}

func TestServeUnconfigured(t *testing.T) {
	var s *Server
	assert.Error(t, s.Serve(context.Background()))
	assert.Error(t, (&Server{}).Serve(context.Background()))
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
		prefix   string
	}{
		{"goal not found", goal.ErrNotFound, "not found:"},
		{"registry not found", registry.ErrNotFound, "not found:"},
		{"goal exists", goal.ErrAlreadyExists, "already exists:"},
		{"registry exists", registry.ErrAlreadyExists, "already exists:"},
		{"invalid name", goal.ErrInvalidName, "invalid name:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapErr(fmt.Errorf("wrap: %w", tt.sentinel))
			assert.True(t, strings.HasPrefix(mapped.Error(), tt.prefix), "got %v", mapped)
			assert.ErrorIs(t, mapped, tt.sentinel, "mapping must preserve the sentinel")
		})
	}

	// Unrecognized errors pass through untouched.
	plain := errors.New("disk on fire")
	assert.Equal(t, plain, mapErr(plain))
}

func TestWorkspaceListResource(t *testing.T) {
	reg := newTestRegistry(t)
	createWorkspace(t, reg, "api")

	result, err := WorkspaceListResourceHandler(reg)(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "workspaces://list", result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"api"`)
}

func TestGoalSummariesResourceRequiresActiveWorkspace(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := GoalSummariesResourceHandler(reg)(context.Background(), nil)
	assert.Error(t, err)
}

func TestGoalSummariesResource(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()
	createWorkspace(t, reg, "api")

	_, _, err := GoalCreateHandler(reg)(ctx, nil, GoalCreateInput{
		Workspace: "api",
		Name:      "titled",
		Plan:      "# Add caching\n\nCache plan reads.",
	})
	require.NoError(t, err)

	result, err := GoalSummariesResourceHandler(reg)(ctx, nil)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "goals://summaries", result.Contents[0].URI)
	assert.Contains(t, result.Contents[0].Text, `"titled"`)
	assert.Contains(t, result.Contents[0].Text, "Add caching")
}
