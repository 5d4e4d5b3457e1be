package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/reusabilityapi/reusability/core"
	"github.com/reusabilityapi/reusability/internal/contract"
	mcp_internal "github.com/reusabilityapi/reusability/internal/mcp"
	"github.com/reusabilityapi/reusability/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testRepo = "https://github.com/acme/widgets"
	testSHA  = "9fceb02d0ae598e95dc970b74767f19372d61af8"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		MetricsURL:   "http://metrics.invalid",
		CacheBackend: schema.NoneBackend,
		ResultLimit:  25,
	}
}

func callTool(t *testing.T, ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(ctx, req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServer_RegistersTools(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	for _, name := range []string{
		"get_file_reusability",
		"get_file_reusability_by_path",
		"get_project_reusability",
		"get_project_reusability_history",
	} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("get_file_reusability missing repo_url", func(t *testing.T) {
		res := callTool(t, ctx, "get_file_reusability", map[string]any{"sha": testSHA})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "repository URL is required")
	})

	t.Run("get_project_reusability missing sha", func(t *testing.T) {
		res := callTool(t, ctx, "get_project_reusability", map[string]any{"repo_url": testRepo})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "commit SHA is required")
	})

	t.Run("get_file_reusability_by_path missing file_path", func(t *testing.T) {
		res := callTool(t, ctx, "get_file_reusability_by_path", map[string]any{"repo_url": testRepo, "sha": testSHA})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "file path is required")
	})
}

func TestMCPServerHandlers_Results(t *testing.T) {
	client := &contract.MockMetricsClient{}
	ctx := core.WithMetricsClient(context.Background(), client)
	client.On("MetricsByCommit", mock.Anything, testRepo, testSHA, 5).Return([]schema.MetricsRecord{
		{Sha: testSHA, RevisionCount: 3, FilePath: "src/A.java", CBO: 9, DIT: 1, WMC: 10, RFC: 20, LCOM: 50},
		{Sha: testSHA, RevisionCount: 1, FilePath: "src/B.java"},
	}, nil)
	client.On("ProjectMetrics", mock.Anything, testRepo, 25).Return([]schema.MetricsRecord{
		{Sha: "c1", RevisionCount: 4},
	}, nil)

	t.Run("get_file_reusability", func(t *testing.T) {
		res := callTool(t, ctx, "get_file_reusability", map[string]any{"repo_url": testRepo, "sha": testSHA, "limit": 5.0})
		require.False(t, res.IsError)

		var files []struct {
			FilePath string  `json:"filePath"`
			Index    float64 `json:"index"`
			Label    string  `json:"label"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &files))
		require.Len(t, files, 2)
		assert.Equal(t, "src/A.java", files[0].FilePath)
		assert.Equal(t, "Poor", files[0].Label)
		assert.Equal(t, "src/B.java", files[1].FilePath)
		assert.Equal(t, "High", files[1].Label)
	})

	t.Run("get_project_reusability_history uses the base limit", func(t *testing.T) {
		res := callTool(t, ctx, "get_project_reusability_history", map[string]any{"repo_url": testRepo, "sha": "ignored"})
		require.False(t, res.IsError)

		var projects []struct {
			CommitID string  `json:"commitId"`
			Index    float64 `json:"index"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &projects))
		require.Len(t, projects, 1)
		assert.Equal(t, "c1", projects[0].CommitID)
		assert.Zero(t, projects[0].Index)
	})
}
