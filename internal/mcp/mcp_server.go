// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/reusabilityapi/reusability/internal/contract"
)

// NewMCPServer initializes and configures the reusability MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Reusability Index Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_file_reusability ---
	s.AddTool(mcp.NewTool("get_file_reusability",
		mcp.WithDescription("Compute the reusability index of every file at a commit, least reusable first."),
		mcp.WithString("repo_url", mcp.Description("URL of the repository known to the metrics provider."), mcp.Required()),
		mcp.WithString("sha", mcp.Description("Commit SHA to analyze."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of records requested from the provider.")),
	), h.handleFileReusability)

	// --- 2. Tool: get_file_reusability_by_path ---
	s.AddTool(mcp.NewTool("get_file_reusability_by_path",
		mcp.WithDescription("Compute the reusability index of one file at a commit, in provider order."),
		mcp.WithString("repo_url", mcp.Description("URL of the repository."), mcp.Required()),
		mcp.WithString("sha", mcp.Description("Commit SHA to analyze."), mcp.Required()),
		mcp.WithString("file_path", mcp.Description("Repository-relative path of the file."), mcp.Required()),
	), h.handleFileReusabilityByPath)

	// --- 3. Tool: get_project_reusability ---
	s.AddTool(mcp.NewTool("get_project_reusability",
		mcp.WithDescription("Compute the project reusability index of a commit as the mean of its file indices."),
		mcp.WithString("repo_url", mcp.Description("URL of the repository."), mcp.Required()),
		mcp.WithString("sha", mcp.Description("Commit SHA to analyze."), mcp.Required()),
	), h.handleProjectReusability)

	// --- 4. Tool: get_project_reusability_history ---
	s.AddTool(mcp.NewTool("get_project_reusability_history",
		mcp.WithDescription("Compute one project reusability index per commit, least reusable first."),
		mcp.WithString("repo_url", mcp.Description("URL of the repository."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of commits requested from the provider.")),
	), h.handleProjectReusabilityHistory)

	return s
}

// StartMCPServer starts the reusability MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
