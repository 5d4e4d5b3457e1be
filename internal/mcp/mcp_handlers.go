package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/reusabilityapi/reusability/core"
	"github.com/reusabilityapi/reusability/internal/contract"
	"github.com/reusabilityapi/reusability/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// labeledFile is a file index annotated with its plain label.
type labeledFile struct {
	schema.FileReusabilityIndex
	Label string `json:"label"`
}

// labeledProject is a project index annotated with its plain label.
type labeledProject struct {
	schema.ProjectReusabilityIndex
	Label string `json:"label"`
}

// queryConfig copies the base config and applies the arguments shared by every tool.
// Missing required arguments are reported by the core query.
func (h *toolHandler) queryConfig(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	cfg.RepoURL = request.GetString("repo_url", "")
	cfg.CommitSHA = request.GetString("sha", "")
	cfg.FilePath = request.GetString("file_path", "")
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	return cfg
}

func (h *toolHandler) handleFileReusability(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.queryConfig(request)
	files, _, err := core.GetFilesResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(labelFiles(files))
}

func (h *toolHandler) handleFileReusabilityByPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.queryConfig(request)
	files, _, err := core.GetFileResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(labelFiles(files))
}

func (h *toolHandler) handleProjectReusability(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.queryConfig(request)
	projects, _, err := core.GetProjectResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(labelProjects(projects))
}

func (h *toolHandler) handleProjectReusabilityHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.queryConfig(request)
	cfg.CommitSHA = ""
	projects, _, err := core.GetHistoryResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(labelProjects(projects))
}

func labelFiles(files []schema.FileReusabilityIndex) []labeledFile {
	out := make([]labeledFile, len(files))
	for i, f := range files {
		out[i] = labeledFile{FileReusabilityIndex: f, Label: contract.GetPlainLabel(f.Index)}
	}
	return out
}

func labelProjects(projects []schema.ProjectReusabilityIndex) []labeledProject {
	out := make([]labeledProject, len(projects))
	for i, p := range projects {
		out[i] = labeledProject{ProjectReusabilityIndex: p, Label: contract.GetPlainLabel(p.Index)}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
