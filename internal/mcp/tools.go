package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"project-upgrader/internal/app"
	"project-upgrader/internal/types"
)

const (
	toolUpgrade    = "upgrade_projects_and_apply_package_updates"
	toolLastReport = "last_report"
	toolValidate   = "validate_config"
)

type toolState struct {
	service app.Service
	base    types.Config

	mu   sync.Mutex
	last *app.UpgradeResult
}

type upgradeResponse struct {
	Status     string          `json:"status"`
	LogFile    string          `json:"log_file"`
	ReportFile string          `json:"report_file,omitempty"`
	GitDirty   bool            `json:"git_dirty"`
	Hints      []string        `json:"hints,omitempty"`
	Report     types.RunReport `json:"report"`
}

func newToolState(service app.Service, base types.Config) *toolState {
	return &toolState{service: service, base: base}
}

func registerTools(s *server.MCPServer, state *toolState) {
	s.AddTool(
		mcplib.NewTool(toolUpgrade,
			mcplib.WithDescription("Upgrade every configured project to its target framework in level order, then update package references to the newest registry versions. Returns the run status and report."),
			mcplib.WithString("config_path", mcplib.Description("YAML configuration file; defaults to the server's configuration")),
			mcplib.WithString("solution_path", mcplib.Description("Override project_dependency.solution_path")),
			mcplib.WithBoolean("reconcile_already_current", mcplib.Description("Also update packages of projects already on the target framework")),
		),
		state.handleUpgrade,
	)
	s.AddTool(
		mcplib.NewTool(toolLastReport,
			mcplib.WithDescription("Returns the report of the most recent upgrade run, or the persisted report file when no run happened in this session"),
		),
		state.handleLastReport,
	)
	s.AddTool(
		mcplib.NewTool(toolValidate,
			mcplib.WithDescription("Validates an upgrade configuration without running anything"),
			mcplib.WithString("config_path", mcplib.Description("YAML configuration file; defaults to the server's configuration")),
		),
		state.handleValidate,
	)
}

func (t *toolState) handleUpgrade(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	cfg, err := t.configFor(request)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	args := request.GetArguments()
	if path, _ := args["solution_path"].(string); strings.TrimSpace(path) != "" {
		cfg.ProjectDependency.SolutionPath = path
	}
	if reconcile, ok := args["reconcile_already_current"].(bool); ok {
		cfg.ReconcileAlreadyCurrent = reconcile
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	result, err := t.service.Upgrade(ctx, app.UpgradeRequest{Config: cfg})
	if err != nil && result.Status == "" {
		return errorResult(fmt.Sprintf("upgrade failed: %v", err)), nil
	}
	t.last = &result
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("upgrade finished with errors")
	}
	return jsonResult(toResponse(result))
}

func (t *toolState) handleLastReport(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	t.mu.Lock()
	last := t.last
	t.mu.Unlock()
	if last != nil {
		return jsonResult(toResponse(*last))
	}
	if strings.TrimSpace(t.base.ReportFile) == "" {
		return errorResult("no upgrade has run and no report_file is configured"), nil
	}
	result, err := t.service.Inspect(app.InspectRequest{ReportPath: t.base.ReportFile})
	if err != nil {
		return errorResult(fmt.Sprintf("reading report failed: %v", err)), nil
	}
	return jsonResult(upgradeResponse{ReportFile: t.base.ReportFile, Report: result.Report})
}

func (t *toolState) handleValidate(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	cfg, err := t.configFor(request)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	result, err := t.service.Validate(ctx, app.ValidateRequest{Config: cfg})
	if err != nil {
		return errorResult(fmt.Sprintf("invalid configuration: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *toolState) configFor(request mcplib.CallToolRequest) (types.Config, error) {
	path, _ := request.GetArguments()["config_path"].(string)
	if strings.TrimSpace(path) == "" {
		return t.base, nil
	}
	return t.service.Config.Load(path)
}

func toResponse(result app.UpgradeResult) upgradeResponse {
	return upgradeResponse{
		Status:     result.Status,
		LogFile:    result.LogFile,
		ReportFile: result.ReportFile,
		GitDirty:   result.GitDirty,
		Hints:      result.Hints,
		Report:     result.Report,
	}
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
