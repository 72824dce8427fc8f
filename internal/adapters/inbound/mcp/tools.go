package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codequal/codequal/internal/adapters/outbound/report"
	"github.com/codequal/codequal/internal/application"
	"github.com/codequal/codequal/internal/domain"
)

func registerTools(s *server.MCPServer, projectPath string, analyzer Analyzer, fixer Fixer) {
	s.AddTool(
		mcplib.NewTool("codequal_analyze",
			mcplib.WithDescription("Analyze the project and return the full quality report as JSON"),
			mcplib.WithString("exclude", mcplib.Description("Skip paths containing this substring")),
		),
		handleAnalyze(projectPath, analyzer),
	)

	s.AddTool(
		mcplib.NewTool("codequal_check_file",
			mcplib.WithDescription("Analyze a single file and return its findings and score"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path of the file, relative to the project root"),
			),
		),
		handleCheckFile(projectPath, analyzer),
	)

	s.AddTool(
		mcplib.NewTool("codequal_fix",
			mcplib.WithDescription("Run the safe auto-fixer. Defaults to a dry run that only reports what would change."),
			mcplib.WithBoolean("dry_run", mcplib.Description("Report changes without writing (default: true)")),
			mcplib.WithBoolean("docstrings", mcplib.Description("Also insert placeholder docstrings")),
			mcplib.WithBoolean("force", mcplib.Description("Write even outside a git work tree")),
		),
		handleFix(projectPath, fixer),
	)
}

func handleAnalyze(projectPath string, analyzer Analyzer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opts := application.AnalyzeOptions{NoHistory: true}
		if exclude, _ := request.GetArguments()["exclude"].(string); exclude != "" {
			opts.Excludes = []string{exclude}
		}

		r, err := analyzer.Analyze(ctx, projectPath, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(report.NewRecord(r))
	}
}

func handleCheckFile(projectPath string, analyzer Analyzer) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		r, err := analyzer.CheckFile(projectPath, file)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(report.NewRecord(r))
	}
}

func handleFix(projectPath string, fixer Fixer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		opts := domain.FixOptions{DryRun: true}
		if v, ok := args["dry_run"].(bool); ok {
			opts.DryRun = v
		}
		opts.Docstrings, _ = args["docstrings"].(bool)
		opts.Force, _ = args["force"].(bool)

		summary, err := fixer.Fix(ctx, projectPath, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("fix failed: %v", err)), nil
		}
		return jsonResult(summary)
	}
}

// jsonResult marshals v into a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result flagged as an error.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
