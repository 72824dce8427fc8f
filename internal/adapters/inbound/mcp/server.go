package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/codequal/codequal/internal/application"
	"github.com/codequal/codequal/internal/domain"
)

// Analyzer is the analysis surface the server exposes.
type Analyzer interface {
	Config(projectPath string, opts application.AnalyzeOptions) (domain.ProjectConfig, error)
	Analyze(ctx context.Context, projectPath string, opts application.AnalyzeOptions) (*domain.QualityReport, error)
	CheckFile(projectPath, file string) (*domain.QualityReport, error)
}

// Fixer runs the auto-fixer.
type Fixer interface {
	Fix(ctx context.Context, projectPath string, opts domain.FixOptions) (*domain.FixSummary, error)
}

// NewServer creates an MCP server with the codequal tools and resources
// registered for the project at projectPath.
func NewServer(projectPath string, analyzer Analyzer, fixer Fixer) *server.MCPServer {
	s := server.NewMCPServer(
		"codequal",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, analyzer, fixer)
	registerResources(s, projectPath, analyzer)

	return s
}
