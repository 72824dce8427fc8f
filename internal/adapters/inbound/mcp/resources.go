package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codequal/codequal/internal/adapters/outbound/report"
	"github.com/codequal/codequal/internal/application"
)

const reportURI = "codequal://report"

func registerResources(s *server.MCPServer, projectPath string, analyzer Analyzer) {
	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Quality Report",
			mcplib.WithResourceDescription("Latest persisted quality report, or a fresh analysis when none exists"),
			mcplib.WithMIMEType("application/json"),
		),
		handleReportResource(projectPath, analyzer),
	)
}

func handleReportResource(projectPath string, analyzer Analyzer) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := persistedReport(projectPath, analyzer)
		if err != nil {
			return nil, err
		}
		if data == nil {
			r, err := analyzer.Analyze(ctx, projectPath, application.AnalyzeOptions{NoHistory: true})
			if err != nil {
				return nil, fmt.Errorf("analysis failed: %w", err)
			}
			if data, err = report.MarshalJSON(r); err != nil {
				return nil, err
			}
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      reportURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

// persistedReport reads the report file named by the project config. A
// missing file yields nil data.
func persistedReport(projectPath string, analyzer Analyzer) ([]byte, error) {
	cfg, err := analyzer.Config(projectPath, application.AnalyzeOptions{})
	if err != nil {
		return nil, err
	}
	if cfg.ReportPath == "" {
		return nil, nil
	}
	path := cfg.ReportPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectPath, path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return data, nil
}
