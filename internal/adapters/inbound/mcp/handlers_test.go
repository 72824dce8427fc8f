package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/application"
	"github.com/codequal/codequal/internal/domain"
	"github.com/codequal/codequal/internal/domain/scoring"
)

type stubAnalyzer struct {
	cfg      domain.ProjectConfig
	report   *domain.QualityReport
	err      error
	lastOpts application.AnalyzeOptions
	lastFile string
	calls    int
}

func (s *stubAnalyzer) Config(string, application.AnalyzeOptions) (domain.ProjectConfig, error) {
	return s.cfg, nil
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ string, opts application.AnalyzeOptions) (*domain.QualityReport, error) {
	s.calls++
	s.lastOpts = opts
	return s.report, s.err
}

func (s *stubAnalyzer) CheckFile(_ string, file string) (*domain.QualityReport, error) {
	s.lastFile = file
	return s.report, s.err
}

type stubFixer struct {
	opts domain.FixOptions
}

func (f *stubFixer) Fix(_ context.Context, root string, opts domain.FixOptions) (*domain.FixSummary, error) {
	f.opts = opts
	return &domain.FixSummary{Root: root, DryRun: opts.DryRun}, nil
}

func sampleReport() *domain.QualityReport {
	b := scoring.NewReportBuilder("/p", domain.DefaultConfig())
	b.AddResult(&domain.FileResult{Path: "a.py", Findings: []domain.Finding{
		{Category: domain.CategorySecurity, File: "a.py", Line: 2, Message: "use of eval()", Severity: domain.SeverityHigh, Rule: "eval"},
	}})
	return b.Build(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func callTool(t *testing.T, h func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	var req mcplib.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleAnalyze(t *testing.T) {
	a := &stubAnalyzer{report: sampleReport()}
	res := callTool(t, handleAnalyze("/p", a), map[string]any{"exclude": "migrations/"})

	assert.False(t, res.IsError)
	assert.True(t, a.lastOpts.NoHistory)
	assert.Equal(t, []string{"migrations/"}, a.lastOpts.Excludes)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &doc))
	assert.Equal(t, 85.0, doc["quality_score"])
}

func TestHandleAnalyze_Error(t *testing.T) {
	a := &stubAnalyzer{err: errors.New("invalid root")}
	res := callTool(t, handleAnalyze("/p", a), nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "invalid root")
}

func TestHandleCheckFile(t *testing.T) {
	a := &stubAnalyzer{report: sampleReport()}
	res := callTool(t, handleCheckFile("/p", a), map[string]any{"file": "a.py"})
	assert.False(t, res.IsError)
	assert.Equal(t, "a.py", a.lastFile)
	assert.Contains(t, text(t, res), `"issue": "use of eval()"`)
}

func TestHandleCheckFile_RequiresFile(t *testing.T) {
	res := callTool(t, handleCheckFile("/p", &stubAnalyzer{}), map[string]any{})
	assert.True(t, res.IsError)
}

func TestHandleFix_DefaultsToDryRun(t *testing.T) {
	f := &stubFixer{}
	res := callTool(t, handleFix("/p", f), map[string]any{})
	assert.False(t, res.IsError)
	assert.True(t, f.opts.DryRun)

	callTool(t, handleFix("/p", f), map[string]any{"dry_run": false, "docstrings": true})
	assert.False(t, f.opts.DryRun)
	assert.True(t, f.opts.Docstrings)
}

func TestReportResource_PrefersPersistedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.DefaultReportPath), []byte(`{"persisted":true}`), 0o644))

	a := &stubAnalyzer{cfg: domain.DefaultConfig(), report: sampleReport()}
	contents, err := handleReportResource(root, a)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, `{"persisted":true}`, contents[0].(mcplib.TextResourceContents).Text)
	assert.Zero(t, a.calls)
}

func TestReportResource_AnalyzesWhenMissing(t *testing.T) {
	a := &stubAnalyzer{cfg: domain.DefaultConfig(), report: sampleReport()}
	contents, err := handleReportResource(t.TempDir(), a)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Contains(t, contents[0].(mcplib.TextResourceContents).Text, `"quality_score": 85`)
}
