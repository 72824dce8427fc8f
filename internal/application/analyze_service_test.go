package application_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/adapters/outbound/cache"
	"github.com/codequal/codequal/internal/adapters/outbound/config"
	"github.com/codequal/codequal/internal/adapters/outbound/history"
	"github.com/codequal/codequal/internal/adapters/outbound/parser"
	"github.com/codequal/codequal/internal/adapters/outbound/scanner"
	"github.com/codequal/codequal/internal/adapters/outbound/sourcefs"
	"github.com/codequal/codequal/internal/application"
	"github.com/codequal/codequal/internal/domain"
)

func newAnalyzeService() *application.AnalyzeService {
	return application.NewAnalyzeService(
		scanner.New(),
		parser.ForLanguage,
		config.New(),
		sourcefs.New(),
	)
}

func rules(fs []domain.Finding) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.File + ":" + f.Rule
	}
	return out
}

func TestAnalyzeService_Fixture(t *testing.T) {
	root := copyFixture(t, projectFixture)

	report, err := newAnalyzeService().Analyze(context.Background(), root, application.AnalyzeOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalFiles)
	assert.Equal(t, []string{"app/utils.py:too-many-parameters", "legacy/broken.py:parse-error"},
		rules(report.Findings[domain.CategoryComplexity]))
	assert.Equal(t, []string{"app/service.py:eval", "app/utils.py:subprocess-call"},
		rules(report.Findings[domain.CategorySecurity]))
	assert.Equal(t, []string{"app/utils.py:line-too-long", "app/utils.py:trailing-whitespace"},
		rules(report.Findings[domain.CategoryStyle]))
	assert.Equal(t, []string{"app/service.py:unused-import"},
		rules(report.Findings[domain.CategoryImports]))
	assert.Equal(t, []string{"app/utils.py:missing-docstring"},
		rules(report.Findings[domain.CategoryDocstrings]))

	// 100 - 2*3 - (15 + 3) - 0.2 - 1
	assert.Equal(t, 74.8, report.QualityScore)
	assert.Equal(t, "C", report.Grade())
}

func TestAnalyzeService_CommentedEvalNotFlagged(t *testing.T) {
	root := copyFixture(t, projectFixture)

	report, err := newAnalyzeService().Analyze(context.Background(), root, application.AnalyzeOptions{})
	require.NoError(t, err)

	for _, f := range report.Findings[domain.CategorySecurity] {
		if f.File == "app/service.py" {
			assert.Equal(t, 23, f.Line)
		}
	}
}

func TestAnalyzeService_CleanTree(t *testing.T) {
	root := copyFixture(t, cleanFixture)

	report, err := newAnalyzeService().Analyze(context.Background(), root, application.AnalyzeOptions{})
	require.NoError(t, err)
	assert.Zero(t, report.TotalFindings())
	assert.Equal(t, 100.0, report.QualityScore)
}

func TestAnalyzeService_Deterministic(t *testing.T) {
	root := copyFixture(t, projectFixture)
	svc := newAnalyzeService()

	first, err := svc.Analyze(context.Background(), root, application.AnalyzeOptions{Jobs: 1})
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), root, application.AnalyzeOptions{Jobs: 8})
	require.NoError(t, err)

	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.QualityScore, second.QualityScore)
}

func TestAnalyzeService_Excludes(t *testing.T) {
	root := copyFixture(t, projectFixture)

	report, err := newAnalyzeService().Analyze(context.Background(), root, application.AnalyzeOptions{Excludes: []string{"legacy/"}})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalFiles)
	assert.Len(t, report.Findings[domain.CategoryComplexity], 1)
}

func TestAnalyzeService_SkipConfig(t *testing.T) {
	root := copyFixture(t, projectFixture)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".codequal.yaml"),
		[]byte("skip:\n  categories: [docstrings]\n  rules: [subprocess-call]\n"), 0o644))

	report, err := newAnalyzeService().Analyze(context.Background(), root, application.AnalyzeOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Findings[domain.CategoryDocstrings])
	assert.Len(t, report.Findings[domain.CategorySecurity], 1)
}

func TestAnalyzeService_InvalidConfig(t *testing.T) {
	root := copyFixture(t, cleanFixture)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".codequal.yaml"), []byte("max_line_length: -1\n"), 0o644))

	_, err := newAnalyzeService().Analyze(context.Background(), root, application.AnalyzeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestAnalyzeService_InvalidRoot(t *testing.T) {
	_, err := newAnalyzeService().Analyze(context.Background(), filepath.Join(t.TempDir(), "missing"), application.AnalyzeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid root")
}

func TestAnalyzeService_Cancelled(t *testing.T) {
	root := copyFixture(t, projectFixture)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAnalyzeService().Analyze(ctx, root, application.AnalyzeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeService_HistoryAndCommit(t *testing.T) {
	root := copyFixture(t, cleanFixture)
	h := history.New()
	svc := newAnalyzeService().
		WithHistory(h).
		WithGit(fakeGit{inTree: true, hash: "abc123"})

	report, err := svc.Analyze(context.Background(), root, application.AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "abc123", report.CommitHash)

	entries, err := h.Load(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 100.0, entries[0].QualityScore)
	assert.Equal(t, "abc123", entries[0].CommitHash)

	_, err = svc.Analyze(context.Background(), root, application.AnalyzeOptions{NoHistory: true})
	require.NoError(t, err)
	entries, err = h.Load(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAnalyzeService_CacheHitMatchesFreshRun(t *testing.T) {
	root := copyFixture(t, projectFixture)
	svc := newAnalyzeService().WithCache(func(p string) domain.AnalysisCache { return cache.New(p) })

	first, err := svc.Analyze(context.Background(), root, application.AnalyzeOptions{})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, ".codequal", "cache"))
	require.NoError(t, err)

	second, err := svc.Analyze(context.Background(), root, application.AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.QualityScore, second.QualityScore)
}

func TestAnalyzeService_CheckFile(t *testing.T) {
	report, err := newAnalyzeService().CheckFile(projectFixture, "app/utils.py")
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalFiles)
	assert.Len(t, report.Findings[domain.CategoryStyle], 2)
	assert.Equal(t, "app/utils.py", report.Findings[domain.CategoryStyle][0].File)
}

func TestAnalyzeService_CheckFileMissing(t *testing.T) {
	_, err := newAnalyzeService().CheckFile(projectFixture, "app/nope.py")
	assert.Error(t, err)
}
