package scoring_test

import (
	"errors"
	"testing"
	"time"

	"github.com/codequal/codequal/internal/domain"
	"github.com/codequal/codequal/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportBuilder_EmptyTreeScoresHundred(t *testing.T) {
	b := scoring.NewReportBuilder("/src", domain.DefaultConfig())
	b.AddResult(&domain.FileResult{Path: "clean.py"})

	r := b.Build(time.Unix(0, 0))
	assert.Equal(t, 1, r.TotalFiles)
	assert.Equal(t, 100.0, r.QualityScore)
	assert.Equal(t, "A", r.Grade())
	for _, c := range domain.AllCategories {
		require.Contains(t, r.Findings, c)
		assert.Empty(t, r.Findings[c])
	}
}

func TestReportBuilder_GroupsByCategoryInOrder(t *testing.T) {
	b := scoring.NewReportBuilder("/src", domain.DefaultConfig())
	b.AddResult(&domain.FileResult{Path: "a.py", Findings: []domain.Finding{
		{Category: domain.CategoryStyle, File: "a.py", Line: 3, Rule: "line-too-long"},
		{Category: domain.CategorySecurity, File: "a.py", Line: 1, Severity: domain.SeverityHigh, Rule: "eval"},
	}})
	b.AddResult(&domain.FileResult{Path: "b.py", Findings: []domain.Finding{
		{Category: domain.CategoryStyle, File: "b.py", Line: 1, Rule: "trailing-whitespace"},
	}})

	r := b.Build(time.Now())
	require.Len(t, r.Findings[domain.CategoryStyle], 2)
	assert.Equal(t, "a.py", r.Findings[domain.CategoryStyle][0].File)
	assert.Equal(t, "b.py", r.Findings[domain.CategoryStyle][1].File)
	// 100 - 15 - 0.2
	assert.Equal(t, 84.8, r.QualityScore)
}

func TestReportBuilder_SkipsDisabledCategoriesAndRules(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Skip.Categories = []string{"docstrings"}
	cfg.Skip.Rules = []string{"subprocess-call"}

	b := scoring.NewReportBuilder("/src", cfg)
	b.AddResult(&domain.FileResult{Path: "a.py", Findings: []domain.Finding{
		{Category: domain.CategoryDocstrings, File: "a.py", Line: 1, Rule: "missing-docstring"},
		{Category: domain.CategorySecurity, File: "a.py", Line: 2, Severity: domain.SeverityLow, Rule: "subprocess-call"},
		{Category: domain.CategorySecurity, File: "a.py", Line: 3, Severity: domain.SeverityHigh, Rule: "eval"},
	}})

	r := b.Build(time.Now())
	assert.Equal(t, 1, r.TotalFindings())
	assert.Equal(t, 85.0, r.QualityScore)
}

func TestReportBuilder_ErrorsDoNotCountAsFiles(t *testing.T) {
	b := scoring.NewReportBuilder("/src", domain.DefaultConfig())
	b.AddError("locked.py", errors.New("permission denied"))

	r := b.Build(time.Now())
	assert.Equal(t, 0, r.TotalFiles)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "locked.py", r.Errors[0].File)
	assert.Equal(t, "permission denied", r.Errors[0].Err)
}
