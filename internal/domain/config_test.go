package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/domain"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := domain.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, domain.LanguagePython, cfg.Language)
	assert.Equal(t, 88, cfg.MaxLineLength)
	assert.Equal(t, "code_quality_report.json", cfg.ReportPath)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ProjectConfig)
		errMsg string
	}{
		{"zero line length", func(c *domain.ProjectConfig) { c.MaxLineLength = 0 }, "max_line_length must be > 0"},
		{"negative function lines", func(c *domain.ProjectConfig) { c.MaxFunctionLines = -1 }, "max_function_lines must be > 0"},
		{"negative top", func(c *domain.ProjectConfig) { c.TopN = -2 }, "top_n must be >= 0"},
		{"unknown language", func(c *domain.ProjectConfig) { c.Language = "rust" }, "unknown language"},
		{"unknown category", func(c *domain.ProjectConfig) { c.Skip.Categories = []string{"naming"} }, "unknown category"},
		{"unknown transform", func(c *domain.ProjectConfig) { c.Fix.Transforms = []string{"reformat"} }, "unknown transform"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Normalize(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Language = "Go"

	got, err := cfg.Normalize()
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageGo, got.Language)

	cfg.Language = "rust"
	_, err = cfg.Normalize()
	assert.Error(t, err)
}

func TestConfig_Skips(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Skip.Categories = []string{"docstrings"}
	cfg.Skip.Rules = []string{"eval"}

	assert.True(t, cfg.IsSkippedCategory(domain.CategoryDocstrings))
	assert.False(t, cfg.IsSkippedCategory(domain.CategoryStyle))
	assert.True(t, cfg.IsSkippedRule("eval"))
	assert.False(t, cfg.IsSkippedRule("exec"))
}

func TestConfig_EnabledTransforms(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, domain.DefaultTransforms, cfg.EnabledTransforms())
	assert.NotContains(t, cfg.EnabledTransforms(), domain.TransformDocstrings)

	cfg.Fix.Transforms = []string{domain.TransformDocstrings, domain.TransformTrailingWhitespace}
	assert.Equal(t, []string{domain.TransformTrailingWhitespace, domain.TransformDocstrings}, cfg.EnabledTransforms())
}

func TestConfig_Fingerprint(t *testing.T) {
	a := domain.DefaultConfig()
	b := domain.DefaultConfig()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.TopN = 20
	b.ReportPath = "out.json"
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "output settings do not affect analysis")

	b.MaxParameters = 3
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestCacheKey(t *testing.T) {
	k := domain.CacheKey("a.py", []byte("x"), "fp")
	assert.Len(t, k, 64)
	assert.Equal(t, k, domain.CacheKey("a.py", []byte("x"), "fp"))
	assert.NotEqual(t, k, domain.CacheKey("b.py", []byte("x"), "fp"))
}
