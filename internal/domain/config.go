package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Default thresholds.
const (
	DefaultMaxLineLength    = 88
	DefaultMaxFunctionLines = 50
	DefaultMaxParameters    = 7
	DefaultMaxFileLines     = 500
	DefaultTopN             = 5
	DefaultReportPath       = "code_quality_report.json"
)

// Fix transform names, in the order they are applied.
const (
	TransformTrailingWhitespace = "trailing-whitespace"
	TransformBlankLines         = "blank-lines"
	TransformTopLevelSpacing    = "top-level-spacing"
	TransformWrapImports        = "wrap-imports"
	TransformDocstrings         = "docstrings"
)

// AllTransforms lists every fix transform in application order.
var AllTransforms = []string{
	TransformTrailingWhitespace,
	TransformBlankLines,
	TransformTopLevelSpacing,
	TransformWrapImports,
	TransformDocstrings,
}

// DefaultTransforms are enabled when the config does not list any.
// Docstring insertion is opt-in.
var DefaultTransforms = []string{
	TransformTrailingWhitespace,
	TransformBlankLines,
	TransformTopLevelSpacing,
	TransformWrapImports,
}

// ProjectConfig holds project-level configuration loaded from .codequal.yaml
// or the [tool.codequal] table of pyproject.toml.
type ProjectConfig struct {
	Language         Language   `yaml:"language"           toml:"language"           json:"language"`
	MaxLineLength    int        `yaml:"max_line_length"    toml:"max_line_length"    json:"max_line_length"`
	MaxFunctionLines int        `yaml:"max_function_lines" toml:"max_function_lines" json:"max_function_lines"`
	MaxParameters    int        `yaml:"max_parameters"     toml:"max_parameters"     json:"max_parameters"`
	MaxFileLines     int        `yaml:"max_file_lines"     toml:"max_file_lines"     json:"max_file_lines"`
	TopN             int        `yaml:"top_n"              toml:"top_n"              json:"top_n"`
	ReportPath       string     `yaml:"report_path"        toml:"report_path"        json:"report_path"`
	ExcludePaths     []string   `yaml:"exclude_paths"      toml:"exclude_paths"      json:"exclude_paths,omitempty"`
	Skip             SkipConfig `yaml:"skip"               toml:"skip"               json:"skip"`
	Fix              FixConfig  `yaml:"fix"                toml:"fix"                json:"fix"`
}

// SkipConfig disables whole categories or individual rule ids.
type SkipConfig struct {
	Categories []string `yaml:"categories" toml:"categories" json:"categories,omitempty"`
	Rules      []string `yaml:"rules"      toml:"rules"      json:"rules,omitempty"`
}

// FixConfig selects which transforms the fixer runs.
type FixConfig struct {
	Transforms []string `yaml:"transforms" toml:"transforms" json:"transforms,omitempty"`
}

// DefaultConfig returns the built-in thresholds. Loaders decode on top of it,
// so keys absent from a config file keep these values.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Language:         LanguagePython,
		MaxLineLength:    DefaultMaxLineLength,
		MaxFunctionLines: DefaultMaxFunctionLines,
		MaxParameters:    DefaultMaxParameters,
		MaxFileLines:     DefaultMaxFileLines,
		TopN:             DefaultTopN,
		ReportPath:       DefaultReportPath,
	}
}

// IsSkippedCategory reports whether the category is disabled.
func (c ProjectConfig) IsSkippedCategory(cat Category) bool {
	for _, s := range c.Skip.Categories {
		if s == string(cat) {
			return true
		}
	}
	return false
}

// IsSkippedRule reports whether the rule id is disabled.
func (c ProjectConfig) IsSkippedRule(id string) bool {
	for _, s := range c.Skip.Rules {
		if s == id {
			return true
		}
	}
	return false
}

// EnabledTransforms returns the configured transforms in application order.
func (c ProjectConfig) EnabledTransforms() []string {
	want := c.Fix.Transforms
	if len(want) == 0 {
		want = DefaultTransforms
	}
	set := make(map[string]bool, len(want))
	for _, t := range want {
		set[t] = true
	}
	var out []string
	for _, t := range AllTransforms {
		if set[t] {
			out = append(out, t)
		}
	}
	return out
}

// Normalize validates the config and rewrites the language name into its
// canonical form, so "Go" becomes "go".
func (c ProjectConfig) Normalize() (ProjectConfig, error) {
	if err := c.Validate(); err != nil {
		return ProjectConfig{}, err
	}
	c.Language, _ = ParseLanguage(string(c.Language))
	return c, nil
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if _, err := ParseLanguage(string(c.Language)); err != nil {
		return err
	}

	thresholds := []struct {
		name  string
		value int
	}{
		{"max_line_length", c.MaxLineLength},
		{"max_function_lines", c.MaxFunctionLines},
		{"max_parameters", c.MaxParameters},
		{"max_file_lines", c.MaxFileLines},
	}
	for _, th := range thresholds {
		if th.value <= 0 {
			return fmt.Errorf("%s must be > 0 (got %d)", th.name, th.value)
		}
	}

	if c.TopN < 0 {
		return fmt.Errorf("top_n must be >= 0 (got %d)", c.TopN)
	}

	for _, cat := range c.Skip.Categories {
		if _, ok := ParseCategory(cat); !ok {
			return fmt.Errorf("unknown category %q in skip.categories", cat)
		}
	}

	for _, t := range c.Fix.Transforms {
		if !isValidTransform(t) {
			return fmt.Errorf("unknown transform %q in fix.transforms", t)
		}
	}

	return nil
}

func isValidTransform(name string) bool {
	for _, t := range AllTransforms {
		if t == name {
			return true
		}
	}
	return false
}

// Fingerprint identifies the settings that influence per-file analysis
// results. Cached results are only reused under an identical fingerprint.
func (c ProjectConfig) Fingerprint() string {
	key := struct {
		Language         Language
		MaxLineLength    int
		MaxFunctionLines int
		MaxParameters    int
		MaxFileLines     int
		Skip             SkipConfig
	}{c.Language, c.MaxLineLength, c.MaxFunctionLines, c.MaxParameters, c.MaxFileLines, c.Skip}
	data, _ := json.Marshal(key)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
