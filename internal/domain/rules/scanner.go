package rules

import "github.com/codequal/codequal/internal/domain"

// Scanner evaluates an ordered rule set against each line of a file.
type Scanner struct {
	rules []LineRule
}

// NewScanner builds the style and security rules for the configured language.
func NewScanner(cfg domain.ProjectConfig) *Scanner {
	rs := []LineRule{
		LineLength{Max: cfg.MaxLineLength},
		TrailingWhitespace{},
	}
	for _, r := range SecurityRules(cfg.Language) {
		rs = append(rs, r)
	}
	return &Scanner{rules: rs}
}

// NewScannerWithRules builds a scanner over an explicit rule set.
func NewScannerWithRules(rules ...LineRule) *Scanner {
	return &Scanner{rules: rules}
}

// Scan returns every finding for the file in line order, and within a line
// in rule order. Identical input always yields identical output.
func (s *Scanner) Scan(path string, content []byte) []domain.Finding {
	var out []domain.Finding
	for i, text := range SplitLines(string(content)) {
		line := Line{File: path, Number: i + 1, Text: text}
		for _, r := range s.rules {
			out = append(out, r.Check(line)...)
		}
	}
	return out
}
