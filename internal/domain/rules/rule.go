// Package rules implements the line-oriented pattern checks: style rules
// (line length, trailing whitespace) and per-language security tables.
package rules

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/codequal/codequal/internal/domain"
)

// Style rule ids.
const (
	RuleLineTooLong        = "line-too-long"
	RuleTrailingWhitespace = "trailing-whitespace"
)

// Line is one physical source line. Text has its line terminator removed
// (the "\n" and, for CRLF files, the "\r" before it) and nothing else.
type Line struct {
	File   string
	Number int
	Text   string
}

// LineRule is a single check evaluated against every line of a file.
type LineRule interface {
	Category() domain.Category
	Check(line Line) []domain.Finding
}

// LineLength flags lines whose rune length exceeds Max. Trailing whitespace
// counts toward the length.
type LineLength struct {
	Max int
}

func (LineLength) Category() domain.Category { return domain.CategoryStyle }

func (r LineLength) Check(line Line) []domain.Finding {
	n := utf8.RuneCountInString(line.Text)
	if n <= r.Max {
		return nil
	}
	return []domain.Finding{{
		Category: domain.CategoryStyle,
		File:     line.File,
		Line:     line.Number,
		Message:  fmt.Sprintf("line too long (%d > %d characters)", n, r.Max),
		Rule:     RuleLineTooLong,
	}}
}

// TrailingWhitespace flags lines ending in whitespace.
type TrailingWhitespace struct{}

func (TrailingWhitespace) Category() domain.Category { return domain.CategoryStyle }

func (TrailingWhitespace) Check(line Line) []domain.Finding {
	if line.Text == "" || strings.TrimRightFunc(line.Text, unicode.IsSpace) == line.Text {
		return nil
	}
	return []domain.Finding{{
		Category: domain.CategoryStyle,
		File:     line.File,
		Line:     line.Number,
		Message:  "trailing whitespace",
		Rule:     RuleTrailingWhitespace,
	}}
}

// SplitLines splits content into lines without terminators. A final
// terminator does not start an extra empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
