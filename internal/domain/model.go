package domain

import (
	"bytes"
	"time"
)

// Category groups findings in the report. The order of AllCategories is the
// order used by every emitter.
type Category string

const (
	CategoryComplexity Category = "complexity"
	CategorySecurity   Category = "security"
	CategoryStyle      Category = "style"
	CategoryImports    Category = "imports"
	CategoryDocstrings Category = "docstrings"
)

// AllCategories lists every finding category in report order.
var AllCategories = []Category{
	CategoryComplexity,
	CategorySecurity,
	CategoryStyle,
	CategoryImports,
	CategoryDocstrings,
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, bool) {
	for _, c := range AllCategories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Severity classifies security findings only.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// AllSeverities lists severities from most to least severe.
var AllSeverities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Rank orders severities for sorting; lower is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// Finding is a single detected issue. Line is 0 for file-level findings.
type Finding struct {
	Category Category `json:"category"`
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity,omitempty"`
	Rule     string   `json:"rule,omitempty"`
}

// FileError records a non-fatal per-file failure.
type FileError struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

// QualityReport aggregates all findings of one scan.
type QualityReport struct {
	Timestamp    time.Time              `json:"timestamp"`
	Root         string                 `json:"root"`
	Language     Language               `json:"language"`
	TotalFiles   int                    `json:"total_files"`
	QualityScore float64                `json:"quality_score"`
	CommitHash   string                 `json:"commit_hash,omitempty"`
	Findings     map[Category][]Finding `json:"findings"`
	Errors       []FileError            `json:"errors,omitempty"`
}

// Count returns the number of findings in a category.
func (r *QualityReport) Count(c Category) int {
	return len(r.Findings[c])
}

// CountSeverity returns the number of security findings with the given severity.
func (r *QualityReport) CountSeverity(s Severity) int {
	n := 0
	for _, f := range r.Findings[CategorySecurity] {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// TotalFindings returns the number of findings across all categories.
func (r *QualityReport) TotalFindings() int {
	n := 0
	for _, c := range AllCategories {
		n += len(r.Findings[c])
	}
	return n
}

// FindingsForFile returns every finding for one file in category order.
func (r *QualityReport) FindingsForFile(file string) []Finding {
	var out []Finding
	for _, c := range AllCategories {
		for _, f := range r.Findings[c] {
			if f.File == file {
				out = append(out, f)
			}
		}
	}
	return out
}

// Grade maps the score onto a letter grade.
func (r *QualityReport) Grade() string { return GradeFor(r.QualityScore) }

func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// SourceFile is one collected file read into memory. Path is root-relative
// and slash separated.
type SourceFile struct {
	Path    string
	AbsPath string
	Content []byte
}

// Lines is the physical line count of the file.
func (f SourceFile) Lines() int { return CountLines(f.Content) }

// CountLines counts physical lines; a final line without a terminator still
// counts.
func CountLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte("\n"))
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

// FunctionFacts describes one function or method definition.
type FunctionFacts struct {
	Name         string `msgpack:"name"`
	File         string `msgpack:"file"`
	Line         int    `msgpack:"line"`
	EndLine      int    `msgpack:"end_line"`
	Params       int    `msgpack:"params"`
	HasDocstring bool   `msgpack:"has_docstring"`
	Nested       bool   `msgpack:"nested"`
}

// Span is the inclusive number of lines the definition covers.
func (f FunctionFacts) Span() int {
	return f.EndLine - f.Line + 1
}

// ClassFacts describes one class (or named type) definition.
type ClassFacts struct {
	Name         string `msgpack:"name"`
	File         string `msgpack:"file"`
	Line         int    `msgpack:"line"`
	EndLine      int    `msgpack:"end_line"`
	HasDocstring bool   `msgpack:"has_docstring"`
}

// ImportName is one imported name and the identifier it binds in the file.
type ImportName struct {
	Name  string `msgpack:"name"`
	Bound string `msgpack:"bound"`
}

// ImportFacts describes one import statement.
type ImportFacts struct {
	Module   string       `msgpack:"module"`
	Names    []ImportName `msgpack:"names"`
	Line     int          `msgpack:"line"`
	EndLine  int          `msgpack:"end_line"`
	TopLevel bool         `msgpack:"top_level"`
	From     bool         `msgpack:"from"`
}

// ParseError locates a syntax error.
type ParseError struct {
	Line    int    `msgpack:"line"`
	Message string `msgpack:"message"`
}

func (e *ParseError) Error() string { return e.Message }

// FileFacts holds the structural facts extracted from one file.
type FileFacts struct {
	Path       string          `msgpack:"path"`
	Lines      int             `msgpack:"lines"`
	Functions  []FunctionFacts `msgpack:"functions"`
	Classes    []ClassFacts    `msgpack:"classes"`
	Imports    []ImportFacts   `msgpack:"imports"`
	ParseError *ParseError     `msgpack:"parse_error"`
}

// FileResult is everything the analysis pipeline produced for one file.
type FileResult struct {
	Path     string     `msgpack:"path"`
	Facts    *FileFacts `msgpack:"facts"`
	Findings []Finding  `msgpack:"findings"`
}
