package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/codequal/codequal/internal/domain"
)

// Record is the persisted shape of a QualityReport. Findings keep the fixed
// category order and file-level findings carry a null line.
type Record struct {
	Timestamp    string             `json:"timestamp"`
	Root         string             `json:"root"`
	Language     domain.Language    `json:"language"`
	TotalFiles   int                `json:"total_files"`
	QualityScore float64            `json:"quality_score"`
	Grade        string             `json:"grade"`
	CommitHash   string             `json:"commit_hash,omitempty"`
	Summary      Summary            `json:"summary"`
	Findings     FindingsByCategory `json:"findings"`
	Errors       []domain.FileError `json:"errors"`
}

// Summary holds the per-category and per-severity counts.
type Summary struct {
	TotalFindings int            `json:"total_findings"`
	Complexity    int            `json:"complexity"`
	Security      int            `json:"security"`
	Style         int            `json:"style"`
	Imports       int            `json:"imports"`
	Docstrings    int            `json:"docstrings"`
	Severity      SeverityCounts `json:"security_by_severity"`
}

type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// FindingsByCategory is a struct rather than a map so the JSON keys come out
// in report order.
type FindingsByCategory struct {
	Complexity []Item `json:"complexity"`
	Security   []Item `json:"security"`
	Style      []Item `json:"style"`
	Imports    []Item `json:"imports"`
	Docstrings []Item `json:"docstrings"`
}

// Item is one finding in the record.
type Item struct {
	File     string          `json:"file"`
	Line     *int            `json:"line"`
	Issue    string          `json:"issue"`
	Severity domain.Severity `json:"severity,omitempty"`
	Rule     string          `json:"rule,omitempty"`
}

// NewRecord converts a report into its persisted form.
func NewRecord(r *domain.QualityReport) Record {
	errs := r.Errors
	if errs == nil {
		errs = []domain.FileError{}
	}
	return Record{
		Timestamp:    r.Timestamp.UTC().Format(time.RFC3339),
		Root:         r.Root,
		Language:     r.Language,
		TotalFiles:   r.TotalFiles,
		QualityScore: r.QualityScore,
		Grade:        r.Grade(),
		CommitHash:   r.CommitHash,
		Summary: Summary{
			TotalFindings: r.TotalFindings(),
			Complexity:    r.Count(domain.CategoryComplexity),
			Security:      r.Count(domain.CategorySecurity),
			Style:         r.Count(domain.CategoryStyle),
			Imports:       r.Count(domain.CategoryImports),
			Docstrings:    r.Count(domain.CategoryDocstrings),
			Severity: SeverityCounts{
				High:   r.CountSeverity(domain.SeverityHigh),
				Medium: r.CountSeverity(domain.SeverityMedium),
				Low:    r.CountSeverity(domain.SeverityLow),
			},
		},
		Findings: FindingsByCategory{
			Complexity: items(r.Findings[domain.CategoryComplexity]),
			Security:   items(r.Findings[domain.CategorySecurity]),
			Style:      items(r.Findings[domain.CategoryStyle]),
			Imports:    items(r.Findings[domain.CategoryImports]),
			Docstrings: items(r.Findings[domain.CategoryDocstrings]),
		},
		Errors: errs,
	}
}

func items(fs []domain.Finding) []Item {
	out := make([]Item, 0, len(fs))
	for _, f := range fs {
		it := Item{File: f.File, Issue: f.Message, Severity: f.Severity, Rule: f.Rule}
		if f.Line > 0 {
			line := f.Line
			it.Line = &line
		}
		out = append(out, it)
	}
	return out
}

// MarshalJSON renders the report record as indented JSON.
func MarshalJSON(r *domain.QualityReport) ([]byte, error) {
	data, err := json.MarshalIndent(NewRecord(r), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes the report record to path.
func WriteJSON(r *domain.QualityReport, path string) error {
	data, err := MarshalJSON(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
