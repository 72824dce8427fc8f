package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/codequal/codequal/internal/domain"
)

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
	toolName     = "codequal"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// sarifLevel maps a finding onto a SARIF level: high and medium security
// findings are errors, low security and complexity are warnings, the rest
// are notes.
func sarifLevel(f domain.Finding) string {
	switch f.Category {
	case domain.CategorySecurity:
		if f.Severity == domain.SeverityLow {
			return "warning"
		}
		return "error"
	case domain.CategoryComplexity:
		return "warning"
	default:
		return "note"
	}
}

func buildSARIF(r *domain.QualityReport) sarifReport {
	results := []sarifResult{}
	var rules []sarifRule
	seen := map[string]bool{}

	for _, c := range domain.AllCategories {
		for _, f := range r.Findings[c] {
			id := f.Rule
			if id == "" {
				id = string(f.Category)
			}
			if !seen[id] {
				seen[id] = true
				rules = append(rules, sarifRule{ID: id})
			}

			loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: f.File},
			}}
			if f.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: f.Line}
			}
			results = append(results, sarifResult{
				RuleID:    id,
				Level:     sarifLevel(f),
				Message:   sarifMessage{Text: f.Message},
				Locations: []sarifLocation{loc},
			})
		}
	}

	return sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: toolName, Rules: rules}},
			Results: results,
		}},
	}
}

// WriteSARIF writes a SARIF v2.1.0 log with one result per finding.
func WriteSARIF(r *domain.QualityReport, path string) error {
	data, err := json.MarshalIndent(buildSARIF(r), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sarif: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sarif: %w", err)
	}
	return nil
}
