package scoring

import (
	"time"

	"github.com/codequal/codequal/internal/domain"
)

// ReportBuilder accumulates per-file results into one QualityReport. It is
// passed explicitly through the pipeline and is not safe for concurrent use;
// workers hand their results back and the caller adds them in collection
// order so the report is deterministic.
type ReportBuilder struct {
	root     string
	cfg      domain.ProjectConfig
	files    int
	findings map[domain.Category][]domain.Finding
	errors   []domain.FileError
}

// NewReportBuilder creates an empty builder for a scan of root.
func NewReportBuilder(root string, cfg domain.ProjectConfig) *ReportBuilder {
	findings := make(map[domain.Category][]domain.Finding, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		findings[c] = []domain.Finding{}
	}
	return &ReportBuilder{root: root, cfg: cfg, findings: findings}
}

// AddResult records one analyzed file and its findings. Findings whose
// category or rule is disabled in the config are dropped here.
func (b *ReportBuilder) AddResult(res *domain.FileResult) {
	if res == nil {
		return
	}
	b.files++
	for _, f := range res.Findings {
		if b.cfg.IsSkippedCategory(f.Category) || (f.Rule != "" && b.cfg.IsSkippedRule(f.Rule)) {
			continue
		}
		b.findings[f.Category] = append(b.findings[f.Category], f)
	}
}

// AddError records a file that could not be read. It does not count toward
// the scanned total.
func (b *ReportBuilder) AddError(file string, err error) {
	b.errors = append(b.errors, domain.FileError{File: file, Err: err.Error()})
}

// Build produces the report and computes its score.
func (b *ReportBuilder) Build(at time.Time) *domain.QualityReport {
	r := &domain.QualityReport{
		Timestamp:  at,
		Root:       b.root,
		Language:   b.cfg.Language,
		TotalFiles: b.files,
		Findings:   b.findings,
		Errors:     b.errors,
	}
	r.QualityScore = QualityScore(CountsOf(r))
	return r
}
