package scoring

import "github.com/codequal/codequal/internal/domain"

// Penalty weights in tenths of a point. Working in integer tenths keeps the
// 0.1-per-style-finding weight exact.
const (
	complexityWeight = 30
	complexityCap    = 300

	securityHighWeight   = 150
	securityMediumWeight = 80
	securityLowWeight    = 30

	styleWeight = 1
	styleCap    = 200

	importWeight = 10
	importCap    = 100

	maxTenths = 1000
)

// Counts are the finding counts the score depends on. Docstring findings do
// not affect the score.
type Counts struct {
	Complexity     int
	SecurityHigh   int
	SecurityMedium int
	SecurityLow    int
	Style          int
	Imports        int
}

// CountsOf tallies a report's findings.
func CountsOf(r *domain.QualityReport) Counts {
	return Counts{
		Complexity:     r.Count(domain.CategoryComplexity),
		SecurityHigh:   r.CountSeverity(domain.SeverityHigh),
		SecurityMedium: r.CountSeverity(domain.SeverityMedium),
		SecurityLow:    r.CountSeverity(domain.SeverityLow),
		Style:          r.Count(domain.CategoryStyle),
		Imports:        r.Count(domain.CategoryImports),
	}
}

// QualityScore computes the 0-100 score. Complexity, style and import
// penalties are capped; the security penalty is not, so security findings
// alone can drive the score to zero.
func QualityScore(c Counts) float64 {
	tenths := maxTenths
	tenths -= min(complexityWeight*c.Complexity, complexityCap)
	tenths -= SecurityPenaltyTenths(c.SecurityHigh, c.SecurityMedium, c.SecurityLow)
	tenths -= min(styleWeight*c.Style, styleCap)
	tenths -= min(importWeight*c.Imports, importCap)
	return float64(max(tenths, 0)) / 10
}

// SecurityPenaltyTenths is the uncapped security deduction in tenths of a point.
func SecurityPenaltyTenths(high, medium, low int) int {
	return securityHighWeight*high + securityMediumWeight*medium + securityLowWeight*low
}
