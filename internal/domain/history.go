package domain

import "time"

// HistoryEntry is one persisted analyze run.
type HistoryEntry struct {
	Timestamp    string           `json:"timestamp"`
	CommitHash   string           `json:"commit_hash,omitempty"`
	QualityScore float64          `json:"quality_score"`
	Grade        string           `json:"grade"`
	TotalFiles   int              `json:"total_files"`
	Counts       map[Category]int `json:"counts"`
}

// NewHistoryEntry summarizes a report for the history log.
func NewHistoryEntry(r *QualityReport) HistoryEntry {
	counts := make(map[Category]int, len(AllCategories))
	for _, c := range AllCategories {
		counts[c] = r.Count(c)
	}
	return HistoryEntry{
		Timestamp:    r.Timestamp.UTC().Format(time.RFC3339),
		CommitHash:   r.CommitHash,
		QualityScore: r.QualityScore,
		Grade:        r.Grade(),
		TotalFiles:   r.TotalFiles,
		Counts:       counts,
	}
}
