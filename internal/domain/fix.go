package domain

// FixOptions controls one fix run.
type FixOptions struct {
	DryRun     bool     `json:"dry_run"`
	Force      bool     `json:"force"`
	Docstrings bool     `json:"docstrings"`
	Only       []string `json:"only,omitempty"`
	Excludes   []string `json:"excludes,omitempty"`
	Language   Language `json:"language,omitempty"`
}

// FixResult is the outcome of running the fix pipeline on one file.
type FixResult struct {
	File       string   `json:"file"`
	Changed    bool     `json:"changed"`
	Applied    int      `json:"applied"`
	Transforms []string `json:"transforms,omitempty"`
	Err        string   `json:"error,omitempty"`
}

// FixSummary is the outcome of one fix run.
type FixSummary struct {
	Root    string      `json:"root"`
	DryRun  bool        `json:"dry_run"`
	Results []FixResult `json:"results"`
}

// ChangedFiles returns how many files were (or would be) rewritten.
func (s *FixSummary) ChangedFiles() int {
	n := 0
	for _, r := range s.Results {
		if r.Changed {
			n++
		}
	}
	return n
}

// TotalApplied returns the total number of edits across all files.
func (s *FixSummary) TotalApplied() int {
	n := 0
	for _, r := range s.Results {
		n += r.Applied
	}
	return n
}
