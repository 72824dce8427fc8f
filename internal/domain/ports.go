package domain

// FileCollector enumerates candidate source files under a root directory.
type FileCollector interface {
	Collect(root string, lang Language, excludes ...string) (*ScanResult, error)
}

// ScanResult holds the outcome of collecting a source tree.
type ScanResult struct {
	RootPath string      `json:"root_path"`
	Language Language    `json:"language"`
	Files    []string    `json:"files"`
	Errors   []FileError `json:"errors,omitempty"`
}

// SyntaxInspector extracts structural facts from one file. Syntax errors are
// reported through FileFacts.ParseError, never as a Go error.
type SyntaxInspector interface {
	Inspect(path string, content []byte) *FileFacts
}

// ConfigLoader loads project configuration from a project root.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// SourceStore reads and atomically rewrites source files.
type SourceStore interface {
	Read(path string) ([]byte, error)
	WriteAtomic(path string, data []byte) error
}

// AnalysisCache stores per-file results keyed by content and config.
type AnalysisCache interface {
	Get(key string) (*FileResult, bool)
	Put(key string, result *FileResult) error
}

// ScoreHistory persists one entry per analyze run.
type ScoreHistory interface {
	Save(projectPath string, entry HistoryEntry) error
	Load(projectPath string) ([]HistoryEntry, error)
}

// GitInfo answers version-control questions about a project root.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
	InWorkTree(projectPath string) bool
}
