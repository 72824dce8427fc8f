package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codequal/codequal/internal/domain"
)

const (
	dirName  = ".codequal"
	fileName = "history.json"
)

// DefaultLimit bounds the log; the oldest runs are dropped first.
const DefaultLimit = 200

// Log implements domain.ScoreHistory as a JSON array under
// <project>/.codequal/history.json.
type Log struct {
	limit int
}

func New() *Log {
	return &Log{limit: DefaultLimit}
}

// WithLimit changes how many runs are kept. n <= 0 keeps everything.
func (l *Log) WithLimit(n int) *Log {
	l.limit = n
	return l
}

func logPath(projectPath string) string {
	return filepath.Join(projectPath, dirName, fileName)
}

// Save appends entry and replaces the log atomically.
func (l *Log) Save(projectPath string, entry domain.HistoryEntry) error {
	entries, err := l.Load(projectPath)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if l.limit > 0 && len(entries) > l.limit {
		entries = entries[len(entries)-l.limit:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	dest := logPath(projectPath)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), fileName+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// Load returns every stored run, oldest first. A missing log is empty.
func (l *Log) Load(projectPath string) ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(logPath(projectPath))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	return entries, nil
}
