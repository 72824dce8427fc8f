package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/codequal/codequal/internal/domain"
)

// DefaultExcludes are directory names that are always skipped. A directory
// is skipped when any segment of its relative path equals one of them.
var DefaultExcludes = []string{
	".git",
	".hg",
	".svn",
	"venv",
	".venv",
	"env",
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	".tox",
	"node_modules",
	".codequal",
}

// FileScanner implements domain.FileCollector by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Collect returns every file under root with the language's extension whose
// path is not excluded. Unreadable
// directories are recorded and skipped; a missing root is an error.
func (s *FileScanner) Collect(root string, lang domain.Language, excludes ...string) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid root %s: not a directory", root)
	}

	patterns := excludePatterns(excludes)
	result := &domain.ScanResult{
		RootPath: absPath,
		Language: lang,
	}
	ext := lang.Extension()

	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, walkErr error) error {
		relPath, _ := filepath.Rel(absPath, path)
		rel := filepath.ToSlash(relPath)

		if walkErr != nil {
			if path == absPath {
				return walkErr
			}
			slog.Warn("skipping unreadable path", "path", rel, "error", walkErr)
			result.Errors = append(result.Errors, domain.FileError{File: rel, Err: walkErr.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != absPath && excluded(rel+"/", patterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ext) || excluded(rel, patterns) {
			return nil
		}
		result.Files = append(result.Files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(result.Files)
	return result, nil
}

// Excluded reports whether the slash-separated relative path is skipped by
// the default exclusions or by excludes. Directories must carry a trailing
// slash.
func Excluded(rel string, excludes ...string) bool {
	return excluded(rel, excludePatterns(excludes))
}

func excludePatterns(excludes []string) []string {
	patterns := make([]string, 0, len(excludes))
	for _, e := range excludes {
		if e = strings.TrimSpace(filepath.ToSlash(e)); e != "" {
			patterns = append(patterns, e)
		}
	}
	return patterns
}

// excluded matches the defaults against directory segments and the
// caller's patterns as substrings of the whole path.
func excluded(rel string, patterns []string) bool {
	dirs := strings.Split(rel, "/")
	dirs = dirs[:len(dirs)-1]
	for _, d := range dirs {
		if slices.Contains(DefaultExcludes, d) {
			return true
		}
	}
	for _, p := range patterns {
		if strings.Contains(rel, p) {
			return true
		}
	}
	return false
}
