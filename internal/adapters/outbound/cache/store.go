package cache

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/codequal/codequal/internal/domain"
)

// schemaVersion is bumped whenever the cached FileResult layout changes;
// entries written under another version are treated as misses.
const schemaVersion uint16 = 1

type entry struct {
	Schema uint16             `msgpack:"schema"`
	Result *domain.FileResult `msgpack:"result"`
}

// Store is a msgpack file-per-entry implementation of domain.AnalysisCache
// under <project>/.codequal/cache. It is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// New creates a cache store rooted in projectPath.
func New(projectPath string) *Store {
	return &Store{dir: filepath.Join(projectPath, ".codequal", "cache")}
}

func (s *Store) pathFor(key string) string {
	if len(key) < 3 {
		return filepath.Join(s.dir, key+".mp")
	}
	return filepath.Join(s.dir, key[:2], key+".mp")
}

// Get returns the cached result for key. Unreadable or stale entries are
// misses.
func (s *Store) Get(key string) (*domain.FileResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	defer f.Close()

	var e entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		slog.Debug("cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	if e.Schema != schemaVersion || e.Result == nil {
		return nil, false
	}
	return e.Result, true
}

// Put writes result under key atomically: encode to a temp file in the
// same directory, then rename over the final path.
func (s *Store) Put(key string, result *domain.FileResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(&entry{Schema: schemaVersion, Result: result}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Clear removes every cached entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(s.dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
