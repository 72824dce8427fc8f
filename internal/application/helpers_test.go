package application_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	projectFixture = "../../testdata/python/project"
	cleanFixture   = "../../testdata/python/clean"
)

// copyFixture copies a fixture tree into a temp dir so runs that write
// history, cache or fixed sources leave testdata untouched.
func copyFixture(t *testing.T, src string) string {
	t.Helper()
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return dst
}

type fakeGit struct {
	inTree bool
	hash   string
}

func (g fakeGit) InWorkTree(string) bool { return g.inTree }

func (g fakeGit) CommitHash(string) (string, error) {
	if g.hash == "" {
		return "", os.ErrNotExist
	}
	return g.hash, nil
}
