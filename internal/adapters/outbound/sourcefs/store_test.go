package sourcefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/adapters/outbound/sourcefs"
)

func TestWriteAtomic_ReplacesContentAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1   \n"), 0o755))

	store := sourcefs.New()
	require.NoError(t, store.WriteAtomic(path, []byte("x = 1\n")))

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestWriteAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.py")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	require.NoError(t, sourcefs.New().WriteAtomic(path, []byte("b\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "m.py", entries[0].Name())
}

func TestWriteAtomic_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.py")
	require.NoError(t, sourcefs.New().WriteAtomic(path, []byte("pass\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteAtomic_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "m.py")
	err := sourcefs.New().WriteAtomic(path, []byte("x\n"))
	assert.Error(t, err)
}
