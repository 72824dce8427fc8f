package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "codequal dev")
}

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".codequal.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "language: python")
	assert.Contains(t, string(data), "max_line_length: 88")
}

func TestInitCmd_GoLanguage(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "init", dir, "--lang", "go")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".codequal.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "language: go")
}

func TestInitCmd_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codequal.yaml"), []byte("top_n: 3\n"), 0o644))

	_, err := run(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestHistoryCommand(t *testing.T) {
	root := copyFixture(t, cleanFixture)

	out, err := run(t, "history", root)
	require.NoError(t, err)
	assert.Contains(t, out, "No score history found.")

	_, err = run(t, "analyze", root, "--output", "-")
	require.NoError(t, err)

	out, err = run(t, "history", root)
	require.NoError(t, err)
	assert.Contains(t, out, "100/100")
}

func TestMCPCommand_HasServe(t *testing.T) {
	out, err := run(t, "mcp", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
}

func TestMCPServe_RejectsMissingPath(t *testing.T) {
	_, err := run(t, "mcp", "serve", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid project path")
}
