package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCommand_WritesReportAndExitsZero(t *testing.T) {
	root := copyFixture(t, projectFixture)

	out, err := run(t, "analyze", root)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "Quality score: 74.8/100", lines[len(lines)-1])

	data, err := os.ReadFile(filepath.Join(root, "code_quality_report.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 74.8, doc["quality_score"])
	assert.Equal(t, float64(4), doc["total_files"])

	_, err = os.Stat(filepath.Join(root, ".codequal", "history.json"))
	assert.NoError(t, err)
}

func TestAnalyzeCommand_OutputDisabled(t *testing.T) {
	root := copyFixture(t, cleanFixture)

	_, err := run(t, "analyze", root, "--output", "-", "--no-history", "--no-cache")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "code_quality_report.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, ".codequal"))
	assert.True(t, os.IsNotExist(err))
}

func TestAnalyzeCommand_JSONAndSARIF(t *testing.T) {
	root := copyFixture(t, projectFixture)
	sarif := filepath.Join(t.TempDir(), "out.sarif")

	out, err := run(t, "analyze", root, "--json", "--sarif", sarif, "--output", "-")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), "output should be valid JSON")
	assert.Contains(t, doc, "findings")

	data, err := os.ReadFile(sarif)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "2.1.0"`)
}

func TestAnalyzeCommand_CI(t *testing.T) {
	root := copyFixture(t, projectFixture)

	_, err := run(t, "analyze", root, "--ci", "--min", "90", "--output", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum")

	_, err = run(t, "analyze", root, "--ci", "--min", "50", "--output", "-")
	assert.NoError(t, err)
}

func TestAnalyzeCommand_Top(t *testing.T) {
	root := copyFixture(t, projectFixture)

	out, err := run(t, "analyze", root, "--top", "0", "--output", "-")
	require.NoError(t, err)
	assert.NotContains(t, out, "app/utils.py:6")
	assert.Contains(t, out, "1 more")
}

func TestAnalyzeCommand_UnknownLanguage(t *testing.T) {
	_, err := run(t, "analyze", cleanFixture, "--lang", "cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown language")
}

func TestAnalyzeCommand_MissingRoot(t *testing.T) {
	_, err := run(t, "analyze", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestAnalyzeCommand_ExplicitConfig(t *testing.T) {
	root := copyFixture(t, projectFixture)
	cfg := filepath.Join(t.TempDir(), "ci.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("max_parameters: 10\nmax_line_length: 120\n"), 0o644))

	out, err := run(t, "--config", cfg, "analyze", root, "--json", "--output", "-")
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			Style int `json:"style"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Summary.Style)
}
