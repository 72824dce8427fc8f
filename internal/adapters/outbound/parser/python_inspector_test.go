package parser_test

import (
	"os"
	"testing"

	"github.com/codequal/codequal/internal/adapters/outbound/parser"
	"github.com/codequal/codequal/internal/domain"
	"github.com/codequal/codequal/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const servicePath = "../../../../testdata/python/project/app/service.py"

func TestPythonInspector_Fixture(t *testing.T) {
	content, err := os.ReadFile(servicePath)
	require.NoError(t, err)

	facts := parser.NewPythonInspector().Inspect("app/service.py", content)
	require.Nil(t, facts.ParseError)

	names := make([]string, len(facts.Functions))
	for i, f := range facts.Functions {
		names[i] = f.Name
	}
	assert.Contains(t, names, "load_user")
	assert.Contains(t, names, "_cache_key")
	require.NotEmpty(t, facts.Classes)
	assert.Equal(t, "UserService", facts.Classes[0].Name)
}

func TestPythonInspector_Facts(t *testing.T) {
	src := `import os
from typing import List


class Repo:
    """Stores things."""

    def add(self, item):
        self.items.append(item)


def build(a, b, c, d, e, f, g, h):
    def inner():
        return 1
    return inner()
`
	facts := parser.NewPythonInspector().Inspect("repo.py", []byte(src))
	require.Nil(t, facts.ParseError)
	assert.Equal(t, 15, facts.Lines)

	require.Len(t, facts.Classes, 1)
	assert.True(t, facts.Classes[0].HasDocstring)
	assert.Equal(t, 9, facts.Classes[0].EndLine)

	require.Len(t, facts.Functions, 3)
	assert.Equal(t, domain.FunctionFacts{Name: "add", File: "repo.py", Line: 8, EndLine: 9, Params: 2, Nested: true}, facts.Functions[0])
	assert.Equal(t, 8, facts.Functions[1].Params)
	assert.Equal(t, 12, facts.Functions[1].Line)
	assert.Equal(t, 15, facts.Functions[1].EndLine)
	assert.True(t, facts.Functions[2].Nested)

	require.Len(t, facts.Imports, 2)
	assert.True(t, facts.Imports[1].From)
	assert.Equal(t, "typing", facts.Imports[1].Module)
	assert.True(t, facts.Imports[1].TopLevel)
}

func TestPythonInspector_ParseError(t *testing.T) {
	facts := parser.NewPythonInspector().Inspect("bad.py", []byte("def f(:\n    pass\n  x = 1\n"))
	require.NotNil(t, facts.ParseError)
	assert.Empty(t, facts.Functions)
}

func TestForLanguage(t *testing.T) {
	assert.IsType(t, &parser.PythonInspector{}, parser.ForLanguage(domain.LanguagePython))
	assert.IsType(t, &parser.GoInspector{}, parser.ForLanguage(domain.LanguageGo))
}

func TestPythonInspector_SemicolonImportsAreSeparate(t *testing.T) {
	content := []byte("import os; import sys\n\nprint(os.getcwd(), sys.argv)\n")

	facts := parser.NewPythonInspector().Inspect("cli.py", content)
	require.Nil(t, facts.ParseError)
	require.Len(t, facts.Imports, 2)
	assert.Equal(t, "os", facts.Imports[0].Names[0].Bound)
	assert.Equal(t, "sys", facts.Imports[1].Names[0].Bound)

	for _, f := range scoring.Derive(facts, content, domain.DefaultConfig()) {
		assert.NotEqual(t, domain.CategoryImports, f.Category, "unexpected finding: %s", f.Message)
	}
}

func TestPythonInspector_GenericFunctionParses(t *testing.T) {
	content := []byte("def first[T](items: list[T]) -> T:\n    \"\"\"Return the first item.\"\"\"\n    return items[0]\n")

	facts := parser.NewPythonInspector().Inspect("generic.py", content)
	require.Nil(t, facts.ParseError)
	require.Len(t, facts.Functions, 1)
	assert.Equal(t, 1, facts.Functions[0].Params)
	assert.True(t, facts.Functions[0].HasDocstring)
}
