package scoring

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/codequal/codequal/internal/domain"
)

// Rule ids for findings derived from structural facts.
const (
	RuleParseError        = "parse-error"
	RuleFileTooLong       = "file-too-long"
	RuleFunctionTooLong   = "function-too-long"
	RuleTooManyParameters = "too-many-parameters"
	RuleMissingDocstring  = "missing-docstring"
	RuleUnusedImport      = "unused-import"
)

// Derive turns one file's structural facts into complexity, docstring and
// import findings. A parse error yields a single complexity finding and
// suppresses every other structural check for the file.
func Derive(facts *domain.FileFacts, content []byte, cfg domain.ProjectConfig) []domain.Finding {
	if facts == nil {
		return nil
	}
	var out []domain.Finding

	if facts.Lines > cfg.MaxFileLines {
		out = append(out, domain.Finding{
			Category: domain.CategoryComplexity,
			File:     facts.Path,
			Message:  fmt.Sprintf("file is too long (%d lines > %d)", facts.Lines, cfg.MaxFileLines),
			Rule:     RuleFileTooLong,
		})
	}

	if facts.ParseError != nil {
		return append(out, domain.Finding{
			Category: domain.CategoryComplexity,
			File:     facts.Path,
			Line:     facts.ParseError.Line,
			Message:  "syntax error: " + facts.ParseError.Message,
			Rule:     RuleParseError,
		})
	}

	out = append(out, complexityFindings(facts, cfg)...)
	out = append(out, docstringFindings(facts, cfg.Language)...)
	out = append(out, unusedImportFindings(facts, content)...)
	return out
}

func complexityFindings(facts *domain.FileFacts, cfg domain.ProjectConfig) []domain.Finding {
	var out []domain.Finding
	for _, fn := range facts.Functions {
		if span := fn.Span(); span > cfg.MaxFunctionLines {
			out = append(out, domain.Finding{
				Category: domain.CategoryComplexity,
				File:     facts.Path,
				Line:     fn.Line,
				Message:  fmt.Sprintf("function %q is too long (%d lines > %d)", fn.Name, span, cfg.MaxFunctionLines),
				Rule:     RuleFunctionTooLong,
			})
		}
		if fn.Params > cfg.MaxParameters {
			out = append(out, domain.Finding{
				Category: domain.CategoryComplexity,
				File:     facts.Path,
				Line:     fn.Line,
				Message:  fmt.Sprintf("function %q has too many parameters (%d > %d)", fn.Name, fn.Params, cfg.MaxParameters),
				Rule:     RuleTooManyParameters,
			})
		}
	}
	return out
}

// docstringFindings flags public definitions without a docstring, in source
// order across functions and classes.
func docstringFindings(facts *domain.FileFacts, lang domain.Language) []domain.Finding {
	type def struct {
		kind, name string
		line       int
		documented bool
	}
	var defs []def
	for _, c := range facts.Classes {
		defs = append(defs, def{"class", c.Name, c.Line, c.HasDocstring})
	}
	for _, fn := range facts.Functions {
		defs = append(defs, def{"function", fn.Name, fn.Line, fn.HasDocstring})
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].line < defs[j].line })

	var out []domain.Finding
	for _, d := range defs {
		if d.documented || lang.IsPrivate(d.name) {
			continue
		}
		out = append(out, domain.Finding{
			Category: domain.CategoryDocstrings,
			File:     facts.Path,
			Line:     d.line,
			Message:  fmt.Sprintf("%s %q is missing a docstring", d.kind, d.name),
			Rule:     RuleMissingDocstring,
		})
	}
	return out
}

// unusedImportFindings flags top-level imports whose bound name never
// reappears as a whole word outside the import statement's own lines. This
// is a best-effort heuristic: re-exports, names listed only in __all__ and
// string-based references can produce false positives, and a name that only
// appears in a comment or string counts as used.
func unusedImportFindings(facts *domain.FileFacts, content []byte) []domain.Finding {
	if len(facts.Imports) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")

	var out []domain.Finding
	for _, imp := range facts.Imports {
		if !imp.TopLevel || imp.Module == "__future__" {
			continue
		}
		rest := textOutside(lines, imp.Line, imp.EndLine)
		for _, n := range imp.Names {
			if n.Bound == "" || n.Name == "*" || n.Bound == "_" || n.Bound == "." {
				continue
			}
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(n.Bound) + `\b`)
			if re.MatchString(rest) {
				continue
			}
			out = append(out, domain.Finding{
				Category: domain.CategoryImports,
				File:     facts.Path,
				Line:     imp.Line,
				Message:  fmt.Sprintf("%q imported but unused", importLabel(imp, n)),
				Rule:     RuleUnusedImport,
			})
		}
	}
	return out
}

func importLabel(imp domain.ImportFacts, n domain.ImportName) string {
	if imp.From {
		sep := "."
		if strings.HasSuffix(imp.Module, ".") {
			sep = ""
		}
		return imp.Module + sep + n.Name
	}
	return n.Name
}

// textOutside joins every line except the 1-indexed inclusive range [from, to].
func textOutside(lines []string, from, to int) string {
	var b strings.Builder
	for i, l := range lines {
		n := i + 1
		if n >= from && n <= to {
			continue
		}
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
