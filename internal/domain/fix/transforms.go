package fix

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/camelcase"

	"github.com/codequal/codequal/internal/domain"
	"github.com/codequal/codequal/internal/domain/pysrc"
)

// Transform is one idempotent text rewrite. Apply returns the rewritten
// source and the number of edits made; zero edits means src is returned
// unchanged.
type Transform interface {
	Name() string
	Apply(src string) (string, int)
}

// TrailingWhitespace trims whitespace from the end of every line and keeps
// each line's terminator.
type TrailingWhitespace struct{}

func (TrailingWhitespace) Name() string { return domain.TransformTrailingWhitespace }

func (TrailingWhitespace) Apply(src string) (string, int) {
	lines := splitLines(src)
	n := 0
	for i, l := range lines {
		trimmed := strings.TrimRightFunc(l.text, unicode.IsSpace)
		if trimmed != l.text {
			lines[i].text = trimmed
			n++
		}
	}
	if n == 0 {
		return src, 0
	}
	return joinLines(lines), n
}

// BlankLines collapses every run of three or more blank lines to two.
type BlankLines struct{}

func (BlankLines) Name() string { return domain.TransformBlankLines }

func (BlankLines) Apply(src string) (string, int) {
	lines := splitLines(src)
	out := make([]line, 0, len(lines))
	n, run := 0, 0
	for _, l := range lines {
		if !isBlank(l.text) {
			run = 0
			out = append(out, l)
			continue
		}
		run++
		switch {
		case run <= 2:
			out = append(out, l)
		case run == 3:
			n++
		}
	}
	if n == 0 {
		return src, 0
	}
	return joinLines(out), n
}

// TopLevelSpacing inserts two blank lines before every top-level def or
// class whose preceding line is not blank. Decorators and column-zero
// comment lines directly above the definition move with it.
type TopLevelSpacing struct{}

func (TopLevelSpacing) Name() string { return domain.TransformTopLevelSpacing }

func (TopLevelSpacing) Apply(src string) (string, int) {
	m, err := pysrc.Parse(src)
	if err != nil {
		return src, 0
	}
	lines := splitLines(src)
	covered := coveredLines(m.Lines)

	insertBefore := map[int]bool{}
	for _, b := range m.Blocks {
		if b.Indent != 0 {
			continue
		}
		top := b.DecoratorLine
		for top > 1 && !covered[top-1] && strings.HasPrefix(lines[top-2].text, "#") {
			top--
		}
		if top <= 1 || isBlank(lines[top-2].text) {
			continue
		}
		insertBefore[top] = true
	}
	if len(insertBefore) == 0 {
		return src, 0
	}

	nl := newline(lines)
	out := make([]line, 0, len(lines)+2*len(insertBefore))
	for i, l := range lines {
		if insertBefore[i+1] {
			out = append(out, line{eol: nl}, line{eol: nl})
		}
		out = append(out, l)
	}
	return joinLines(out), len(insertBefore)
}

// WrapImports rewraps a single-line "from X import a, b, c" that is longer
// than Max and imports more than two names into one name per line inside
// parentheses. Lines with comments, semicolons, backslashes or parentheses
// are left alone.
type WrapImports struct {
	Max int
}

func (WrapImports) Name() string { return domain.TransformWrapImports }

func (w WrapImports) Apply(src string) (string, int) {
	logical, err := pysrc.Tokenize(src)
	if err != nil {
		return src, 0
	}
	lines := splitLines(src)

	replace := map[int][]line{}
	for _, ln := range logical {
		if ln.Start != ln.End || ln.Keyword() != "from" {
			continue
		}
		raw := lines[ln.Start-1].text
		if utf8.RuneCountInString(raw) <= w.Max || strings.ContainsAny(raw, "#;\\()") {
			continue
		}
		module, names, ok := fromImportParts(ln.Tokens)
		if !ok || len(names) <= 2 {
			continue
		}

		indent := leadingSpace(raw)
		eol := lines[ln.Start-1].eol
		nl := eol
		if nl == "" {
			nl = newline(lines)
		}
		wrapped := []line{{text: indent + "from " + module + " import (", eol: nl}}
		for _, name := range names {
			wrapped = append(wrapped, line{text: indent + "    " + name + ",", eol: nl})
		}
		wrapped = append(wrapped, line{text: indent + ")", eol: eol})
		replace[ln.Start] = wrapped
	}
	if len(replace) == 0 {
		return src, 0
	}

	var out []line
	for i, l := range lines {
		if r, ok := replace[i+1]; ok {
			out = append(out, r...)
			continue
		}
		out = append(out, l)
	}
	return joinLines(out), len(replace)
}

func fromImportParts(toks []pysrc.Token) (string, []string, bool) {
	var module strings.Builder
	i := 1
	for ; i < len(toks) && !toks[i].Is(pysrc.Name, "import"); i++ {
		module.WriteString(toks[i].Text)
	}
	if i >= len(toks)-1 {
		return "", nil, false
	}

	var names []string
	var cur []string
	for _, t := range toks[i+1:] {
		if t.Is(pysrc.Op, ",") {
			if len(cur) > 0 {
				names = append(names, strings.Join(cur, " "))
			}
			cur = nil
			continue
		}
		cur = append(cur, t.Text)
	}
	if len(cur) > 0 {
		names = append(names, strings.Join(cur, " "))
	}
	return module.String(), names, true
}

// Docstrings inserts a placeholder docstring into public functions that lack
// one and whose body starts on its own line. The placeholder is derived from
// the function name: get_user_name and getUserName both become
// """Get user name.""". Inserting a docstring documents the function, so a
// second pass finds nothing to do.
type Docstrings struct{}

func (Docstrings) Name() string { return domain.TransformDocstrings }

func (Docstrings) Apply(src string) (string, int) {
	m, err := pysrc.Parse(src)
	if err != nil {
		return src, 0
	}
	lines := splitLines(src)
	nl := newline(lines)

	insert := map[int]line{}
	for _, b := range m.Blocks {
		if b.Kind != pysrc.Def || b.Docstring || b.Inline || b.BodyLine <= b.HeaderEnd {
			continue
		}
		if domain.LanguagePython.IsPrivate(b.Name) {
			continue
		}
		indent := leadingSpace(lines[b.BodyLine-1].text)
		insert[b.BodyLine] = line{text: indent + `"""` + Placeholder(b.Name) + `"""`, eol: nl}
	}
	if len(insert) == 0 {
		return src, 0
	}

	keys := make([]int, 0, len(insert))
	for k := range insert {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]line, 0, len(lines)+len(insert))
	next := 0
	for i, l := range lines {
		if next < len(keys) && keys[next] == i+1 {
			out = append(out, insert[keys[next]])
			next++
		}
		out = append(out, l)
	}
	return joinLines(out), len(insert)
}

// Placeholder turns an identifier into a one-sentence docstring.
func Placeholder(name string) string {
	var words []string
	for _, part := range strings.Split(name, "_") {
		for _, w := range camelcase.Split(part) {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, strings.ToLower(w))
			}
		}
	}
	if len(words) == 0 {
		return name + "."
	}
	first := []rune(words[0])
	first[0] = unicode.ToUpper(first[0])
	words[0] = string(first)
	return strings.Join(words, " ") + "."
}

func coveredLines(logical []pysrc.Line) map[int]bool {
	covered := map[int]bool{}
	for _, ln := range logical {
		for n := ln.Start; n <= ln.End; n++ {
			covered[n] = true
		}
	}
	return covered
}
