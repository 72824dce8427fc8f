package pysrc

import "strings"

// BlockKind distinguishes function and class definitions.
type BlockKind int

const (
	Def BlockKind = iota + 1
	Class
)

// Block is one def, async def or class statement.
type Block struct {
	Kind  BlockKind
	Name  string
	Async bool
	// Line is the line of the def/class keyword. DecoratorLine is the
	// first decorator line, or Line when undecorated.
	Line          int
	DecoratorLine int
	HeaderEnd     int
	End           int
	Indent        int
	Params        int
	Docstring     bool
	// Inline is set when the body follows the colon on the header line.
	Inline     bool
	BodyLine   int
	BodyIndent int
	Nested     bool
}

// Span is the inclusive number of physical lines from the def/class line
// to the last line of the body.
func (b Block) Span() int { return b.End - b.Line + 1 }

// ImportedName is one name brought in by an import statement and the
// identifier it binds.
type ImportedName struct {
	Name  string
	Bound string
}

// Import is one import or from-import statement.
type Import struct {
	Module string
	Names  []ImportedName
	Line   int
	End    int
	Indent int
	From   bool
}

// Module is the recovered structure of one source file.
type Module struct {
	Lines   []Line
	Blocks  []Block
	Imports []Import
}

// Parse tokenizes src and recovers definitions and imports. A non-nil error
// is always a *SyntaxError; the partial Module is still returned.
func Parse(src string) (*Module, error) {
	lines, err := Tokenize(src)
	m := &Module{Lines: lines}
	if err != nil {
		return m, err
	}

	indents := []int{0}
	expectIndent := false
	pendingBody := -1
	decoratorLine := 0
	prevEnd := 0
	var open []int

	for _, ln := range statements(lines) {
		top := indents[len(indents)-1]
		switch {
		case ln.Indent > top:
			if !expectIndent {
				return m, &SyntaxError{Line: ln.Start, Msg: "unexpected indent"}
			}
			indents = append(indents, ln.Indent)
		case expectIndent:
			return m, &SyntaxError{Line: ln.Start, Msg: "expected an indented block"}
		case ln.Indent < top:
			for len(indents) > 1 && indents[len(indents)-1] > ln.Indent {
				indents = indents[:len(indents)-1]
			}
			if indents[len(indents)-1] != ln.Indent {
				return m, &SyntaxError{Line: ln.Start, Msg: "unindent does not match any outer indentation level"}
			}
		}

		for len(open) > 0 && m.Blocks[open[len(open)-1]].Indent >= ln.Indent {
			m.Blocks[open[len(open)-1]].End = prevEnd
			open = open[:len(open)-1]
		}

		if pendingBody >= 0 {
			b := &m.Blocks[pendingBody]
			b.BodyLine = ln.Start
			b.BodyIndent = ln.Indent
			b.Docstring = isDocstring(ln.Tokens)
			pendingBody = -1
		}
		expectIndent = false

		decorator := len(ln.Tokens) > 0 && ln.Tokens[0].Is(Op, "@")
		switch kw := ln.Keyword(); {
		case decorator:
			if decoratorLine == 0 {
				decoratorLine = ln.Start
			}
		case kw == "def" || kw == "class" || (kw == "async" && len(ln.Tokens) > 1 && ln.Tokens[1].Is(Name, "def")):
			b, err := parseHeader(ln)
			if err != nil {
				return m, err
			}
			b.Nested = len(open) > 0
			b.DecoratorLine = b.Line
			if decoratorLine > 0 {
				b.DecoratorLine = decoratorLine
			}
			m.Blocks = append(m.Blocks, b)
			if !b.Inline {
				open = append(open, len(m.Blocks)-1)
				pendingBody = len(m.Blocks) - 1
			}
		case kw == "import" || kw == "from":
			if imp, ok := parseImport(ln); ok {
				m.Imports = append(m.Imports, imp)
			}
		}
		if !decorator {
			decoratorLine = 0
		}

		if last := ln.Tokens[len(ln.Tokens)-1]; last.Is(Op, ":") && last.Depth == 0 {
			expectIndent = true
		}
		prevEnd = ln.End
	}

	if expectIndent {
		return m, &SyntaxError{Line: prevEnd, Msg: "expected an indented block"}
	}
	for _, idx := range open {
		m.Blocks[idx].End = prevEnd
	}
	return m, nil
}

// compoundKeywords start statements that own a block. Their inline bodies
// may contain semicolons, which belong to the body.
var compoundKeywords = map[string]bool{
	"def": true, "class": true, "async": true, "if": true, "elif": true,
	"else": true, "for": true, "while": true, "with": true, "try": true,
	"except": true, "finally": true,
}

// statements splits simple statements joined by top-level semicolons into
// separate lines sharing the original indent.
func statements(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, ln := range lines {
		if compoundKeywords[ln.Keyword()] || ln.Tokens[0].Is(Op, "@") {
			out = append(out, ln)
			continue
		}
		start := 0
		for j, t := range ln.Tokens {
			if !t.Is(Op, ";") || t.Depth != 0 {
				continue
			}
			out = appendStatement(out, ln, ln.Tokens[start:j], t.Line)
			start = j + 1
		}
		out = appendStatement(out, ln, ln.Tokens[start:], ln.End)
	}
	return out
}

func appendStatement(out []Line, ln Line, toks []Token, end int) []Line {
	if len(toks) == 0 {
		return out
	}
	return append(out, Line{Start: toks[0].Line, End: max(end, toks[0].Line), Indent: ln.Indent, Tokens: toks})
}

func parseHeader(ln Line) (Block, error) {
	toks := ln.Tokens
	b := Block{Line: ln.Start, HeaderEnd: ln.End, End: ln.End, Indent: ln.Indent}

	i := 0
	if toks[0].Is(Name, "async") {
		b.Async = true
		i++
	}
	b.Kind = Def
	if toks[i].Text == "class" {
		b.Kind = Class
	}
	i++
	if i >= len(toks) || toks[i].Kind != Name {
		return b, &SyntaxError{Line: ln.Start, Msg: "invalid syntax"}
	}
	b.Name = toks[i].Text
	i++

	if b.Kind == Def {
		// PEP 695 type parameters: def f[T](x: T) -> T
		if i < len(toks) && toks[i].Is(Op, "[") {
			i = matchingClose(toks, i) + 1
		}
		if i >= len(toks) || !toks[i].Is(Op, "(") {
			return b, &SyntaxError{Line: ln.Start, Msg: "expected '('"}
		}
		end := matchingClose(toks, i)
		b.Params = countParams(toks[i+1 : end])
		i = end + 1
	}

	colon := -1
	for j := i; j < len(toks); j++ {
		if toks[j].Is(Op, ":") && toks[j].Depth == 0 {
			colon = j
			break
		}
	}
	if colon < 0 {
		return b, &SyntaxError{Line: ln.End, Msg: "expected ':'"}
	}

	if colon < len(toks)-1 {
		b.Inline = true
		body := toks[colon+1:]
		for j, t := range body {
			if t.Is(Op, ";") && t.Depth == 0 {
				body = body[:j]
				break
			}
		}
		b.Docstring = isDocstring(body)
	}
	return b, nil
}

// matchingClose returns the index of the bracket closing toks[open].
func matchingClose(toks []Token, open int) int {
	depth := toks[open].Depth
	for j := open + 1; j < len(toks); j++ {
		if toks[j].Depth == depth && toks[j].Kind == Op && strings.ContainsAny(toks[j].Text, ")]}") {
			return j
		}
	}
	return len(toks) - 1
}

// countParams counts declared parameter names, including self, *args and
// **kwargs. The bare * and / separators are not parameters.
func countParams(toks []Token) int {
	if len(toks) == 0 {
		return 0
	}
	depth := toks[0].Depth
	n := 0
	seg := 0
	flush := func(first Token) {
		if seg == 0 {
			return
		}
		if seg == 1 && (first.Is(Op, "*") || first.Is(Op, "/")) {
			return
		}
		n++
	}
	var first Token
	for _, t := range toks {
		if t.Is(Op, ",") && t.Depth == depth {
			flush(first)
			seg = 0
			continue
		}
		if seg == 0 {
			first = t
		}
		seg++
	}
	flush(first)
	return n
}

// isDocstring reports whether a statement consists only of plain string
// literals. Byte strings and f-strings do not count.
func isDocstring(toks []Token) bool {
	if len(toks) == 0 {
		return false
	}
	for _, t := range toks {
		if t.Kind != String {
			return false
		}
		if strings.ContainsAny(StringPrefix(t), "bf") {
			return false
		}
	}
	return true
}

func parseImport(ln Line) (Import, bool) {
	toks := ln.Tokens
	imp := Import{Line: ln.Start, End: ln.End, Indent: ln.Indent}

	if toks[0].Text == "import" {
		for _, seg := range splitTopLevel(toks[1:]) {
			name, alias := dottedWithAlias(seg)
			if name == "" {
				continue
			}
			bound := alias
			if bound == "" {
				bound = strings.SplitN(name, ".", 2)[0]
			}
			imp.Names = append(imp.Names, ImportedName{Name: name, Bound: bound})
		}
		return imp, len(imp.Names) > 0
	}

	imp.From = true
	i := 1
	var mod strings.Builder
	for ; i < len(toks) && !toks[i].Is(Name, "import"); i++ {
		mod.WriteString(toks[i].Text)
	}
	if i >= len(toks) {
		return imp, false
	}
	imp.Module = mod.String()

	var rest []Token
	for _, t := range toks[i+1:] {
		if t.Is(Op, "(") || t.Is(Op, ")") {
			continue
		}
		rest = append(rest, t)
	}
	for _, seg := range splitTopLevel(rest) {
		if len(seg) == 1 && seg[0].Is(Op, "*") {
			imp.Names = append(imp.Names, ImportedName{Name: "*"})
			continue
		}
		name, alias := dottedWithAlias(seg)
		if name == "" {
			continue
		}
		bound := alias
		if bound == "" {
			bound = name
		}
		imp.Names = append(imp.Names, ImportedName{Name: name, Bound: bound})
	}
	return imp, len(imp.Names) > 0
}

// splitTopLevel splits tokens on commas outside brackets. Parentheses around
// a from-import name list are removed by the caller, so every comma counts.
func splitTopLevel(toks []Token) [][]Token {
	var out [][]Token
	var cur []Token
	for _, t := range toks {
		if t.Is(Op, ",") {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func dottedWithAlias(seg []Token) (name, alias string) {
	var b strings.Builder
	for i := 0; i < len(seg); i++ {
		if seg[i].Is(Name, "as") {
			if i+1 < len(seg) {
				alias = seg[i+1].Text
			}
			break
		}
		b.WriteString(seg[i].Text)
	}
	return b.String(), alias
}
