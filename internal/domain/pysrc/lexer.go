// Package pysrc splits Python source into logical lines and recovers the
// block structure needed for quality analysis: definitions, their spans,
// parameters, docstrings and import statements. It is not a full parser;
// expressions are tokenized but never interpreted.
package pysrc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a token.
type Kind int

const (
	Name Kind = iota + 1
	Number
	String
	Op
)

// Token is one lexical token. Depth is the bracket nesting level the token
// sits at; an opening bracket carries the depth outside it.
type Token struct {
	Kind  Kind
	Text  string
	Line  int
	Depth int
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Line is one logical line: a statement possibly spanning several physical
// lines through brackets, backslashes or multi-line strings. Comment-only
// and blank physical lines never produce a Line.
type Line struct {
	Start  int
	End    int
	Indent int
	Tokens []Token
}

// Keyword returns the text of the first token when it is a name.
func (l Line) Keyword() string {
	if len(l.Tokens) == 0 || l.Tokens[0].Kind != Name {
		return ""
	}
	return l.Tokens[0].Text
}

// SyntaxError locates a construct the lexer or block parser cannot accept.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

var (
	threeCharOps = []string{"**=", "//=", ">>=", "<<=", "..."}
	twoCharOps   = []string{
		"**", "//", "->", ":=", "==", "!=", "<=", ">=", "<<", ">>",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	}
	closers = map[byte]byte{')': '(', ']': '[', '}': '{'}
)

type lexer struct {
	src       string
	pos       int
	line      int
	stack     []byte
	stackLine []int
	lines     []Line
	cur       *Line
}

// Tokenize splits src into logical lines. On error the lines recognized so
// far are returned together with a *SyntaxError.
func Tokenize(src string) ([]Line, error) {
	lx := &lexer{src: src, line: 1}
	err := lx.run()
	return lx.lines, err
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		if lx.cur == nil && len(lx.stack) == 0 {
			indent, blank := lx.measureIndent()
			if blank {
				lx.skipLine()
				continue
			}
			lx.cur = &Line{Start: lx.line, End: lx.line, Indent: indent}
		}

		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			lx.pos++
		case c == '#':
			for lx.pos < len(lx.src) && !isNewline(lx.src[lx.pos]) {
				lx.pos++
			}
		case c == '\\':
			lx.pos++
			if lx.pos >= len(lx.src) {
				return lx.errorf(lx.line, "unexpected EOF after line continuation")
			}
			if !isNewline(lx.src[lx.pos]) {
				return lx.errorf(lx.line, "unexpected character after line continuation character")
			}
			lx.consumeNewline()
		case isNewline(c):
			lx.consumeNewline()
			if len(lx.stack) == 0 {
				lx.endLine()
			}
		case c == '"' || c == '\'':
			if err := lx.lexString(lx.pos); err != nil {
				return err
			}
		case c == '(' || c == '[' || c == '{':
			lx.emit(Op, string(c), lx.line)
			lx.stack = append(lx.stack, c)
			lx.stackLine = append(lx.stackLine, lx.line)
			lx.pos++
		case c == ')' || c == ']' || c == '}':
			if len(lx.stack) == 0 || lx.stack[len(lx.stack)-1] != closers[c] {
				return lx.errorf(lx.line, fmt.Sprintf("unmatched '%c'", c))
			}
			lx.stack = lx.stack[:len(lx.stack)-1]
			lx.stackLine = lx.stackLine[:len(lx.stackLine)-1]
			lx.emit(Op, string(c), lx.line)
			lx.pos++
		case isDigit(c) || (c == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])):
			lx.lexNumber()
		default:
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if r == '_' || unicode.IsLetter(r) {
				if err := lx.lexName(); err != nil {
					return err
				}
				continue
			}
			lx.lexOp(size)
		}
	}

	if len(lx.stack) > 0 {
		return lx.errorf(lx.stackLine[len(lx.stackLine)-1],
			fmt.Sprintf("'%c' was never closed", lx.stack[len(lx.stack)-1]))
	}
	lx.endLine()
	return nil
}

// measureIndent reads leading whitespace and reports whether the physical
// line is blank or comment-only. Tabs advance to the next multiple of eight.
func (lx *lexer) measureIndent() (int, bool) {
	col := 0
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ':
			col++
		case '\t':
			col = (col/8 + 1) * 8
		case '\f':
			col = 0
		default:
			c := lx.src[lx.pos]
			return col, isNewline(c) || c == '#'
		}
		lx.pos++
	}
	return col, true
}

func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && !isNewline(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos < len(lx.src) {
		lx.consumeNewline()
	}
}

func (lx *lexer) consumeNewline() {
	if lx.src[lx.pos] == '\r' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '\n' {
		lx.pos++
	}
	lx.pos++
	lx.line++
}

func (lx *lexer) endLine() {
	if lx.cur == nil {
		return
	}
	if len(lx.cur.Tokens) > 0 {
		lx.lines = append(lx.lines, *lx.cur)
	}
	lx.cur = nil
}

func (lx *lexer) emit(kind Kind, text string, line int) {
	lx.cur.Tokens = append(lx.cur.Tokens, Token{Kind: kind, Text: text, Line: line, Depth: len(lx.stack)})
	lx.cur.End = lx.line
}

func (lx *lexer) errorf(line int, msg string) error {
	return &SyntaxError{Line: line, Msg: msg}
}

func (lx *lexer) lexName() error {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		lx.pos += size
	}
	text := lx.src[start:lx.pos]
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == '"' || lx.src[lx.pos] == '\'') && isStringPrefix(text) {
		return lx.lexString(start)
	}
	lx.emit(Name, text, lx.line)
	return nil
}

func (lx *lexer) lexNumber() {
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if isDigit(c) || c == '.' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			lx.pos++
			continue
		}
		// exponent sign: 1e-5, 2E+3
		if (c == '-' || c == '+') && (lx.src[lx.pos-1] == 'e' || lx.src[lx.pos-1] == 'E') && !strings.HasPrefix(strings.ToLower(lx.src[start:lx.pos]), "0x") {
			lx.pos++
			continue
		}
		break
	}
	lx.emit(Number, lx.src[start:lx.pos], lx.line)
}

func (lx *lexer) lexOp(size int) {
	rest := lx.src[lx.pos:]
	for _, ops := range [][]string{threeCharOps, twoCharOps} {
		for _, op := range ops {
			if strings.HasPrefix(rest, op) {
				lx.emit(Op, op, lx.line)
				lx.pos += len(op)
				return
			}
		}
	}
	lx.emit(Op, rest[:size], lx.line)
	lx.pos += size
}

// lexString scans a string literal whose prefix starts at start; lx.pos sits
// on the opening quote.
func (lx *lexer) lexString(start int) error {
	startLine := lx.line
	q := lx.src[lx.pos]
	delim := string([]byte{q, q, q})
	triple := strings.HasPrefix(lx.src[lx.pos:], delim)
	if triple {
		lx.pos += 3
	} else {
		lx.pos++
	}

	for {
		if lx.pos >= len(lx.src) {
			if triple {
				return lx.errorf(startLine, "unterminated triple-quoted string literal")
			}
			return lx.errorf(startLine, "unterminated string literal")
		}
		c := lx.src[lx.pos]
		switch {
		case c == '\\':
			lx.pos++
			if lx.pos < len(lx.src) {
				if isNewline(lx.src[lx.pos]) {
					lx.consumeNewline()
				} else {
					lx.pos++
				}
			}
			continue
		case isNewline(c):
			if !triple {
				return lx.errorf(startLine, "unterminated string literal")
			}
			lx.consumeNewline()
			continue
		case c == q:
			if !triple {
				lx.pos++
				lx.emit(String, lx.src[start:lx.pos], startLine)
				return nil
			}
			if strings.HasPrefix(lx.src[lx.pos:], delim) {
				lx.pos += 3
				lx.emit(String, lx.src[start:lx.pos], startLine)
				return nil
			}
		}
		lx.pos++
	}
}

func isNewline(c byte) bool { return c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isStringPrefix(s string) bool {
	if len(s) > 2 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if r != 'r' && r != 'b' && r != 'u' && r != 'f' {
			return false
		}
	}
	return true
}

// StringPrefix returns the lowercase prefix letters of a string token.
func StringPrefix(tok Token) string {
	i := strings.IndexAny(tok.Text, `"'`)
	if i < 0 {
		return ""
	}
	return strings.ToLower(tok.Text[:i])
}
