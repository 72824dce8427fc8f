package fix

import (
	"strings"
	"unicode"
)

// line is one physical line split into its body and terminator ("\n",
// "\r\n" or "" for a final unterminated line).
type line struct {
	text string
	eol  string
}

func splitLines(src string) []line {
	var out []line
	for len(src) > 0 {
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			out = append(out, line{text: src})
			break
		}
		text, eol := src[:i], "\n"
		if strings.HasSuffix(text, "\r") {
			text, eol = text[:len(text)-1], "\r\n"
		}
		out = append(out, line{text: text, eol: eol})
		src = src[i+1:]
	}
	return out
}

func joinLines(lines []line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.text)
		b.WriteString(l.eol)
	}
	return b.String()
}

// newline returns the terminator style of the file, defaulting to "\n".
func newline(lines []line) string {
	for _, l := range lines {
		if l.eol != "" {
			return l.eol
		}
	}
	return "\n"
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
