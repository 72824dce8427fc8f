package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Language selects the file type the engine analyzes.
type Language string

const (
	LanguagePython Language = "python"
	LanguageGo     Language = "go"
)

// ValidLanguages enumerates the supported languages.
var ValidLanguages = []Language{LanguagePython, LanguageGo}

// ParseLanguage validates a language name. The empty string means python.
func ParseLanguage(name string) (Language, error) {
	if name == "" {
		return LanguagePython, nil
	}
	for _, l := range ValidLanguages {
		if string(l) == strings.ToLower(name) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q (valid: python, go)", name)
}

// Extension returns the source file extension for the language.
func (l Language) Extension() string {
	switch l {
	case LanguageGo:
		return ".go"
	default:
		return ".py"
	}
}

// CommentPrefix returns the line comment marker.
func (l Language) CommentPrefix() string {
	switch l {
	case LanguageGo:
		return "//"
	default:
		return "#"
	}
}

// IsComment reports whether a line is a comment once leading whitespace is removed.
func (l Language) IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), l.CommentPrefix())
}

// IsPrivate reports whether a definition name is exempt from docstring checks.
// A leading underscore is private everywhere; Go also treats unexported names
// as private.
func (l Language) IsPrivate(name string) bool {
	if strings.HasPrefix(name, "_") {
		return true
	}
	if l == LanguageGo {
		r, _ := utf8.DecodeRuneInString(name)
		return !unicode.IsUpper(r)
	}
	return false
}
