package parser

import (
	"errors"

	"github.com/codequal/codequal/internal/domain"
	"github.com/codequal/codequal/internal/domain/pysrc"
)

// PythonInspector implements domain.SyntaxInspector on top of the pysrc
// block parser.
type PythonInspector struct{}

func NewPythonInspector() *PythonInspector {
	return &PythonInspector{}
}

func (p *PythonInspector) Inspect(path string, content []byte) *domain.FileFacts {
	facts := &domain.FileFacts{Path: path, Lines: domain.CountLines(content)}

	m, err := pysrc.Parse(string(content))
	if err != nil {
		var se *pysrc.SyntaxError
		if errors.As(err, &se) {
			facts.ParseError = &domain.ParseError{Line: se.Line, Message: se.Msg}
		} else {
			facts.ParseError = &domain.ParseError{Line: 1, Message: err.Error()}
		}
		return facts
	}

	for _, b := range m.Blocks {
		switch b.Kind {
		case pysrc.Def:
			facts.Functions = append(facts.Functions, domain.FunctionFacts{
				Name:         b.Name,
				File:         path,
				Line:         b.Line,
				EndLine:      b.End,
				Params:       b.Params,
				HasDocstring: b.Docstring,
				Nested:       b.Nested,
			})
		case pysrc.Class:
			facts.Classes = append(facts.Classes, domain.ClassFacts{
				Name:         b.Name,
				File:         path,
				Line:         b.Line,
				EndLine:      b.End,
				HasDocstring: b.Docstring,
			})
		}
	}

	for _, imp := range m.Imports {
		names := make([]domain.ImportName, len(imp.Names))
		for i, n := range imp.Names {
			names[i] = domain.ImportName{Name: n.Name, Bound: n.Bound}
		}
		facts.Imports = append(facts.Imports, domain.ImportFacts{
			Module:   imp.Module,
			Names:    names,
			Line:     imp.Line,
			EndLine:  imp.End,
			TopLevel: imp.Indent == 0,
			From:     imp.From,
		})
	}

	return facts
}

// ForLanguage returns the inspector for a language.
func ForLanguage(lang domain.Language) domain.SyntaxInspector {
	if lang == domain.LanguageGo {
		return NewGoInspector()
	}
	return NewPythonInspector()
}
