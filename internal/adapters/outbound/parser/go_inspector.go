package parser

import (
	"errors"
	"go/ast"
	goparser "go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/codequal/codequal/internal/domain"
)

// GoInspector implements domain.SyntaxInspector using go/ast. Doc comments
// play the role of docstrings; struct and interface types are reported as
// classes.
type GoInspector struct{}

func NewGoInspector() *GoInspector {
	return &GoInspector{}
}

func (p *GoInspector) Inspect(path string, content []byte) *domain.FileFacts {
	facts := &domain.FileFacts{Path: path, Lines: domain.CountLines(content)}

	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, path, content, goparser.ParseComments)
	if err != nil {
		facts.ParseError = goParseError(err)
		return facts
	}

	for _, imp := range file.Imports {
		importPath, _ := strconv.Unquote(imp.Path.Value)
		bound := ""
		if imp.Name != nil {
			bound = imp.Name.Name
		} else {
			bound = defaultPackageName(importPath)
		}
		facts.Imports = append(facts.Imports, domain.ImportFacts{
			Module:   importPath,
			Names:    []domain.ImportName{{Name: importPath, Bound: bound}},
			Line:     fset.Position(imp.Pos()).Line,
			EndLine:  fset.Position(imp.End()).Line,
			TopLevel: true,
		})
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				switch ts.Type.(type) {
				case *ast.StructType, *ast.InterfaceType:
				default:
					continue
				}
				documented := ts.Doc != nil || (d.Doc != nil && !d.Lparen.IsValid())
				facts.Classes = append(facts.Classes, domain.ClassFacts{
					Name:         ts.Name.Name,
					File:         path,
					Line:         fset.Position(ts.Pos()).Line,
					EndLine:      fset.Position(ts.End()).Line,
					HasDocstring: documented,
				})
			}
		case *ast.FuncDecl:
			facts.Functions = append(facts.Functions, domain.FunctionFacts{
				Name:         funcName(d),
				File:         path,
				Line:         fset.Position(d.Pos()).Line,
				EndLine:      fset.Position(d.End()).Line,
				Params:       countParams(d.Type.Params),
				HasDocstring: d.Doc != nil,
			})
		}
	}

	return facts
}

// funcName qualifies methods with their receiver type, keeping the method
// name last so exported-ness is still decided by it.
func funcName(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return d.Name.Name
	}
	recv := strings.TrimPrefix(receiverType(d.Recv.List[0].Type), "*")
	if recv == "" {
		return d.Name.Name
	}
	return d.Name.Name + " (" + recv + ")"
}

func receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return "*" + receiverType(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverType(t.X)
	case *ast.IndexListExpr:
		return receiverType(t.X)
	default:
		return ""
	}
}

func countParams(fields *ast.FieldList) int {
	if fields == nil {
		return 0
	}
	n := 0
	for _, f := range fields.List {
		if len(f.Names) == 0 {
			n++
			continue
		}
		n += len(f.Names)
	}
	return n
}

// defaultPackageName guesses the identifier an unaliased import binds: the
// last path element, skipping a major-version suffix. Paths whose last
// element is not a valid identifier (go-git, yaml.v3) bind nothing we can
// check, so they are never reported as unused.
func defaultPackageName(importPath string) string {
	parts := strings.Split(importPath, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(name) {
		name = parts[len(parts)-2]
	}
	if !token.IsIdentifier(name) {
		return ""
	}
	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

func goParseError(err error) *domain.ParseError {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return &domain.ParseError{Line: list[0].Pos.Line, Message: list[0].Msg}
	}
	return &domain.ParseError{Line: 1, Message: err.Error()}
}
