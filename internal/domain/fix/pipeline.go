// Package fix implements the auto-fixer's text transforms and the fixed-order
// pipeline that chains them.
package fix

import (
	"fmt"

	"github.com/codequal/codequal/internal/domain"
)

// Pipeline applies transforms in a fixed order; each observes the output of
// the previous one.
type Pipeline struct {
	transforms []Transform
}

// Outcome is the result of running a pipeline over one file.
type Outcome struct {
	Content string
	Changed bool
	Applied int
	// Transforms lists the transforms that made at least one edit.
	Transforms []string
}

// Supports reports whether a transform is available for a language. Layout
// rewrites beyond whitespace are Python only.
func Supports(lang domain.Language, name string) bool {
	if lang == domain.LanguagePython {
		return true
	}
	return name == domain.TransformTrailingWhitespace || name == domain.TransformBlankLines
}

// NewPipeline builds the pipeline for a config. When only is non-empty it
// replaces the configured transform list. Transforms the language does not
// support are dropped; unknown names are an error.
func NewPipeline(cfg domain.ProjectConfig, only []string) (*Pipeline, error) {
	enabled := cfg.EnabledTransforms()
	if len(only) > 0 {
		c := cfg
		c.Fix.Transforms = only
		if err := c.Validate(); err != nil {
			return nil, err
		}
		enabled = c.EnabledTransforms()
	}

	p := &Pipeline{}
	for _, name := range enabled {
		if !Supports(cfg.Language, name) {
			continue
		}
		t, err := newTransform(name, cfg)
		if err != nil {
			return nil, err
		}
		p.transforms = append(p.transforms, t)
	}
	return p, nil
}

// NewPipelineOf builds a pipeline over explicit transforms, in the given order.
func NewPipelineOf(ts ...Transform) *Pipeline {
	return &Pipeline{transforms: ts}
}

func newTransform(name string, cfg domain.ProjectConfig) (Transform, error) {
	switch name {
	case domain.TransformTrailingWhitespace:
		return TrailingWhitespace{}, nil
	case domain.TransformBlankLines:
		return BlankLines{}, nil
	case domain.TransformTopLevelSpacing:
		return TopLevelSpacing{}, nil
	case domain.TransformWrapImports:
		return WrapImports{Max: cfg.MaxLineLength}, nil
	case domain.TransformDocstrings:
		return Docstrings{}, nil
	default:
		return nil, fmt.Errorf("unknown transform %q", name)
	}
}

// Names returns the transform names in application order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.transforms))
	for i, t := range p.transforms {
		names[i] = t.Name()
	}
	return names
}

// Run applies every transform to src. Changed is true only when the final
// content differs byte-for-byte from src.
func (p *Pipeline) Run(src string) Outcome {
	out := Outcome{Content: src}
	for _, t := range p.transforms {
		next, n := t.Apply(out.Content)
		if n == 0 {
			continue
		}
		out.Content = next
		out.Applied += n
		out.Transforms = append(out.Transforms, t.Name())
	}
	out.Changed = out.Content != src
	return out
}
