// Package expander turns a sum type declaration into a static-dispatch trait
// implementation. It orchestrates the attribute parser, the variant analyzer,
// the synthesizer and the code generator; the stages themselves live in the
// subpackages and are injected through NewExpander.
package expander

import (
	"martianoff/enumdispatch/dispatcherr"
	"martianoff/enumdispatch/internal/decl"
	"martianoff/enumdispatch/internal/parser"
)

// AttributeParser parses the attribute bodies attached to a declaration.
type AttributeParser interface {
	ParseContainer(attr decl.Attribute) (*parser.ContainerAttribute, error)
	ParseVariant(attr decl.Attribute) (*parser.VariantAttribute, error)
	ParseFunction(attr decl.Attribute) (*parser.FunctionAttribute, error)
	ParseType(text string, pos dispatcherr.Position) (parser.Type, error)
}

// VariantAnalyzer validates variants and turns them into descriptors.
type VariantAnalyzer interface {
	// CheckShape fails unless the variant wraps exactly one unnamed field.
	CheckShape(v *decl.Variant) error
	Analyze(v *decl.Variant) (*VariantDescriptor, error)
}

// Synthesizer builds the code fragment for an analyzed sum type.
type Synthesizer interface {
	Synthesize(a *Analysis) (*Fragment, error)
}

// CodeGenerator renders fragments and failures as source text.
type CodeGenerator interface {
	Generate(f *Fragment) (string, error)
	RenderError(err error) string
}

// Expander runs the expansion pipeline. It holds no per-call state and may
// be shared between goroutines.
type Expander struct {
	parser      AttributeParser
	analyzer    VariantAnalyzer
	synthesizer Synthesizer
	generator   CodeGenerator
}

// NewExpander creates a new instance of Expander with its dependencies.
func NewExpander(
	parser AttributeParser,
	analyzer VariantAnalyzer,
	synthesizer Synthesizer,
	generator CodeGenerator,
) *Expander {
	return &Expander{
		parser:      parser,
		analyzer:    analyzer,
		synthesizer: synthesizer,
		generator:   generator,
	}
}

// Analyze validates st and parses all of its attributes. Failures are
// reported in a fixed order: a declaration that is not an enum, then
// malformed variant shapes, then a missing container attribute, then
// attribute grammar errors. The first failure wins.
func (e *Expander) Analyze(st *decl.SumType) (*Analysis, error) {
	if st.Kind != decl.KindEnum {
		return nil, dispatcherr.NewShapeError(st.Pos, "enum_dispatch only works with enums")
	}
	for i := range st.Variants {
		if err := e.analyzer.CheckShape(&st.Variants[i]); err != nil {
			return nil, err
		}
	}

	containers := st.AttributesNamed(decl.AttrEnumDispatch)
	if len(containers) == 0 {
		return nil, dispatcherr.NewMissingAttributeError(st.Pos,
			"enum_dispatch requires an `enum_dispatch(<Trait>)` attribute naming the trait")
	}
	if len(containers) > 1 {
		return nil, dispatcherr.NewGrammarError(containers[1].Pos, "duplicate container attribute")
	}

	container, err := e.parser.ParseContainer(containers[0])
	if err != nil {
		return nil, err
	}
	a := &Analysis{Name: st.Name, Pos: st.Pos, Container: container}

	for _, attr := range st.AttributesNamed(decl.AttrFunction) {
		fn, err := e.parser.ParseFunction(attr)
		if err != nil {
			return nil, err
		}
		a.Functions = append(a.Functions, fn)
	}

	for i := range st.Variants {
		vd, err := e.analyzer.Analyze(&st.Variants[i])
		if err != nil {
			return nil, err
		}
		a.Variants = append(a.Variants, *vd)
	}
	return a, nil
}

// Expand analyzes st and synthesizes its fragment.
func (e *Expander) Expand(st *decl.SumType) (*Fragment, error) {
	a, err := e.Analyze(st)
	if err != nil {
		return nil, err
	}
	return e.synthesizer.Synthesize(a)
}

// Generate expands st and renders the resulting source text. On failure no
// text is produced.
func (e *Expander) Generate(st *decl.SumType) (string, error) {
	f, err := e.Expand(st)
	if err != nil {
		return "", err
	}
	return e.generator.Generate(f)
}

// RenderError renders err as the source text emitted in place of a failed
// expansion.
func (e *Expander) RenderError(err error) string {
	return e.generator.RenderError(err)
}
