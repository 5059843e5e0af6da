// Package analyzer validates the variants of a sum type and builds their
// descriptors.
package analyzer

import (
	"martianoff/enumdispatch/dispatcherr"
	"martianoff/enumdispatch/internal/decl"
	"martianoff/enumdispatch/internal/expander"
	"martianoff/enumdispatch/internal/parser"
)

type variantAnalyzer struct {
	parser expander.AttributeParser
}

// NewVariantAnalyzer creates a VariantAnalyzer that parses variant
// attributes and payload types with p.
func NewVariantAnalyzer(p expander.AttributeParser) expander.VariantAnalyzer {
	return &variantAnalyzer{parser: p}
}

// CheckShape implements the VariantAnalyzer interface.
func (a *variantAnalyzer) CheckShape(v *decl.Variant) error {
	if v.Fields.Style != decl.FieldsUnnamed || len(v.Fields.List) != 1 {
		return dispatcherr.NewShapeError(v.Pos, "expected exactly one unnamed payload field")
	}
	return nil
}

// Analyze implements the VariantAnalyzer interface. A variant without an
// enum_dispatch attribute gets the default flags.
func (a *variantAnalyzer) Analyze(v *decl.Variant) (*expander.VariantDescriptor, error) {
	if err := a.CheckShape(v); err != nil {
		return nil, err
	}

	field := v.Fields.List[0]
	payload, err := a.parser.ParseType(field.Type, field.Pos)
	if err != nil {
		return nil, err
	}

	flags := &parser.VariantAttribute{}
	switch attrs := v.AttributesNamed(decl.AttrEnumDispatch); len(attrs) {
	case 0:
	case 1:
		if flags, err = a.parser.ParseVariant(attrs[0]); err != nil {
			return nil, err
		}
	default:
		return nil, dispatcherr.NewGrammarError(attrs[1].Pos, "duplicate enum_dispatch attribute")
	}

	return &expander.VariantDescriptor{
		Name:     v.Name,
		Payload:  payload,
		Modifier: flags.Modifier,
		From:     flags.From,
		Pos:      v.Pos,
	}, nil
}

var _ expander.VariantAnalyzer = (*variantAnalyzer)(nil)
