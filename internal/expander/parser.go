package expander

import (
	"martianoff/enumdispatch/dispatcherr"
	"martianoff/enumdispatch/internal/decl"
	"martianoff/enumdispatch/internal/parser"
)

type grammarParser struct{}

// NewAttributeParser creates the AttributeParser backed by the attribute
// grammars of package parser.
func NewAttributeParser() AttributeParser {
	return grammarParser{}
}

// ParseContainer implements the AttributeParser interface.
func (grammarParser) ParseContainer(attr decl.Attribute) (*parser.ContainerAttribute, error) {
	return parser.ParseContainerAttribute(attr.Text, attr.Pos)
}

// ParseVariant implements the AttributeParser interface.
func (grammarParser) ParseVariant(attr decl.Attribute) (*parser.VariantAttribute, error) {
	return parser.ParseVariantAttribute(attr.Text, attr.Pos)
}

// ParseFunction implements the AttributeParser interface.
func (grammarParser) ParseFunction(attr decl.Attribute) (*parser.FunctionAttribute, error) {
	return parser.ParseFunctionAttribute(attr.Text, attr.Pos)
}

// ParseType implements the AttributeParser interface.
func (grammarParser) ParseType(text string, pos dispatcherr.Position) (parser.Type, error) {
	return parser.ParseType(text, pos)
}

var _ AttributeParser = grammarParser{}
