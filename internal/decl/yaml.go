package decl

import (
	"fmt"

	"martianoff/enumdispatch/dispatcherr"

	"gopkg.in/yaml.v3"
)

var (
	_ yaml.Unmarshaler = (*SumType)(nil)
	_ yaml.Unmarshaler = (*Variant)(nil)
	_ yaml.Unmarshaler = (*Fields)(nil)
	_ yaml.Unmarshaler = (*Attribute)(nil)
)

type sumTypeYAML struct {
	Name       string      `yaml:"name"`
	Kind       Kind        `yaml:"kind"`
	Attributes []Attribute `yaml:"attributes"`
	Variants   []Variant   `yaml:"variants"`
}

type variantYAML struct {
	Name       string      `yaml:"name"`
	Fields     Fields      `yaml:"fields"`
	Attributes []Attribute `yaml:"attributes"`
}

// UnmarshalYAML implements the [yaml.Unmarshaler] interface.
func (s *SumType) UnmarshalYAML(node *yaml.Node) error {
	var raw sumTypeYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*s = SumType{
		Name:       raw.Name,
		Kind:       raw.Kind,
		Attributes: raw.Attributes,
		Variants:   raw.Variants,
		Pos:        valuePosition(node, "name"),
	}
	return nil
}

// UnmarshalYAML implements the [yaml.Unmarshaler] interface.
func (v *Variant) UnmarshalYAML(node *yaml.Node) error {
	var raw variantYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = Variant{
		Name:       raw.Name,
		Fields:     raw.Fields,
		Attributes: raw.Attributes,
		Pos:        valuePosition(node, "name"),
	}
	return nil
}

// UnmarshalYAML implements the [yaml.Unmarshaler] interface. A sequence of
// types declares unnamed fields, a mapping declares named fields and null
// declares a unit variant.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			return fmt.Errorf("line %d: fields must be a sequence or a mapping", node.Line)
		}
		*f = Fields{Style: FieldsUnit}
	case yaml.SequenceNode:
		*f = Fields{Style: FieldsUnnamed}
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: field type must be a string", item.Line)
			}
			f.List = append(f.List, Field{Type: item.Value, Pos: scalarPosition(item)})
		}
	case yaml.MappingNode:
		*f = Fields{Style: FieldsNamed}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: field type must be a string", value.Line)
			}
			f.List = append(f.List, Field{Name: key.Value, Type: value.Value, Pos: scalarPosition(key)})
		}
	default:
		return fmt.Errorf("line %d: fields must be a sequence or a mapping", node.Line)
	}
	return nil
}

// UnmarshalYAML implements the [yaml.Unmarshaler] interface. An attribute is
// either a string in Rust syntax or a mapping with `path` and `text` keys.
func (a *Attribute) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		path, body, column, err := ParseAttribute(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		pos := scalarPosition(node)
		*a = Attribute{Path: path, Text: body, Pos: pos.Advance(1, column)}
	case yaml.MappingNode:
		var raw struct {
			Path string `yaml:"path"`
			Text string `yaml:"text"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Path == "" {
			return fmt.Errorf("line %d: attribute without a path", node.Line)
		}
		*a = Attribute{Path: raw.Path, Text: raw.Text, Pos: valuePosition(node, "text")}
	default:
		return fmt.Errorf("line %d: attribute must be a string or a mapping", node.Line)
	}
	return nil
}

// scalarPosition is the position of the first character of a scalar's value.
func scalarPosition(node *yaml.Node) dispatcherr.Position {
	pos := dispatcherr.Position{Line: node.Line, Column: node.Column}
	switch node.Style {
	case yaml.DoubleQuotedStyle, yaml.SingleQuotedStyle:
		pos.Column++
	case yaml.LiteralStyle, yaml.FoldedStyle:
		// Block scalars start on the line after the indicator.
		pos.Line++
	}
	return pos
}

// valuePosition is the position of the value stored under key in a mapping,
// or of the mapping itself when the key is absent.
func valuePosition(node *yaml.Node, key string) dispatcherr.Position {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				return scalarPosition(node.Content[i+1])
			}
		}
	}
	return dispatcherr.Position{Line: node.Line, Column: node.Column}
}
