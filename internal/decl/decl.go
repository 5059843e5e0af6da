// Package decl describes the declarations enum_dispatch expands: a sum type,
// its variants and the raw attribute texts attached to both. A declaration is
// the structured output of a host front end; this package also provides the
// YAML and JSON readers that play that role for the command line tool.
package decl

import (
	"encoding"
	"fmt"

	"martianoff/enumdispatch/dispatcherr"
)

// Attribute paths understood by the expander.
const (
	// AttrEnumDispatch carries the target trait on the enum and the
	// per-variant flags on variants.
	AttrEnumDispatch = "enum_dispatch"
	// AttrFunction carries one trait function signature to forward.
	AttrFunction = "function"
)

var (
	_ interface {
		fmt.Stringer
		encoding.TextMarshaler
		encoding.TextUnmarshaler
	} = (*Kind)(nil)
	_ interface {
		fmt.Stringer
		encoding.TextMarshaler
		encoding.TextUnmarshaler
	} = (*FieldStyle)(nil)
)

// Kind is the kind of type declaration.
type Kind int

const (
	KindEnum Kind = iota
	KindStruct
	KindUnion
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	}
	return ""
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "enum", "":
		*k = KindEnum
	case "struct":
		*k = KindStruct
	case "union":
		*k = KindUnion
	default:
		return fmt.Errorf("unknown declaration kind %q", text)
	}
	return nil
}

// FieldStyle is the shape of a variant's fields.
type FieldStyle int

const (
	// FieldsUnit is a variant without fields, e.g. `Empty`.
	FieldsUnit FieldStyle = iota
	// FieldsUnnamed is a tuple variant, e.g. `A(i32)`.
	FieldsUnnamed
	// FieldsNamed is a struct variant, e.g. `A { x: i32 }`.
	FieldsNamed
)

// String implements the [fmt.Stringer] interface.
func (s FieldStyle) String() string {
	switch s {
	case FieldsUnit:
		return "unit"
	case FieldsUnnamed:
		return "unnamed"
	case FieldsNamed:
		return "named"
	}
	return ""
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (s FieldStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (s *FieldStyle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unit":
		*s = FieldsUnit
	case "unnamed":
		*s = FieldsUnnamed
	case "named":
		*s = FieldsNamed
	default:
		return fmt.Errorf("unknown field style %q", text)
	}
	return nil
}

// Attribute is an attribute attached to a declaration, e.g.
// `#[function(fn test(&self))]` has Path "function" and Text
// "fn test(&self)". Pos is the position of the first character of Text.
type Attribute struct {
	Path string
	Text string
	Pos  dispatcherr.Position
}

// Field is a variant field. Name is empty for unnamed fields.
type Field struct {
	Name string
	Type string
	Pos  dispatcherr.Position
}

// Fields is the field list of a variant together with its shape.
type Fields struct {
	Style FieldStyle
	List  []Field
}

// Variant is one variant of a sum type.
type Variant struct {
	Name       string      `json:"name"`
	Fields     Fields      `json:"fields"`
	Attributes []Attribute `json:"attributes"`

	Pos dispatcherr.Position `json:"-"`
}

// Attribute returns the first attribute with the given path.
func (v *Variant) Attribute(path string) (Attribute, bool) {
	for _, a := range v.Attributes {
		if a.Path == path {
			return a, true
		}
	}
	return Attribute{}, false
}

// AttributesNamed returns every attribute with the given path, in order.
func (v *Variant) AttributesNamed(path string) []Attribute {
	return filterAttributes(v.Attributes, path)
}

// SumType is the declaration of a type to expand.
type SumType struct {
	Name       string      `json:"name"`
	Kind       Kind        `json:"kind"`
	Attributes []Attribute `json:"attributes"`
	Variants   []Variant   `json:"variants"`

	Pos dispatcherr.Position `json:"-"`
}

// AttributesNamed returns every attribute with the given path, in order.
func (s *SumType) AttributesNamed(path string) []Attribute {
	return filterAttributes(s.Attributes, path)
}

// File is a set of declarations read from one input.
type File struct {
	// Output is the default path of the generated file.
	Output   string    `json:"output" yaml:"output"`
	SumTypes []SumType `json:"sum_types" yaml:"sum_types"`
}

func filterAttributes(attrs []Attribute, path string) []Attribute {
	var out []Attribute
	for _, a := range attrs {
		if a.Path == path {
			out = append(out, a)
		}
	}
	return out
}

// setFile records the source name on every position in f.
func (f *File) setFile(name string) {
	for i := range f.SumTypes {
		st := &f.SumTypes[i]
		st.Pos.File = name
		setAttributesFile(st.Attributes, name)
		for j := range st.Variants {
			v := &st.Variants[j]
			v.Pos.File = name
			setAttributesFile(v.Attributes, name)
			for k := range v.Fields.List {
				v.Fields.List[k].Pos.File = name
			}
		}
	}
}

func setAttributesFile(attrs []Attribute, name string) {
	for i := range attrs {
		attrs[i].Pos.File = name
	}
}
