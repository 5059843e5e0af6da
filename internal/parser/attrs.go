package parser

import (
	"encoding"
	"fmt"
	"strings"

	"martianoff/enumdispatch/dispatcherr"
)

// ContainerAttribute names the trait the enum implements by dispatch.
type ContainerAttribute struct {
	Trait Type
	Pos   dispatcherr.Position
}

var _ interface {
	fmt.Stringer
	encoding.TextMarshaler
	encoding.TextUnmarshaler
} = (*Modifier)(nil)

// Modifier adapts a variant's payload before it is passed as the receiver
// of a forwarded call.
type Modifier int

const (
	// ModifierNone passes the bound payload unchanged.
	ModifierNone Modifier = iota
	// ModifierAsRef passes `inner.as_ref()`, for payloads that own an
	// indirection such as `Box<dyn Trait>`.
	ModifierAsRef
	// ModifierDeref passes `*inner`, for payloads that are references.
	ModifierDeref
)

// String implements the [fmt.Stringer] interface.
func (m Modifier) String() string {
	switch m {
	case ModifierNone:
		return "none"
	case ModifierAsRef:
		return "as_ref"
	case ModifierDeref:
		return "deref"
	}
	return ""
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (m Modifier) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (m *Modifier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*m = ModifierNone
	case "as_ref":
		*m = ModifierAsRef
	case "deref":
		*m = ModifierDeref
	default:
		return fmt.Errorf("unknown modifier %q", text)
	}
	return nil
}

// VariantAttribute holds the per-variant flags. The zero value is the
// default for a variant without an attribute.
type VariantAttribute struct {
	From     bool
	Modifier Modifier
}

// ReceiverKind is how a trait function accesses its instance.
type ReceiverKind int

const (
	ReceiverValue ReceiverKind = iota
	ReceiverRef
	ReceiverRefMut
)

func (k ReceiverKind) String() string {
	switch k {
	case ReceiverValue:
		return "self"
	case ReceiverRef:
		return "&self"
	case ReceiverRefMut:
		return "&mut self"
	}
	return ""
}

// Receiver is the first parameter of a trait function.
type Receiver struct {
	Kind ReceiverKind
	// Mutable marks a by-value `mut self` binding.
	Mutable  bool
	Lifetime string
	// Typed holds the explicit type of a `self: T` receiver.
	Typed Type
}

// IsRef reports whether the receiver borrows the instance.
func (r Receiver) IsRef() bool {
	return r.Kind == ReceiverRef || r.Kind == ReceiverRefMut
}

func (r Receiver) String() string {
	if r.Typed != nil {
		if r.Mutable {
			return "mut self: " + r.Typed.String()
		}
		return "self: " + r.Typed.String()
	}
	var sb strings.Builder
	if r.IsRef() {
		sb.WriteByte('&')
		if r.Lifetime != "" {
			sb.WriteString(r.Lifetime)
			sb.WriteByte(' ')
		}
	}
	if r.Kind == ReceiverRefMut || (r.Kind == ReceiverValue && r.Mutable) {
		sb.WriteString("mut ")
	}
	sb.WriteString("self")
	return sb.String()
}

// Param is a non-receiver parameter. Name is empty when the parameter has
// no binding that could be forwarded (`_`, tuple patterns, anonymous types).
type Param struct {
	Name string
	Type Type
	Pos  dispatcherr.Position
}

func (p Param) String() string {
	if p.Name == "" {
		return p.Type.String()
	}
	return p.Name + ": " + p.Type.String()
}

// FunctionAttribute is a trait function signature to forward.
type FunctionAttribute struct {
	Name     string
	Receiver Receiver
	Params   []Param
	Return   Type
	Pos      dispatcherr.Position
}

// NamedParams returns the parameters that carry a binding name.
func (f *FunctionAttribute) NamedParams() []Param {
	var named []Param
	for _, p := range f.Params {
		if p.Name != "" {
			named = append(named, p)
		}
	}
	return named
}
