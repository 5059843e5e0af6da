package parser

import (
	"strings"
)

// Type is a parsed Rust type reference. String renders canonical source text.
type Type interface {
	String() string
	isType()
}

// PathType is a (possibly generic) path such as `std::vec::Vec<T>`.
type PathType struct {
	Global   bool
	Segments []PathSegment
}

// QualifiedPathType is `<T as Trait>::Name`, or `<T>::Name` without Trait.
type QualifiedPathType struct {
	Self     Type
	Trait    *PathType
	Segments []PathSegment
}

// PathSegment is one `::`-separated element of a path.
type PathSegment struct {
	Ident string
	Args  *GenericArgs
}

// GenericArgs are the arguments of a path segment: either angle-bracketed
// (`<T, 'a, Item = U>`) or the parenthesized sugar of the Fn traits
// (`(A, B) -> C`).
type GenericArgs struct {
	Paren  bool
	Args   []GenericArg
	Inputs []Type
	Output Type
}

// GenericArg is a single angle-bracketed argument. Exactly one of Lifetime,
// Const or Type is set; Binding names an associated type when Type is set.
type GenericArg struct {
	Lifetime string
	Const    string
	Binding  string
	Type     Type
}

// RefType is `&'a mut T`.
type RefType struct {
	Lifetime string
	Mutable  bool
	Elem     Type
}

// PtrType is `*const T` or `*mut T`.
type PtrType struct {
	Mutable bool
	Elem    Type
}

// SliceType is `[T]`.
type SliceType struct {
	Elem Type
}

// ArrayType is `[T; N]`. Len is kept as written.
type ArrayType struct {
	Elem Type
	Len  string
}

// TupleType is `()`, `(A,)` or `(A, B)`.
type TupleType struct {
	Elems []Type
}

// ParenType is a parenthesized type `(T)`.
type ParenType struct {
	Elem Type
}

// TraitObjectType is `dyn A + B` or, with Impl set, `impl A + B`.
type TraitObjectType struct {
	Impl   bool
	Bounds []Bound
}

// Bound is a trait bound, a `?Trait` relaxed bound or a lifetime bound. For
// holds the lifetimes of a `for<'a>` binder.
type Bound struct {
	Maybe    bool
	For      []string
	Lifetime string
	Trait    *PathType
}

// FnPtrType is `for<'a> unsafe extern "C" fn(A, b: B, ...) -> C`.
type FnPtrType struct {
	For      []string
	Unsafe   bool
	Extern   bool
	ABI      string
	Inputs   []FnInput
	Variadic bool
	Output   Type
}

// FnInput is a function pointer parameter. Name is optional.
type FnInput struct {
	Name string
	Type Type
}

// NeverType is `!`.
type NeverType struct{}

// InferType is `_`.
type InferType struct{}

func (*PathType) isType()          {}
func (*QualifiedPathType) isType() {}
func (*RefType) isType()           {}
func (*PtrType) isType()           {}
func (*SliceType) isType()         {}
func (*ArrayType) isType()         {}
func (*TupleType) isType()         {}
func (*ParenType) isType()         {}
func (*TraitObjectType) isType()   {}
func (*FnPtrType) isType()         {}
func (NeverType) isType()          {}
func (InferType) isType()          {}

func (t *PathType) String() string {
	var sb strings.Builder
	if t.Global {
		sb.WriteString("::")
	}
	for i, seg := range t.Segments {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(seg.String())
	}
	return sb.String()
}

func (t *QualifiedPathType) String() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(t.Self.String())
	if t.Trait != nil {
		sb.WriteString(" as ")
		sb.WriteString(t.Trait.String())
	}
	sb.WriteByte('>')
	for _, seg := range t.Segments {
		sb.WriteString("::")
		sb.WriteString(seg.String())
	}
	return sb.String()
}

func (s PathSegment) String() string {
	if s.Args == nil {
		return s.Ident
	}
	return s.Ident + s.Args.String()
}

func (a *GenericArgs) String() string {
	if a.Paren {
		s := "(" + joinTypes(a.Inputs) + ")"
		if a.Output != nil {
			s += " -> " + a.Output.String()
		}
		return s
	}
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (a GenericArg) String() string {
	switch {
	case a.Lifetime != "":
		return a.Lifetime
	case a.Const != "":
		return a.Const
	case a.Binding != "":
		return a.Binding + " = " + a.Type.String()
	}
	return a.Type.String()
}

func (t *RefType) String() string {
	var sb strings.Builder
	sb.WriteByte('&')
	if t.Lifetime != "" {
		sb.WriteString(t.Lifetime)
		sb.WriteByte(' ')
	}
	if t.Mutable {
		sb.WriteString("mut ")
	}
	sb.WriteString(t.Elem.String())
	return sb.String()
}

func (t *PtrType) String() string {
	if t.Mutable {
		return "*mut " + t.Elem.String()
	}
	return "*const " + t.Elem.String()
}

func (t *SliceType) String() string { return "[" + t.Elem.String() + "]" }

func (t *ArrayType) String() string { return "[" + t.Elem.String() + "; " + t.Len + "]" }

func (t *TupleType) String() string {
	if len(t.Elems) == 1 {
		return "(" + t.Elems[0].String() + ",)"
	}
	return "(" + joinTypes(t.Elems) + ")"
}

func (t *ParenType) String() string { return "(" + t.Elem.String() + ")" }

func (t *TraitObjectType) String() string {
	parts := make([]string, len(t.Bounds))
	for i, b := range t.Bounds {
		parts[i] = b.String()
	}
	prefix := "dyn "
	if t.Impl {
		prefix = "impl "
	}
	return prefix + strings.Join(parts, " + ")
}

func (b Bound) String() string {
	if b.Lifetime != "" {
		return b.Lifetime
	}
	s := forBinder(b.For) + b.Trait.String()
	if b.Maybe {
		s = "?" + s
	}
	return s
}

func (t *FnPtrType) String() string {
	var sb strings.Builder
	sb.WriteString(forBinder(t.For))
	if t.Unsafe {
		sb.WriteString("unsafe ")
	}
	if t.Extern {
		sb.WriteString("extern ")
		if t.ABI != "" {
			sb.WriteString(t.ABI)
			sb.WriteByte(' ')
		}
	}
	parts := make([]string, 0, len(t.Inputs)+1)
	for _, in := range t.Inputs {
		parts = append(parts, in.String())
	}
	if t.Variadic {
		parts = append(parts, "...")
	}
	sb.WriteString("fn(")
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteByte(')')
	if t.Output != nil {
		sb.WriteString(" -> ")
		sb.WriteString(t.Output.String())
	}
	return sb.String()
}

func (in FnInput) String() string {
	if in.Name == "" {
		return in.Type.String()
	}
	return in.Name + ": " + in.Type.String()
}

func forBinder(lifetimes []string) string {
	if len(lifetimes) == 0 {
		return ""
	}
	return "for<" + strings.Join(lifetimes, ", ") + "> "
}

func (NeverType) String() string { return "!" }

func (InferType) String() string { return "_" }

func joinTypes(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// IsSelfType reports whether t is exactly `Self` or `self`.
func IsSelfType(t Type) bool {
	p, ok := t.(*PathType)
	if !ok || p.Global || len(p.Segments) != 1 || p.Segments[0].Args != nil {
		return false
	}
	return p.Segments[0].Ident == "Self" || p.Segments[0].Ident == "self"
}
