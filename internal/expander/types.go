package expander

import (
	"martianoff/enumdispatch/dispatcherr"
	"martianoff/enumdispatch/internal/parser"
)

// VariantDescriptor is the canonical form of one variant: its name, the
// payload it wraps and how calls are forwarded to that payload.
type VariantDescriptor struct {
	Name     string
	Payload  parser.Type
	Modifier parser.Modifier
	From     bool
	Pos      dispatcherr.Position
}

// Analysis is the validated front-end view of a sum type, ready for
// synthesis.
type Analysis struct {
	Name      string
	Pos       dispatcherr.Position
	Container *parser.ContainerAttribute
	Functions []*parser.FunctionAttribute
	Variants  []VariantDescriptor
}

// Fragment is the code synthesized for one sum type: the trait
// implementation and the conversions into the sum type.
type Fragment struct {
	SumType     string
	Impl        Impl
	Conversions []Conversion
}

// Impl is `impl <Trait> for <SelfType> { ... }`.
type Impl struct {
	Trait     string
	SelfType  string
	Functions []ForwardingFunc
}

// Param is a forwarded parameter.
type Param struct {
	Name string
	Type string
}

// ForwardingFunc is one trait function whose body matches on the active
// variant.
type ForwardingFunc struct {
	Name     string
	Receiver string
	Params   []Param
	// Return is empty for functions returning the unit type.
	Return string
	// Scrutinee is the expression being matched, `self` or `*self`.
	Scrutinee string
	Arms      []Arm
}

// Arm is one `Self::<Variant>(<Binding>) => <Call>,` match arm. Receiver is
// the payload expression passed as the receiver of Call.
type Arm struct {
	Variant  string
	Binding  string
	Receiver string
	Call     string
}

// Conversion is `impl From<Payload> for SumType`.
type Conversion struct {
	Variant string
	Payload string
	SumType string
	Binding string
}
