// Package synthesizer builds the static-dispatch code fragment for an
// analyzed sum type.
package synthesizer

import (
	"fmt"
	"strings"

	"martianoff/enumdispatch/dispatcherr"
	"martianoff/enumdispatch/internal/expander"
	"martianoff/enumdispatch/internal/parser"
)

// bindingName is the name bound to a variant's payload in match arms and
// conversions.
const bindingName = "inner"

type dispatchSynthesizer struct{}

// NewDispatchSynthesizer creates a Synthesizer that forwards every trait
// function through a match over the variants.
func NewDispatchSynthesizer() expander.Synthesizer {
	return &dispatchSynthesizer{}
}

// Synthesize implements the Synthesizer interface.
func (s *dispatchSynthesizer) Synthesize(a *expander.Analysis) (*expander.Fragment, error) {
	conversions, err := conversions(a)
	if err != nil {
		return nil, err
	}

	trait := a.Container.Trait
	f := &expander.Fragment{
		SumType: a.Name,
		Impl: expander.Impl{
			Trait:    trait.String(),
			SelfType: a.Name,
		},
		Conversions: conversions,
	}
	for _, fn := range a.Functions {
		ff, err := forward(trait, fn, a.Variants)
		if err != nil {
			return nil, err
		}
		f.Impl.Functions = append(f.Impl.Functions, ff)
	}
	return f, nil
}

func forward(trait parser.Type, fn *parser.FunctionAttribute, variants []expander.VariantDescriptor) (expander.ForwardingFunc, error) {
	named := fn.NamedParams()
	binding := uniqueBinding(named)

	ff := expander.ForwardingFunc{
		Name:      fn.Name,
		Receiver:  fn.Receiver.String(),
		Scrutinee: "self",
	}
	if fn.Return != nil {
		ff.Return = fn.Return.String()
	}
	// An empty match on a reference is not exhaustive; match the place.
	if len(variants) == 0 && fn.Receiver.IsRef() {
		ff.Scrutinee = "*self"
	}

	// A `self: Box<Self>` receiver is unboxed by the match and each payload
	// is boxed again for the call.
	boxed := fn.Receiver.Typed != nil
	if boxed {
		if !isBoxedSelf(fn.Receiver.Typed) {
			return expander.ForwardingFunc{}, dispatcherr.NewReceiverError(fn.Pos, fmt.Sprintf(
				"cannot forward a receiver of type `%s`; use `self`, `&self`, `&mut self` or `self: Box<Self>`",
				fn.Receiver.Typed))
		}
		ff.Scrutinee = "*self"
	}

	args := make([]string, 0, len(named)+1)
	args = append(args, "")
	for _, p := range named {
		ff.Params = append(ff.Params, expander.Param{Name: p.Name, Type: p.Type.String()})
		args = append(args, p.Name)
	}

	path := CallPath(trait, fn.Name)
	for _, v := range variants {
		recv := ReceiverExpr(binding, v.Modifier)
		if boxed {
			if v.Modifier != parser.ModifierNone {
				return expander.ForwardingFunc{}, dispatcherr.NewReceiverError(v.Pos, fmt.Sprintf(
					"cannot forward the `Box<Self>` receiver of `%s` through modifier `%s`", fn.Name, v.Modifier))
			}
			recv = "Box::new(" + binding + ")"
		}
		args[0] = recv
		ff.Arms = append(ff.Arms, expander.Arm{
			Variant:  v.Name,
			Binding:  binding,
			Receiver: recv,
			Call:     path + "(" + strings.Join(args, ", ") + ")",
		})
	}
	return ff, nil
}

// CallPath renders the fully qualified path of the trait function name, so
// the call never resolves to an inherent function of the payload type.
// Generic arguments of a plain path use turbofish syntax; any other trait
// type is wrapped in angle brackets.
func CallPath(trait parser.Type, name string) string {
	if p, ok := trait.(*parser.PathType); ok && exprPath(p) {
		var sb strings.Builder
		if p.Global {
			sb.WriteString("::")
		}
		for i, seg := range p.Segments {
			if i > 0 {
				sb.WriteString("::")
			}
			sb.WriteString(seg.Ident)
			if seg.Args != nil {
				sb.WriteString("::")
				sb.WriteString(seg.Args.String())
			}
		}
		sb.WriteString("::")
		sb.WriteString(name)
		return sb.String()
	}
	return "<" + trait.String() + ">::" + name
}

// exprPath reports whether p can be written in expression position with
// turbofish arguments. `Fn(A) -> B` sugar cannot.
func exprPath(p *parser.PathType) bool {
	for _, seg := range p.Segments {
		if seg.Args != nil && seg.Args.Paren {
			return false
		}
	}
	return true
}

// isBoxedSelf reports whether t is `Box<Self>`, possibly spelled with its
// `std::boxed` or `alloc::boxed` path.
func isBoxedSelf(t parser.Type) bool {
	p, ok := t.(*parser.PathType)
	if !ok || len(p.Segments) == 0 {
		return false
	}
	last := p.Segments[len(p.Segments)-1]
	if last.Ident != "Box" || last.Args == nil || last.Args.Paren ||
		len(last.Args.Args) != 1 || last.Args.Args[0].Type == nil || last.Args.Args[0].Binding != "" ||
		!parser.IsSelfType(last.Args.Args[0].Type) {
		return false
	}
	switch len(p.Segments) {
	case 1:
		return !p.Global
	case 3:
		root := p.Segments[0]
		mid := p.Segments[1]
		return (root.Ident == "std" || root.Ident == "alloc") && root.Args == nil &&
			mid.Ident == "boxed" && mid.Args == nil
	}
	return false
}

// ReceiverExpr is the expression passed as the receiver of a forwarded
// call for a payload bound to binding.
func ReceiverExpr(binding string, m parser.Modifier) string {
	switch m {
	case parser.ModifierAsRef:
		return binding + ".as_ref()"
	case parser.ModifierDeref:
		return "*" + binding
	}
	return binding
}

// uniqueBinding returns a payload binding that does not shadow a forwarded
// parameter.
func uniqueBinding(params []parser.Param) string {
	binding := bindingName
	for taken(params, binding) {
		binding += "_"
	}
	return binding
}

func taken(params []parser.Param, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func conversions(a *expander.Analysis) ([]expander.Conversion, error) {
	var out []expander.Conversion
	seen := make(map[string]string)
	for _, v := range a.Variants {
		if !v.From {
			continue
		}
		payload := v.Payload.String()
		if prev, ok := seen[payload]; ok {
			return nil, dispatcherr.NewShapeError(v.Pos, fmt.Sprintf(
				"conflicting From conversion: variants `%s` and `%s` both wrap `%s`", prev, v.Name, payload))
		}
		seen[payload] = v.Name
		out = append(out, expander.Conversion{
			Variant: v.Name,
			Payload: payload,
			SumType: a.Name,
			Binding: bindingName,
		})
	}
	return out, nil
}

var _ expander.Synthesizer = (*dispatchSynthesizer)(nil)
