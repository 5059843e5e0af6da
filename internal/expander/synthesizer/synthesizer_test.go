package synthesizer

import (
	"testing"

	"martianoff/enumdispatch/dispatcherr"
	"martianoff/enumdispatch/internal/expander"
	"martianoff/enumdispatch/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, text string) parser.Type {
	t.Helper()
	typ, err := parser.ParseType(text, dispatcherr.Position{})
	require.NoError(t, err)
	return typ
}

func mustFunction(t *testing.T, text string) *parser.FunctionAttribute {
	t.Helper()
	fn, err := parser.ParseFunctionAttribute(text, dispatcherr.Position{})
	require.NoError(t, err)
	return fn
}

func analysis(t *testing.T, trait string, fns []string, variants ...expander.VariantDescriptor) *expander.Analysis {
	t.Helper()
	a := &expander.Analysis{
		Name:      "TestEnum",
		Container: &parser.ContainerAttribute{Trait: mustType(t, trait)},
		Variants:  variants,
	}
	for _, fn := range fns {
		a.Functions = append(a.Functions, mustFunction(t, fn))
	}
	return a
}

func variant(t *testing.T, name, payload string, m parser.Modifier, from bool) expander.VariantDescriptor {
	return expander.VariantDescriptor{Name: name, Payload: mustType(t, payload), Modifier: m, From: from}
}

func TestSynthesizeArms(t *testing.T) {
	a := analysis(t, "TestTrait", []string{"fn test(&self)"},
		variant(t, "A", "i32", parser.ModifierNone, true),
		variant(t, "B", "&'static str", parser.ModifierDeref, false),
		variant(t, "Any", "Box<dyn TestTrait>", parser.ModifierAsRef, false),
	)

	f, err := NewDispatchSynthesizer().Synthesize(a)
	require.NoError(t, err)

	assert.Equal(t, "TestTrait", f.Impl.Trait)
	assert.Equal(t, "TestEnum", f.Impl.SelfType)
	require.Len(t, f.Impl.Functions, 1)

	fn := f.Impl.Functions[0]
	assert.Equal(t, "test", fn.Name)
	assert.Equal(t, "&self", fn.Receiver)
	assert.Equal(t, "self", fn.Scrutinee)
	assert.Empty(t, fn.Return)
	assert.Equal(t, []expander.Arm{
		{Variant: "A", Binding: "inner", Receiver: "inner", Call: "TestTrait::test(inner)"},
		{Variant: "B", Binding: "inner", Receiver: "*inner", Call: "TestTrait::test(*inner)"},
		{Variant: "Any", Binding: "inner", Receiver: "inner.as_ref()", Call: "TestTrait::test(inner.as_ref())"},
	}, fn.Arms)
}

func TestSynthesizeReceiversAndParams(t *testing.T) {
	tests := []struct {
		name         string
		fn           string
		wantReceiver string
		wantParams   []expander.Param
		wantReturn   string
		wantCall     string
	}{
		{
			name:         "By value",
			fn:           "fn into_string(self) -> String",
			wantReceiver: "self",
			wantReturn:   "String",
			wantCall:     "Shape::into_string(inner)",
		},
		{
			name:         "Mutable reference with params",
			fn:           "fn scale(&mut self, x: f64, y: f64)",
			wantReceiver: "&mut self",
			wantParams:   []expander.Param{{Name: "x", Type: "f64"}, {Name: "y", Type: "f64"}},
			wantCall:     "Shape::scale(inner, x, y)",
		},
		{
			name:         "Unnamed params are dropped",
			fn:           "fn area(&self, _: bool, u8, factor: f64) -> f64",
			wantReceiver: "&self",
			wantParams:   []expander.Param{{Name: "factor", Type: "f64"}},
			wantReturn:   "f64",
			wantCall:     "Shape::area(inner, factor)",
		},
		{
			name:         "Binding avoids parameter names",
			fn:           "fn merge(&self, inner: u8, inner_: u8)",
			wantReceiver: "&self",
			wantParams:   []expander.Param{{Name: "inner", Type: "u8"}, {Name: "inner_", Type: "u8"}},
			wantCall:     "Shape::merge(inner__, inner, inner_)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analysis(t, "Shape", []string{tt.fn}, variant(t, "A", "Circle", parser.ModifierNone, false))
			f, err := NewDispatchSynthesizer().Synthesize(a)
			require.NoError(t, err)

			fn := f.Impl.Functions[0]
			assert.Equal(t, tt.wantReceiver, fn.Receiver)
			assert.Equal(t, tt.wantParams, fn.Params)
			assert.Equal(t, tt.wantReturn, fn.Return)
			require.Len(t, fn.Arms, 1)
			assert.Equal(t, tt.wantCall, fn.Arms[0].Call)
		})
	}
}

func TestSynthesizeBoxedReceiver(t *testing.T) {
	for _, fn := range []string{
		"fn consume(self: Box<Self>, n: u8)",
		"fn consume(mut self: std::boxed::Box<Self>, n: u8)",
	} {
		t.Run(fn, func(t *testing.T) {
			a := analysis(t, "Shape", []string{fn}, variant(t, "A", "Circle", parser.ModifierNone, false))
			f, err := NewDispatchSynthesizer().Synthesize(a)
			require.NoError(t, err)

			ff := f.Impl.Functions[0]
			assert.Equal(t, "*self", ff.Scrutinee)
			require.Len(t, ff.Arms, 1)
			assert.Equal(t, "Box::new(inner)", ff.Arms[0].Receiver)
			assert.Equal(t, "Shape::consume(Box::new(inner), n)", ff.Arms[0].Call)
		})
	}
}

func TestSynthesizeReceiverErrors(t *testing.T) {
	tests := []struct {
		name     string
		fn       string
		modifier parser.Modifier
		wantMsg  string
		wantPos  dispatcherr.Position
	}{
		{
			name:     "Reference counted receiver",
			fn:       "fn share(self: Rc<Self>)",
			modifier: parser.ModifierNone,
			wantMsg:  "cannot forward a receiver of type `Rc<Self>`",
			wantPos:  dispatcherr.Position{Line: 1, Column: 1},
		},
		{
			name:     "Pinned receiver",
			fn:       "fn poll(self: Pin<&mut Self>)",
			modifier: parser.ModifierNone,
			wantMsg:  "cannot forward a receiver of type `Pin<&mut Self>`",
			wantPos:  dispatcherr.Position{Line: 1, Column: 1},
		},
		{
			name:     "Box of another type",
			fn:       "fn consume(self: Box<u8>)",
			modifier: parser.ModifierNone,
			wantMsg:  "cannot forward a receiver of type `Box<u8>`",
			wantPos:  dispatcherr.Position{Line: 1, Column: 1},
		},
		{
			name:     "Boxed receiver through a modifier",
			fn:       "fn consume(self: Box<Self>)",
			modifier: parser.ModifierAsRef,
			wantMsg:  "cannot forward the `Box<Self>` receiver of `consume` through modifier `as_ref`",
			wantPos:  dispatcherr.Position{Line: 4, Column: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := parser.ParseFunctionAttribute(tt.fn, dispatcherr.Position{Line: 1, Column: 1})
			require.NoError(t, err)
			v := variant(t, "A", "Box<Circle>", tt.modifier, false)
			v.Pos = dispatcherr.Position{Line: 4, Column: 5}
			a := analysis(t, "Shape", nil, v)
			a.Functions = []*parser.FunctionAttribute{fn}

			_, err = NewDispatchSynthesizer().Synthesize(a)
			var recvErr *dispatcherr.ReceiverError
			require.ErrorAs(t, err, &recvErr)
			assert.Contains(t, recvErr.Msg, tt.wantMsg)
			assert.Equal(t, tt.wantPos, recvErr.Pos())
		})
	}
}

func TestSynthesizeFunctionOrder(t *testing.T) {
	a := analysis(t, "Shape", []string{"fn area(&self) -> f64", "fn name(&self) -> String", "fn reset(&mut self)"},
		variant(t, "A", "Circle", parser.ModifierNone, false))
	f, err := NewDispatchSynthesizer().Synthesize(a)
	require.NoError(t, err)

	var names []string
	for _, fn := range f.Impl.Functions {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"area", "name", "reset"}, names)
}

func TestSynthesizeEmptyEnum(t *testing.T) {
	a := analysis(t, "Shape", []string{"fn area(&self) -> f64", "fn consume(self)"})
	f, err := NewDispatchSynthesizer().Synthesize(a)
	require.NoError(t, err)

	require.Len(t, f.Impl.Functions, 2)
	assert.Equal(t, "*self", f.Impl.Functions[0].Scrutinee)
	assert.Empty(t, f.Impl.Functions[0].Arms)
	assert.Equal(t, "self", f.Impl.Functions[1].Scrutinee)
	assert.Empty(t, f.Conversions)
}

func TestSynthesizeConversions(t *testing.T) {
	a := analysis(t, "TestTrait", nil,
		variant(t, "A", "i32", parser.ModifierNone, true),
		variant(t, "Any", "Box<dyn TestTrait>", parser.ModifierAsRef, false),
		variant(t, "B", "f32", parser.ModifierNone, true),
	)
	f, err := NewDispatchSynthesizer().Synthesize(a)
	require.NoError(t, err)

	assert.Equal(t, []expander.Conversion{
		{Variant: "A", Payload: "i32", SumType: "TestEnum", Binding: "inner"},
		{Variant: "B", Payload: "f32", SumType: "TestEnum", Binding: "inner"},
	}, f.Conversions)
	assert.Empty(t, f.Impl.Functions)
}

func TestSynthesizeConflictingConversions(t *testing.T) {
	second := variant(t, "B", "i32", parser.ModifierNone, true)
	second.Pos = dispatcherr.Position{File: "a.yaml", Line: 12, Column: 15}
	a := analysis(t, "TestTrait", []string{"fn test(&self)"},
		variant(t, "A", "i32", parser.ModifierNone, true),
		second,
	)

	f, err := NewDispatchSynthesizer().Synthesize(a)
	assert.Nil(t, f)
	var shapeErr *dispatcherr.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "conflicting From conversion: variants `A` and `B` both wrap `i32`", shapeErr.Msg)
	assert.Equal(t, second.Pos, shapeErr.Pos())
}

func TestCallPath(t *testing.T) {
	tests := []struct {
		trait string
		want  string
	}{
		{"TestTrait", "TestTrait::f"},
		{"crate::shapes::Shape", "crate::shapes::Shape::f"},
		{"::std::fmt::Display", "::std::fmt::Display::f"},
		{"Convert<f64>", "Convert::<f64>::f"},
		{"Iterator<Item = u8>", "Iterator::<Item = u8>::f"},
		{"Fn(u8) -> u8", "<Fn(u8) -> u8>::f"},
		{"dyn Shape", "<dyn Shape>::f"},
	}

	for _, tt := range tests {
		t.Run(tt.trait, func(t *testing.T) {
			assert.Equal(t, tt.want, CallPath(mustType(t, tt.trait), "f"))
		})
	}
}

func TestReceiverExpr(t *testing.T) {
	assert.Equal(t, "inner", ReceiverExpr("inner", parser.ModifierNone))
	assert.Equal(t, "inner.as_ref()", ReceiverExpr("inner", parser.ModifierAsRef))
	assert.Equal(t, "*inner", ReceiverExpr("inner", parser.ModifierDeref))
}
