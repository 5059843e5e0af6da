package parser

import (
	"testing"

	"martianoff/enumdispatch/dispatcherr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContainerAttribute(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "Simple trait", input: "TestTrait", want: "TestTrait"},
		{name: "Path trait", input: "crate::shapes::Shape", want: "crate::shapes::Shape"},
		{name: "Generic trait", input: "Convert<f64>", want: "Convert<f64>"},
		{name: "Surrounding whitespace", input: "  TestTrait\n", want: "TestTrait"},
		{name: "Empty", input: "", wantErr: "expected a trait type"},
		{name: "Trailing tokens", input: "TestTrait, Other", wantErr: "unexpected token `,`"},
		{name: "Not a type", input: "= x", wantErr: "expected a type, found `=`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := ParseContainerAttribute(tt.input, dispatcherr.Position{})
			if tt.wantErr != "" {
				var grammarErr *dispatcherr.GrammarError
				require.ErrorAs(t, err, &grammarErr)
				assert.Equal(t, tt.wantErr, grammarErr.Msg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, attr.Trait.String())
		})
	}
}

func TestParseContainerAttributePosition(t *testing.T) {
	attr, err := ParseContainerAttribute("  TestTrait", dispatcherr.Position{File: "a.yaml", Line: 2, Column: 20})
	require.NoError(t, err)
	assert.Equal(t, dispatcherr.Position{File: "a.yaml", Line: 2, Column: 22}, attr.Pos)
}

func TestParseVariantAttribute(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  VariantAttribute
	}{
		{name: "Empty yields defaults", input: "", want: VariantAttribute{}},
		{name: "Whitespace only", input: "   ", want: VariantAttribute{}},
		{name: "From", input: "from", want: VariantAttribute{From: true}},
		{name: "Modifier as_ref", input: "modifier = as_ref", want: VariantAttribute{Modifier: ModifierAsRef}},
		{name: "Modifier deref", input: "modifier=deref", want: VariantAttribute{Modifier: ModifierDeref}},
		{name: "Both", input: "from, modifier = deref", want: VariantAttribute{From: true, Modifier: ModifierDeref}},
		{name: "Both reversed", input: "modifier = as_ref, from", want: VariantAttribute{From: true, Modifier: ModifierAsRef}},
		{name: "Trailing comma", input: "from,", want: VariantAttribute{From: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := ParseVariantAttribute(tt.input, dispatcherr.Position{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, *attr)
		})
	}
}

func TestParseVariantAttributeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
		wantCol int
	}{
		{"Unknown keyword", "into", "expected one of `from`, `modifier`", 1},
		{"Unknown keyword after comma", "from, into", "expected one of `from`, `modifier`", 7},
		{"Missing separator", "from modifier = deref", "expected `,`, found `modifier`", 6},
		{"Missing equals", "modifier deref", "expected `=`, found `deref`", 10},
		{"Unknown modifier", "modifier = borrow", "expected one of `as_ref`, `deref`", 12},
		{"Missing modifier value", "modifier =", "unexpected end of input, expected one of `as_ref`, `deref`", 11},
		{"Duplicate from", "from, from", "duplicate `from`", 7},
		{"Duplicate modifier", "modifier = deref, modifier = as_ref", "duplicate `modifier`", 19},
		{"Double comma", "from,,", "expected one of `from`, `modifier`", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVariantAttribute(tt.input, dispatcherr.Position{Line: 1, Column: 1})
			var grammarErr *dispatcherr.GrammarError
			require.ErrorAs(t, err, &grammarErr)
			assert.Equal(t, tt.wantMsg, grammarErr.Msg)
			assert.Equal(t, tt.wantCol, grammarErr.Pos().Column)
		})
	}
}

func TestModifierText(t *testing.T) {
	for _, m := range []Modifier{ModifierNone, ModifierAsRef, ModifierDeref} {
		text, err := m.MarshalText()
		require.NoError(t, err)

		var got Modifier
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, m, got)
	}

	var m Modifier
	assert.EqualError(t, m.UnmarshalText([]byte("borrow")), `unknown modifier "borrow"`)
}
