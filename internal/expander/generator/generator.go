// Package generator renders synthesized fragments as Rust source text.
package generator

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"martianoff/enumdispatch/internal/expander"
)

// Header is the first line of every generated file.
const Header = "// Code generated by enumdispatch. DO NOT EDIT."

//go:embed templates/*.rs.tmpl
var embeddedTemplatesFS embed.FS

// Template returns the embedded templates used for code generation.
func Template() *template.Template {
	t := template.New("impl.rs.tmpl").Option("missingkey=error")
	return template.Must(t.ParseFS(embeddedTemplatesFS, "templates/*"))
}

type rustCodeGenerator struct {
	tmpl *template.Template
}

// NewRustCodeGenerator creates a new instance of CodeGenerator that
// generates Rust code.
func NewRustCodeGenerator() expander.CodeGenerator {
	return &rustCodeGenerator{tmpl: Template()}
}

// Generate implements the CodeGenerator interface. The trait implementation
// comes first, followed by one From implementation per conversion, separated
// by blank lines.
func (g *rustCodeGenerator) Generate(f *expander.Fragment) (string, error) {
	parts := make([]string, 0, len(f.Conversions)+1)
	impl, err := g.execute("impl.rs.tmpl", f.Impl)
	if err != nil {
		return "", err
	}
	parts = append(parts, impl)
	for _, c := range f.Conversions {
		from, err := g.execute("from.rs.tmpl", c)
		if err != nil {
			return "", err
		}
		parts = append(parts, from)
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// RenderError implements the CodeGenerator interface.
func (g *rustCodeGenerator) RenderError(err error) string {
	return "::core::compile_error!(" + rustQuote(err.Error()) + ");\n"
}

func (g *rustCodeGenerator) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// rustQuote returns s as a Rust string literal.
func rustQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u{%x}`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

var _ expander.CodeGenerator = (*rustCodeGenerator)(nil)
