package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"martianoff/enumdispatch/internal/decl"
	"martianoff/enumdispatch/internal/expander"
)

type inspectOptions struct {
	*globalOptions

	input  string
	format string
}

// inspection is the parsed view of one sum type.
type inspection struct {
	Name      string         `json:"name"`
	Trait     string         `json:"trait,omitempty"`
	Functions []functionView `json:"functions,omitempty"`
	Variants  []variantView  `json:"variants,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type functionView struct {
	Name     string   `json:"name"`
	Receiver string   `json:"receiver"`
	Params   []string `json:"params,omitempty"`
	Return   string   `json:"return,omitempty"`
}

type variantView struct {
	Name     string `json:"name"`
	Payload  string `json:"payload"`
	Modifier string `json:"modifier"`
	From     bool   `json:"from"`
}

func newInspectCmd(global *globalOptions) *cobra.Command {
	opts := &inspectOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "inspect [decls.yaml]",
		Short: "Show the parsed attributes and variant descriptors",
		Long: `Parse and validate every sum type of the declaration file and print what
the generator would work from. Sum types that fail to expand are reported
with their error.

Formats:
  json  one object per sum type (default)
  dump  the analyzed structures, as printed by go-spew`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.input == "" && len(args) > 0 {
				opts.input = args[0]
			}
			if opts.input == "" {
				return errors.New("no input file specified")
			}
			return opts.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Path to the declaration file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format (json, dump)")
	return cmd
}

func (o *inspectOptions) run(w io.Writer) error {
	f, err := decl.Load(o.input)
	if err != nil {
		return err
	}

	e := newExpander()
	analyses := make([]*expander.Analysis, len(f.SumTypes))
	errs := make([]error, len(f.SumTypes))
	for i := range f.SumTypes {
		analyses[i], errs[i] = e.Analyze(&f.SumTypes[i])
		if errs[i] != nil {
			o.logger.Debug().Str("sum_type", f.SumTypes[i].Name).Err(errs[i]).Msg("analysis failed")
		}
	}

	switch o.format {
	case "json":
		views := make([]inspection, len(analyses))
		for i, a := range analyses {
			views[i] = inspect(f.SumTypes[i].Name, a, errs[i])
		}
		data, err := json.Marshal(views, jsontext.WithIndent("  "))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "dump":
		for i, a := range analyses {
			if errs[i] != nil {
				fmt.Fprintf(w, "%s: %v\n", f.SumTypes[i].Name, errs[i])
				continue
			}
			spew.Fdump(w, a)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", o.format)
}

func inspect(name string, a *expander.Analysis, err error) inspection {
	if err != nil {
		return inspection{Name: name, Error: err.Error()}
	}

	view := inspection{Name: a.Name, Trait: a.Container.Trait.String()}
	for _, fn := range a.Functions {
		fv := functionView{Name: fn.Name, Receiver: fn.Receiver.String()}
		for _, p := range fn.Params {
			fv.Params = append(fv.Params, p.String())
		}
		if fn.Return != nil {
			fv.Return = fn.Return.String()
		}
		view.Functions = append(view.Functions, fv)
	}
	for _, v := range a.Variants {
		view.Variants = append(view.Variants, variantView{
			Name:     v.Name,
			Payload:  v.Payload.String(),
			Modifier: v.Modifier.String(),
			From:     v.From,
		})
	}
	return view
}
