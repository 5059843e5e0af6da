package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"martianoff/enumdispatch/internal/decl"
	"martianoff/enumdispatch/internal/expander"
	"martianoff/enumdispatch/internal/expander/generator"
)

type generateOptions struct {
	*globalOptions

	input      string
	output     string
	emitErrors bool
	watch      bool
	noHeader   bool
	jobs       int
}

func newGenerateCmd(global *globalOptions) *cobra.Command {
	opts := &generateOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "generate [decls.yaml]",
		Short: "Generate dispatch code from a declaration file",
		Long: `Generate the trait implementation and From conversions of every sum type
declared in the input file.

The output path is taken from -o, then from the file's "output" key (relative
to the declaration file); without either the code is written to stdout.

Examples:
  enumdispatch generate decls.yaml                   # Output to stdout
  enumdispatch generate -i decls.yaml -o out.rs      # Output to file
  enumdispatch generate decls.yaml --emit-errors     # Replace failures by compile_error!
  enumdispatch generate decls.yaml -o out.rs --watch # Regenerate on change`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.input == "" && len(args) > 0 {
				opts.input = args[0]
			}
			if opts.input == "" {
				return errors.New("no input file specified")
			}
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Path to the declaration file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Path to the output .rs file")
	cmd.Flags().BoolVar(&opts.emitErrors, "emit-errors", false,
		"Emit compile_error! in place of sum types that fail to expand")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate whenever the declaration file changes")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "Omit the generated-code header")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Number of sum types expanded in parallel")
	return cmd
}

func (o *generateOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if !o.watch {
		return o.generate(ctx, cmd.OutOrStdout())
	}

	w, err := newFileWatcher(o.input, o.logger)
	if err != nil {
		return err
	}
	if err := o.generate(ctx, cmd.OutOrStdout()); err != nil {
		o.logger.Error().Err(err).Msg("generation failed")
	}
	return w.Run(ctx, func() {
		if err := o.generate(ctx, cmd.OutOrStdout()); err != nil {
			o.logger.Error().Err(err).Msg("generation failed")
		}
	})
}

// generate runs one generation of the input file.
func (o *generateOptions) generate(ctx context.Context, stdout io.Writer) error {
	f, err := decl.Load(o.input)
	if err != nil {
		return err
	}

	code, genErr := generateFile(ctx, newExpander(), f, generateConfig{
		emitErrors: o.emitErrors,
		noHeader:   o.noHeader,
		jobs:       o.jobs,
	}, o.logger)
	if genErr != nil && !o.emitErrors {
		return genErr
	}

	output := o.outputPath(f)
	if output == "" {
		if _, err := io.WriteString(stdout, code); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(output, []byte(code), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		o.logger.Info().
			Str("output", output).
			Int("sum_types", len(f.SumTypes)).
			Msg("generated dispatch code")
	}
	return genErr
}

func (o *generateOptions) outputPath(f *decl.File) string {
	switch {
	case o.output != "":
		return o.output
	case f.Output == "":
		return ""
	case filepath.IsAbs(f.Output):
		return f.Output
	}
	return filepath.Join(filepath.Dir(o.input), f.Output)
}

type generateConfig struct {
	emitErrors bool
	noHeader   bool
	jobs       int
}

// generateFile expands every sum type of f in parallel and joins the results
// in declaration order. Failures of independent sum types are combined. With
// emitErrors the failing sum types are rendered as compile errors and the
// code is returned together with the combined error; otherwise no code is
// returned on failure. Cancelling ctx stops the sum types not yet expanded
// and returns the context error.
func generateFile(ctx context.Context, e *expander.Expander, f *decl.File, cfg generateConfig, logger zerolog.Logger) (string, error) {
	parts := make([]string, len(f.SumTypes))
	errs := make([]error, len(f.SumTypes))

	g, ctx := errgroup.WithContext(ctx)
	if cfg.jobs > 0 {
		g.SetLimit(cfg.jobs)
	}
	for i := range f.SumTypes {
		st := &f.SumTypes[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger.Debug().Str("sum_type", st.Name).Msg("expanding")
			parts[i], errs[i] = e.Generate(st)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	err := multierr.Combine(errs...)
	if err != nil && !cfg.emitErrors {
		return "", err
	}
	for i, partErr := range errs {
		if partErr != nil {
			logger.Warn().Str("sum_type", f.SumTypes[i].Name).Err(partErr).Msg("emitting compile error")
			parts[i] = e.RenderError(partErr)
		}
	}

	var sb strings.Builder
	if !cfg.noHeader {
		sb.WriteString(generator.Header)
		sb.WriteString("\n\n")
	}
	sb.WriteString(strings.Join(parts, "\n"))
	return sb.String(), err
}
