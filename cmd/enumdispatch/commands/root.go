// Package commands provides the CLI commands for the enumdispatch tool.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"martianoff/enumdispatch/internal/expander"
	"martianoff/enumdispatch/internal/expander/analyzer"
	"martianoff/enumdispatch/internal/expander/generator"
	"martianoff/enumdispatch/internal/expander/synthesizer"
)

// globalOptions holds the flags shared by every subcommand.
type globalOptions struct {
	logLevel  string
	logFormat string
	logger    zerolog.Logger
}

// NewRootCmd creates the enumdispatch command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "enumdispatch",
		Short: "Static dispatch code generator for Rust enums",
		Long: `enumdispatch generates trait implementations for enums whose variants
each wrap one value implementing the trait. Every trait function is forwarded
through a match over the variants, and From conversions are generated for
variants marked with enum_dispatch(from).

Declarations are read from a YAML or JSON file:

  sum_types:
    - name: TestEnum
      attributes:
        - enum_dispatch(TestTrait)
        - function(fn test(&self))
      variants:
        - name: A
          fields: [i32]
          attributes: [enum_dispatch(from)]

Usage:
  enumdispatch generate -i decls.yaml -o dispatch.rs
  enumdispatch inspect -i decls.yaml
  enumdispatch version`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr(EnvLogLevel, "info"),
		"Log level (trace, debug, info, warn, error); env "+EnvLogLevel)
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", envOr(EnvLogFormat, "json"),
		"Log format (json, console); env "+EnvLogFormat)

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command. Interrupts cancel a running watch.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// newExpander wires the expansion pipeline.
func newExpander() *expander.Expander {
	p := expander.NewAttributeParser()
	return expander.NewExpander(
		p,
		analyzer.NewVariantAnalyzer(p),
		synthesizer.NewDispatchSynthesizer(),
		generator.NewRustCodeGenerator(),
	)
}
