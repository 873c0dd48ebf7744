// Package cli is the command-line front end of the storefront. Each
// invocation wires one App, runs a single command against it and exits.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tiendademo/storefront/internal/messages"
	"github.com/tiendademo/storefront/internal/pkg/config"
)

// Builder constructs the App used by a command.
type Builder func(ctx context.Context) (*App, error)

// ConfigBuilder wires the App described by cfg.
func ConfigBuilder(cfg *config.Config, log zerolog.Logger) Builder {
	return func(ctx context.Context) (*App, error) {
		return NewApp(ctx, cfg, log)
	}
}

type env struct {
	build        Builder
	app          *App
	forms        *formValidator
	printMetrics bool
}

// App returns the App built for the running command.
func (e *env) App() *App { return e.app }

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, build Builder, log zerolog.Logger) int {
	e := &env{build: build, forms: newFormValidator()}

	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	if e.app != nil {
		if e.printMetrics {
			if merr := writeMetrics(stderr, prometheus.DefaultGatherer); merr != nil {
				log.Warn().Err(merr).Msg("printing metrics")
			}
		}
		if cerr := e.app.Close(ctx); cerr != nil {
			log.Warn().Err(cerr).Msg("closing backend")
		}
	}

	if err != nil {
		report(stderr, err, log)
		return 1
	}
	return 0
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Accounts, session and cart of the demo storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := e.build(cmd.Context())
			if err != nil {
				return err
			}
			e.app = app
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&e.printMetrics, "metrics", false, "print counters to stderr on exit")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", messages.ErrInvalidFields, err)
	})

	root.AddCommand(
		newUsersCmd(e),
		newSessionCmd(e),
		newRecoverCmd(e),
		newCartCmd(e),
		newHealthCmd(e),
	)
	return root
}

// report prints the user-facing message for err, plus the detail when it
// helps fix the input.
func report(w io.Writer, err error, log zerolog.Logger) {
	code := messages.Resolve(err, log)
	fmt.Fprintln(w, messages.Message(code))
	if code == messages.InvalidFields || code == messages.Unexpected {
		fmt.Fprintln(w, "  "+err.Error())
	}
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "storefront_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// inputArgs reports positional argument errors as invalid input.
func inputArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", messages.ErrInvalidFields, err)
		}
		return nil
	}
}
