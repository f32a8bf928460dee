// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/argweave/argweave/internal/config"
	"github.com/argweave/argweave/internal/issue"
	"github.com/argweave/argweave/internal/watch"
	"github.com/argweave/argweave/pkg/resolve"
)

type resolveFlags struct {
	inputFlags
	strict bool
	output string
	watch  bool
}

// newResolveCommand creates the `argweave resolve` command.
func newResolveCommand(app *App) *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve -s FILE [-- ARGS...]",
		Short: "Resolve arguments against a schema and print the values",
		Long: `Resolve arguments against a schema and print the typed values.

Arguments for the schema go after '--' or in --line. Every data error is
reported before the command exits with status 2; a broken schema exits
with status 1.

Examples:
  argweave resolve -s sum.cue -- --number 1 2 3
  argweave resolve -s sum.cue --strict --line "-n 1 --label total" -o toml
  argweave resolve -s sum.cue --env-file 'env/*.env' --watch -- -n 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			strict := app.cfg.Strict
			if cmd.Flags().Changed("strict") {
				strict = flags.strict
			}
			output := app.cfg.Output
			if flags.output != "" {
				output = config.OutputFormat(flags.output)
			}
			if flags.watch {
				return watchResolve(cmd.Context(), app, cmd.OutOrStdout(), &flags, strict, output, args)
			}
			return runResolve(cmd.Context(), app, cmd.OutOrStdout(), &flags, strict, output, args)
		},
	}

	flags.registerSchema(cmd)
	flags.registerArgs(cmd)
	flags.registerEnvFiles(cmd)
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "report undeclared options as errors")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: json, toml, cue or dump (default from config)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-resolve whenever the schema or an env file changes")
	return cmd
}

func runResolve(ctx context.Context, app *App, w io.Writer, flags *resolveFlags, strict bool, output config.OutputFormat, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ok, errs := output.IsValid(); !ok {
		return app.fail(ExitSchemaError, errs[0])
	}

	def, err := app.loadSchema(flags.schemaPath)
	if err != nil {
		return app.fail(ExitSchemaError, err)
	}
	argv, err := app.argv(flags.line, args)
	if err != nil {
		return app.fail(ExitSchemaError, err)
	}
	fileValues, err := app.envValues(flags.envFiles)
	if err != nil {
		return app.fail(ExitSchemaError, err)
	}

	values, dataErrs, err := resolve.Resolve(def, argv,
		resolve.WithRegistry(app.Coercion),
		resolve.WithStrict(strict),
		resolve.WithEnvValues(fileValues.LookupAll),
		resolve.WithEnv(app.Env),
		resolve.WithEnvSeparator(app.cfg.EnvFile.Separator),
		resolve.WithLogger(app.logger),
	)
	if err != nil {
		return app.fail(ExitSchemaError, err)
	}
	if len(dataErrs) > 0 {
		reportDataErrors(app, flags.schemaPath, dataErrs)
		return &ExitError{Code: ExitDataError}
	}
	return writeValues(w, output, values)
}

// reportDataErrors prints one line per data error followed by the hint of
// the arguments-rejected issue.
func reportDataErrors(app *App, path string, errs resolve.ErrorList) {
	fmt.Fprintln(app.stderr, ErrorStyle.Render(fmt.Sprintf("%d data error(s) resolving against %s:", len(errs), path)))
	for _, e := range errs {
		fmt.Fprintf(app.stderr, "  %s %s\n", errorKindStyle.Render(e.Kind.String()), e.Error())
	}
	if app.verbose {
		if known := issue.Get(issue.ArgumentsRejectedId); known != nil {
			if guidance, err := known.Render(app.glamourStyle()); err == nil {
				fmt.Fprint(app.stderr, guidance)
			}
		}
	}
}

// watchResolve resolves once, then again after every change to the schema
// or an env file until ctx is cancelled. Failed runs are reported and the
// watch keeps going.
func watchResolve(ctx context.Context, app *App, w io.Writer, flags *resolveFlags, strict bool, output config.OutputFormat, args []string) error {
	if ok, errs := output.IsValid(); !ok {
		return app.fail(ExitSchemaError, errs[0])
	}

	once := func(ctx context.Context) {
		err := runResolve(ctx, app, w, flags, strict, output, args)
		var exitErr *ExitError
		if err != nil && !errors.As(err, &exitErr) && !errors.Is(err, context.Canceled) {
			app.logger.Error("resolve failed", "err", err)
		}
	}

	targets := []string{flags.schemaPath}
	for _, f := range append(append([]string{}, app.cfg.EnvFile.Files...), flags.envFiles...) {
		targets = append(targets, strings.TrimSuffix(f, "?"))
	}
	watcher, err := watch.New(watch.Config{
		Targets: targets,
		Stderr:  app.stderr,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintln(app.stderr, VerboseStyle.Render("Changed: "+strings.Join(changed, ", ")))
			once(ctx)
			return nil
		},
	})
	if err != nil {
		return app.fail(ExitSchemaError, issue.NewErrorContext().
			WithOperation("watch input files").
			WithResource(flags.schemaPath).
			WithSuggestion("Make sure the directories of the schema and env files exist").
			Wrap(err).
			BuildError())
	}

	once(ctx)
	app.logger.Debug("watching", "targets", targets)
	return watcher.Run(ctx)
}
