// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"github.com/argweave/argweave/internal/config"
	"github.com/argweave/argweave/pkg/command"
	"github.com/argweave/argweave/pkg/resolve"
	"github.com/argweave/argweave/pkg/usage"
)

const historyFileName = "repl_history"

type (
	// LineReader reads input lines for the repl command.
	LineReader interface {
		Prompt(prompt string) (string, error)
		AppendHistory(line string)
		Close() error
	}

	// linerReader is the terminal LineReader, keeping history in the
	// config directory.
	linerReader struct {
		state       *liner.State
		historyFile string
	}
)

func newLinerReader() (LineReader, error) {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	r := &linerReader{state: state}
	if dir, err := config.ConfigDir(); err == nil {
		r.historyFile = filepath.Join(dir, historyFileName)
		if f, err := os.Open(r.historyFile); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
	}
	return r, nil
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *linerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

// Close saves the history and restores the terminal.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0o755); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
				_, _ = r.state.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.state.Close()
}

// newREPLCommand creates the `argweave repl` command.
func newREPLCommand(app *App) *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "repl -s FILE",
		Short: "Resolve argument lines interactively",
		Long: `Resolve argument lines interactively.

The schema is registered as a command named after the file. Each line is
split with shell quoting rules and resolved; a line may start with the
command name or directly with a flag. '--help' prints the usage, 'exit'
or Ctrl+D leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strict := app.cfg.Strict
			if cmd.Flags().Changed("strict") {
				strict = flags.strict
			}
			output := app.cfg.Output
			if flags.output != "" {
				output = config.OutputFormat(flags.output)
			}
			if ok, errs := output.IsValid(); !ok {
				return app.fail(ExitSchemaError, errs[0])
			}

			reg, name, err := newSchemaRegistry(app, cmd.OutOrStdout(), &flags, strict, output)
			if err != nil {
				return app.fail(ExitSchemaError, err)
			}

			reader, err := app.newLineReader()
			if err != nil {
				return app.fail(ExitSchemaError, err)
			}
			defer reader.Close()

			fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Resolving against "+flags.schemaPath+". Type 'exit' to leave."))
			return runREPL(cmd.Context(), app, reader, reg, name)
		},
	}

	flags.registerSchema(cmd)
	flags.registerEnvFiles(cmd)
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "report undeclared options as errors")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: json, toml, cue or dump (default from config)")
	return cmd
}

// newSchemaRegistry registers the schema file as the default command of a
// fresh dispatcher whose handler prints the resolved values.
func newSchemaRegistry(app *App, w io.Writer, flags *resolveFlags, strict bool, output config.OutputFormat) (*command.Registry, string, error) {
	def, err := app.loadSchema(flags.schemaPath)
	if err != nil {
		return nil, "", err
	}
	fileValues, err := app.envValues(flags.envFiles)
	if err != nil {
		return nil, "", err
	}

	name := commandName(flags.schemaPath)
	envOption := app.cfg.EnvFile.Option
	reg := command.NewRegistry(config.AppName,
		command.WithOutput(w),
		command.WithErrorOutput(app.stderr),
		command.WithLogger(app.logger),
		command.WithCoercion(app.Coercion),
		command.WithEnvLookup(app.Env),
		command.WithEnvValues(fileValues),
		command.WithRenderer(usage.Renderer{Markdown: app.cfg.UI.Markdown, Width: app.cfg.UI.Width}),
		command.WithSettings(command.Settings{
			DefaultCommand: name,
			EnvFileOption:  envOption,
			EnvSeparator:   app.cfg.EnvFile.Separator,
			Strict:         strict,
		}),
	)

	_, ownEnvOption := def.Option(envOption)
	printValues := func(_ context.Context, inv *command.Invocation) error {
		values := resolve.Values(maps.Clone(map[string]any(inv.Values)))
		if !ownEnvOption {
			delete(values, envOption)
		}
		return writeValues(inv.Stdout, output, values)
	}
	if err := reg.Define(name, printValues, def); err != nil {
		return nil, "", err
	}
	return reg, name, nil
}

// runREPL evaluates lines until the reader is exhausted, the user leaves
// or ctx is canceled. Per-line failures are reported and the loop goes on.
func runREPL(ctx context.Context, app *App, reader LineReader, reg *command.Registry, name string) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := reader.Prompt(name + "> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		reader.AppendHistory(line)

		argv, err := app.argv(line, nil)
		if err != nil {
			fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+app.formatError(err))
			continue
		}
		if err := reg.Evaluate(ctx, argv); err != nil {
			var (
				invErr     *command.InvocationError
				unknownErr *command.UnknownCommandError
			)
			// Evaluate prints these itself.
			if !errors.As(err, &invErr) && !errors.As(err, &unknownErr) {
				fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+app.formatError(err))
			}
		}
	}
}
