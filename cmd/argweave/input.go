// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"mvdan.cc/sh/v3/shell"

	"github.com/argweave/argweave/internal/issue"
	"github.com/argweave/argweave/internal/schemafile"
	"github.com/argweave/argweave/pkg/coerce"
	"github.com/argweave/argweave/pkg/envfile"
	"github.com/argweave/argweave/pkg/schema"
)

// inputFlags are the flags shared by every command that reads a schema
// and an argument vector.
type inputFlags struct {
	schemaPath string
	line       string
	envFiles   []string
}

func (f *inputFlags) registerSchema(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.schemaPath, "schema", "s", "", "schema file (.cue, .json, .toml or .hcl)")
	_ = cmd.MarkFlagRequired("schema")
}

func (f *inputFlags) registerArgs(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.line, "line", "", "argument line split with shell quoting rules, prepended to ARGS")
}

func (f *inputFlags) registerEnvFiles(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.envFiles, "env-file", nil, "env file seeding env-backed options (repeatable, '?' suffix for optional)")
}

// loadSchema reads and normalizes the schema at path against the app's
// type registry.
func (a *App) loadSchema(path string) (*schema.Command, error) {
	raw, err := schemafile.Load(path)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("load schema").
			WithResource(path).
			Wrap(err)
		switch {
		case errors.Is(err, os.ErrNotExist):
			ec.WithIssue(issue.SchemaFileNotFoundId).
				WithSuggestion("Verify the file path is correct")
		case errors.Is(err, schemafile.ErrUnsupportedFormat):
			ec.WithIssue(issue.SchemaInvalidId).
				WithSuggestion("Use a .cue, .json, .toml or .hcl file")
		default:
			ec.WithIssue(issue.SchemaInvalidId).
				WithSuggestion("Fix the reported fields and run 'argweave validate' again")
		}
		return nil, ec.BuildError()
	}

	cmd, err := schema.NormalizeCommand(raw, schema.WithRegistry(a.Coercion))
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("normalize schema").
			WithResource(path).
			Wrap(err)
		if errors.Is(err, coerce.ErrUnknownTag) {
			ec.WithIssue(issue.UnknownTypeId).
				WithSuggestion("Run 'argweave types' to list the registered types")
		} else {
			ec.WithIssue(issue.SchemaInvalidId).
				WithSuggestion("Check option aliases, defaults and patterns")
		}
		return nil, ec.BuildError()
	}
	a.logger.Debug("Schema loaded", "file", path, "options", len(cmd.Options))
	return cmd, nil
}

// argv prepends the words of line to args. Parameter expansion in line
// reads from the app's environment.
func (a *App) argv(line string, args []string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return args, nil
	}
	words, err := shell.Fields(line, a.getenv)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("split argument line").
			WithIssue(issue.ArgumentsRejectedId).
			WithSuggestion("Check quoting in --line").
			Wrap(err).
			BuildError()
	}
	return append(words, args...), nil
}

func (a *App) getenv(name string) string {
	v, _ := a.Env(name)
	return v
}

// envValues loads the configured env files followed by the requested ones.
// Their values take precedence over the app's environment.
func (a *App) envValues(extra []string) (envfile.Values, error) {
	files := append(slices.Clone(a.cfg.EnvFile.Files), extra...)
	if len(files) == 0 {
		return nil, nil
	}
	values, err := envfile.LoadAll(files...)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load env files").
			WithResource(strings.Join(files, ", ")).
			WithIssue(issue.EnvFileFailedId).
			WithSuggestion("Append '?' to a path to make the file optional").
			Wrap(err).
			BuildError()
	}
	a.logger.Debug("Env files loaded", "files", files, "keys", len(values))
	return values, nil
}

// commandName derives a command name from a schema file name.
func commandName(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
