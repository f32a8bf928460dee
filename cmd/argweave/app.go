// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/argweave/argweave/internal/config"
	"github.com/argweave/argweave/internal/issue"
	"github.com/argweave/argweave/pkg/coerce"
	"github.com/argweave/argweave/pkg/envfile"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config    config.Provider
		Coercion  *coerce.Registry
		Env       envfile.LookupFunc
		ConfigDir string

		newLineReader func() (LineReader, error)
		stdout        io.Writer
		stderr        io.Writer
		logger        *log.Logger

		verbose    bool
		configPath string
		cfg        *config.Config
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// Coercion is the type registry used for every resolution.
		Coercion *coerce.Registry
		// Env looks up environment variables for env-backed options.
		Env envfile.LookupFunc
		// ConfigDir overrides the user config directory.
		ConfigDir string
		// LineReader opens the line editor used by the repl command.
		LineReader func() (LineReader, error)
		Stdout     io.Writer
		Stderr     io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Coercion == nil {
		deps.Coercion = coerce.Default()
	}
	if deps.Env == nil {
		deps.Env = envfile.Environ()
	}
	if deps.LineReader == nil {
		deps.LineReader = newLinerReader
	}

	logger := log.NewWithOptions(deps.Stderr, log.Options{
		Prefix: config.AppName,
		Level:  log.WarnLevel,
	})

	return &App{
		Config:        deps.Config,
		Coercion:      deps.Coercion,
		Env:           deps.Env,
		ConfigDir:     deps.ConfigDir,
		newLineReader: deps.LineReader,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
		logger:        logger,
		cfg:           config.DefaultConfig(),
	}, nil
}

// loadConfig reads the configuration once per invocation. Load failures
// are reported as warnings and the defaults are used instead.
func (a *App) loadConfig(ctx context.Context) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.configPath,
		ConfigDirPath:  a.ConfigDir,
	})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+a.formatError(err))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}

	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
	a.logger.Debug("Configuration loaded", "strict", cfg.Strict, "output", cfg.Output)
}

// glamourStyle names the Markdown style matching the configured color scheme.
func (a *App) glamourStyle() string {
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// formatError formats an error for user display. An ActionableError uses its
// Format method; in verbose mode the matching issue guidance is appended.
func (a *App) formatError(err error) string {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return err.Error()
	}
	msg := ae.Format(a.verbose)
	if !a.verbose {
		return msg
	}
	if known := issue.Get(ae.Issue); known != nil {
		if guidance, renderErr := known.Render(a.glamourStyle()); renderErr == nil {
			msg += "\n" + guidance
		}
	}
	return msg
}

// fail reports err on stderr and returns an ExitError carrying code.
func (a *App) fail(code int, err error) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+a.formatError(err))
	return &ExitError{Code: code}
}
