// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/argweave/argweave/internal/config"
	"github.com/argweave/argweave/internal/issue"
)

// newConfigCommand creates the `argweave config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage argweave configuration",
		Long: `Manage argweave configuration.

Configuration is stored in:
  - Linux: ~/.config/argweave/config.cue
  - macOS: ~/Library/Application Support/argweave/config.cue
  - Windows: %APPDATA%\argweave\config.cue

Every key can be overridden with an ARGWEAVE_ environment variable,
e.g. ARGWEAVE_STRICT=true or ARGWEAVE_ENV_FILE_SEPARATOR=";".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(app.cfg))
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(app.ConfigDir, force)
			if err != nil {
				ec := issue.NewErrorContext().
					WithOperation("write configuration").
					WithResource(path).
					WithIssue(issue.ConfigLoadFailedId).
					Wrap(err)
				if errors.Is(err, config.ErrConfigExists) {
					ec.WithSuggestion("Use 'argweave config init --force' to overwrite it")
				}
				return app.fail(ExitSchemaError, ec.BuildError())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.configPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), app.configPath)
				return nil
			}
			dir := app.ConfigDir
			if dir == "" {
				var err error
				if dir, err = config.ConfigDir(); err != nil {
					return app.fail(ExitSchemaError, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}
