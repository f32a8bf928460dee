// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/argweave/argweave/internal/config"
	"github.com/argweave/argweave/pkg/usage"
)

// newUsageCommand creates the `argweave usage` command.
func newUsageCommand(app *App) *cobra.Command {
	var (
		flags    inputFlags
		name     string
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "usage -s FILE",
		Short: "Render the usage text of a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := app.loadSchema(flags.schemaPath)
			if err != nil {
				return app.fail(ExitSchemaError, err)
			}
			if name == "" {
				name = commandName(flags.schemaPath)
			}

			r := usage.Renderer{
				Markdown: markdown || app.cfg.UI.Markdown,
				Width:    app.cfg.UI.Width,
			}
			fmt.Fprint(cmd.OutOrStdout(), r.Command(config.AppName, name, def))
			return nil
		},
	}

	flags.registerSchema(cmd)
	cmd.Flags().StringVar(&name, "name", "", "command name shown in the synopsis (default: schema file name)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render descriptions and sections as Markdown")
	return cmd
}
