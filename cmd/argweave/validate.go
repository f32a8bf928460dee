// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/argweave/argweave/pkg/usage"
)

// newValidateCommand creates the `argweave validate` command.
func newValidateCommand(app *App) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "validate -s FILE",
		Short: "Check a schema file without resolving anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := app.loadSchema(flags.schemaPath)
			if err != nil {
				return app.fail(ExitSchemaError, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s is valid (%d options)\n",
				SuccessStyle.Render("✓"), flags.schemaPath, len(def.Options))
			for _, name := range def.Names() {
				opt, _ := def.Option(name)
				fmt.Fprintf(out, "  %s %s %s\n",
					CmdStyle.Render(usage.FlagLabel(opt)),
					usage.TypeLabel(opt),
					VerboseStyle.Render(usage.Annotations(opt)))
			}
			return nil
		},
	}

	flags.registerSchema(cmd)
	return cmd
}
