// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newTypesCommand creates the `argweave types` command.
func newTypesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered option types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, tag := range app.Coercion.Tags() {
				sub, _ := app.Coercion.MissingSubstitute(tag)
				note := fmt.Sprintf("missing value: %q", sub)
				if !tag.IsBuiltin() {
					note += ", custom"
				}
				fmt.Fprintf(out, "%s %s\n", CmdStyle.Render(fmt.Sprintf("%-10s", tag)), VerboseStyle.Render(note))
			}
			return nil
		},
	}
}
