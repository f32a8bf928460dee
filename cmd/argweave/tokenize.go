// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/argweave/argweave/pkg/argmap"
)

// newTokenizeCommand creates the `argweave tokenize` command.
func newTokenizeCommand(app *App) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "tokenize -s FILE [-- ARGS...]",
		Short: "Print the raw assignments of an argument vector",
		Long: `Print the raw assignments of an argument vector, before any
coercion, defaulting or validation.

Each recorded name is printed with its raw values in first-seen order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := app.loadSchema(flags.schemaPath)
			if err != nil {
				return app.fail(ExitSchemaError, err)
			}
			argv, err := app.argv(flags.line, args)
			if err != nil {
				return app.fail(ExitSchemaError, err)
			}

			m := argmap.Tokenize(def, argv)
			out := cmd.OutOrStdout()
			if m.Len() == 0 {
				fmt.Fprintln(out, SubtitleStyle.Render("(no assignments)"))
				return nil
			}
			for _, name := range m.Names() {
				fmt.Fprintf(out, "%s %q\n", CmdStyle.Render(name), m.Values(name))
			}
			return nil
		},
	}

	flags.registerSchema(cmd)
	flags.registerArgs(cmd)
	return cmd
}
