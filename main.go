// SPDX-License-Identifier: MPL-2.0

// Command argweave resolves command-line arguments against option schemas.
package main

import cmd "github.com/argweave/argweave/cmd/argweave"

func main() {
	cmd.Execute()
}
