// SPDX-License-Identifier: MPL-2.0

package main

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets the scripts invoke the real binary as "argweave" without a
// separate go build step.
func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"argweave": main,
	})
}

// TestCLI runs every testscript under testdata/script.
func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			// Keep user configuration out of the scripts.
			env.Setenv("XDG_CONFIG_HOME", env.WorkDir+"/.config")
			env.Setenv("NO_COLOR", "1")
			return nil
		},
	})
}
