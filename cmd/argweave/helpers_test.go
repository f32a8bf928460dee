// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/argweave/argweave/internal/config"
	"github.com/argweave/argweave/internal/testutil"
	"github.com/argweave/argweave/pkg/coerce"
)

const sumSchema = `
brief:         "Add numbers."
defaultOption: "number"
options: {
	number: {
		alias:       "n"
		type:        "number"
		multiple:    true
		env:         "SUM_NUMBERS"
		description: "Numbers to add."
	}
	label: {
		type:         "string"
		defaultValue: "total"
		description:  "Label printed next to the sum."
	}
}
`

type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return s.cfg, s.err
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the command tree with isolated output, an empty
// environment and the standard coercions. Unset dependencies get test
// defaults.
func runCLI(t *testing.T, deps Dependencies, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	if deps.Config == nil {
		deps.Config = staticConfig{cfg: config.DefaultConfig()}
	}
	if deps.Coercion == nil {
		deps.Coercion = coerce.Standard()
	}
	if deps.Env == nil {
		deps.Env = testutil.StaticEnv(nil)
	}
	if deps.ConfigDir == "" {
		deps.ConfigDir = t.TempDir()
	}

	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	root := NewRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	return testutil.MustWriteFile(t, t.TempDir(), name, content)
}
