// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"strings"
	"testing"
)

// scriptedReader replays lines and then reports EOF.
type scriptedReader struct {
	lines   []string
	history []string
	closed  bool
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(line string) {
	r.history = append(r.history, line)
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func TestREPL(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "sum.cue", sumSchema)
	reader := &scriptedReader{lines: []string{
		"-n 1 2",
		"",
		"sum --label 'two words'",
		"bogus",
		"sum --help",
		"exit",
		"-n 99",
	}}
	deps := Dependencies{LineReader: func() (LineReader, error) { return reader, nil }}

	res := runCLI(t, deps, "repl", "-s", path)
	if res.err != nil {
		t.Fatalf("repl error = %v\n%s", res.err, res.stderr)
	}
	if !reader.closed {
		t.Error("the line reader should be closed")
	}
	if len(reader.history) != 4 {
		t.Errorf("history = %q, want the four non-empty lines before exit", reader.history)
	}
	if len(reader.lines) != 1 {
		t.Errorf("lines after exit should not be read, left %q", reader.lines)
	}

	for _, want := range []string{`"number": [`, `"label": "two words"`, "argweave sum [OPTIONS]...", "--help"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "99") {
		t.Errorf("input after exit was evaluated:\n%s", res.stdout)
	}
	if strings.Contains(res.stdout, `"envFile"`) {
		t.Errorf("the built-in env file option should not be printed:\n%s", res.stdout)
	}
	if !strings.Contains(res.stderr, "The issued command does not exist.") {
		t.Errorf("stderr missing the unknown command message:\n%s", res.stderr)
	}
}

func TestREPL_DataErrorsContinue(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "sum.cue", sumSchema)
	reader := &scriptedReader{lines: []string{"--bogus", `--label "open`, "--label ok"}}
	deps := Dependencies{LineReader: func() (LineReader, error) { return reader, nil }}

	res := runCLI(t, deps, "repl", "-s", path, "--strict")
	if res.err != nil {
		t.Fatalf("repl error = %v", res.err)
	}
	if !strings.Contains(res.stderr, "unknown option: bogus") {
		t.Errorf("stderr missing the data error:\n%s", res.stderr)
	}
	if !strings.Contains(res.stderr, "Check quoting") {
		t.Errorf("stderr missing the split error:\n%s", res.stderr)
	}
	if !strings.Contains(res.stdout, `"label": "ok"`) {
		t.Errorf("the last line should still resolve:\n%s", res.stdout)
	}
}

func TestREPL_BadSchema(t *testing.T) {
	t.Parallel()

	opened := false
	deps := Dependencies{LineReader: func() (LineReader, error) {
		opened = true
		return &scriptedReader{}, nil
	}}
	res := runCLI(t, deps, "repl", "-s", "missing.cue")
	wantExitCode(t, res.err, ExitSchemaError)
	if opened {
		t.Error("the line reader should not be opened for a broken schema")
	}
}
