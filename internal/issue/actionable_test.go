// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load schema"},
			expected: "failed to load schema",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load schema", Resource: "./sum.cue"},
			expected: "failed to load schema: ./sum.cue",
		},
		{
			name:     "full context",
			err:      &ActionableError{Operation: "load schema", Resource: "./sum.cue", Cause: errors.New("file not found")},
			expected: "failed to load schema: ./sum.cue: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := WrapWithContext(cause, "resolve arguments", "sum.cue")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if WrapWithContext(nil, "x", "y") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("no such file")
	err := NewErrorContext().
		WithOperation("load schema").
		WithResource("sum.cue").
		WithSuggestion("Check the path").
		WithSuggestions("Use an absolute path", "Run 'argweave validate'").
		Wrap(fmt.Errorf("open sum.cue: %w", root)).
		Build()

	plain := err.Format(false)
	for _, want := range []string{"failed to load schema: sum.cue", "  • Check the path", "  • Run 'argweave validate'"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain:") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:\n  1. open sum.cue: no such file\n  2. no such file") {
		t.Errorf("Format(true) chain:\n%s", verbose)
	}
	if !err.HasSuggestions() {
		t.Error("HasSuggestions() = false")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}

	err := NewErrorContext().WithOperation("load configuration").WithIssue(ConfigLoadFailedId).Build()
	if err.Issue != ConfigLoadFailedId {
		t.Errorf("Issue = %d, want %d", err.Issue, ConfigLoadFailedId)
	}
}
