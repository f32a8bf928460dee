// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	if err := FormatError(nil, "x.cue"); err != nil {
		t.Errorf("FormatError(nil) = %v", err)
	}

	plain := errors.New("some error")
	err := FormatError(plain, "x.cue")
	if !errors.Is(err, plain) || !strings.HasPrefix(err.Error(), "x.cue: ") {
		t.Errorf("FormatError(plain) = %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	one := &ValidationError{File: "a.cue", Issues: []Issue{{Path: "options.n", Message: "bad"}}}
	if got, want := one.Error(), "a.cue: options.n: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	many := &ValidationError{File: "a.cue", Issues: []Issue{{Message: "root"}, {Path: "x", Message: "bad"}}}
	want := "a.cue: validation failed with 2 errors:\n  - root\n  - x: bad"
	if got := many.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"brief"}, "brief"},
		{[]string{"options", "n", "alias"}, "options.n.alias"},
		{[]string{"sections", "0", "title"}, "sections[0].title"},
		{[]string{"synopsis", "1"}, "synopsis[1]"},
		{[]string{"0"}, "0"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
