// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Greeting: {
	name:     string & != ""
	count:    int & >=0
	loud:     bool | *false
	tags?:    [...string]
}
`

type greeting struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Loud  bool     `json:"loud"`
	Tags  []string `json:"tags,omitempty"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("struct", func(t *testing.T) {
		t.Parallel()

		result, err := DecodeString[greeting](testSchema, "#Greeting", []byte(`name: "ada", count: 2`))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		got := *result.Value
		if got.Name != "ada" || got.Count != 2 || got.Loud {
			t.Errorf("Decode() = %+v", got)
		}
		if !result.Unified.Exists() {
			t.Error("Unified value should exist")
		}
	})

	t.Run("json document into a map", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"name": "ada", "count": 1, "tags": ["a", "b"]}`)
		result, err := DecodeString[map[string]any](testSchema, "#Greeting", data, WithFilename("greeting.json"))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		m := *result.Value
		if m["name"] != "ada" {
			t.Errorf("name = %v", m["name"])
		}
		if m["loud"] != false {
			t.Errorf("loud default not applied: %v", m["loud"])
		}
		tags, ok := m["tags"].([]any)
		if !ok || len(tags) != 2 {
			t.Errorf("tags = %#v", m["tags"])
		}
	})

	t.Run("non-concrete document", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeString[greeting](testSchema, "#Greeting", []byte(`name: "ada"`))
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation for the missing count", err)
		}
	})
}

func TestDecode_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		wantPath string
	}{
		{name: "wrong type", data: `name: "ada", count: "two"`, wantPath: "count"},
		{name: "constraint", data: `name: "ada", count: -1`, wantPath: "count"},
		{name: "closed definition", data: `name: "ada", count: 1, extra: true`, wantPath: "extra"},
		{name: "list element", data: `name: "ada", count: 1, tags: ["a", 2]`, wantPath: "tags[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeString[greeting](testSchema, "#Greeting", []byte(tt.data), WithFilename("greeting.cue"))
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error is %T, want *ValidationError", err)
			}
			if verr.File != "greeting.cue" {
				t.Errorf("File = %q", verr.File)
			}
			found := false
			for _, issue := range verr.Issues {
				if issue.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("no issue at %q in %v", tt.wantPath, verr.Issues)
			}
		})
	}
}

func TestDecode_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := DecodeString[greeting](testSchema, "#Greeting", []byte(`name: "ada`), WithFilename("broken.cue"))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if !strings.Contains(err.Error(), "broken.cue") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestDecode_SchemaProblems(t *testing.T) {
	t.Parallel()

	_, err := DecodeString[greeting]("#Greeting: {", "#Greeting", []byte(`name: "ada"`))
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("broken schema error = %v", err)
	}

	_, err = DecodeString[greeting](testSchema, "#Missing", []byte(`name: "ada"`))
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Errorf("missing definition error = %v", err)
	}
}

func TestDecode_FileSize(t *testing.T) {
	t.Parallel()

	_, err := DecodeString[greeting](testSchema, "#Greeting", []byte(`name: "a long name", count: 1`), WithMaxFileSize(8))
	var sizeErr *FileSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("error = %v, want *FileSizeError", err)
	}
	if sizeErr.Limit != 8 || !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("FileSizeError = %+v", sizeErr)
	}
}
