// SPDX-License-Identifier: MPL-2.0

package argmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/argweave/argweave/pkg/coerce"
	"github.com/argweave/argweave/pkg/schema"
)

func testCommand(t *testing.T) *schema.Command {
	t.Helper()

	cmd, err := schema.NormalizeCommand(schema.Raw{
		"defaultOption": "def",
		"options": map[string]any{
			"name":   schema.Raw{"type": "string", "defaultValue": "mark"},
			"bool":   schema.Raw{"type": "boolean"},
			"age":    schema.Raw{"type": "number", "multiple": true},
			"gender": schema.Raw{"alias": "g", "type": "string"},
			"color":  schema.Raw{"alias": "c", "type": "string", "multiple": true},
			"def":    schema.Raw{"type": "string", "multiple": true},
		},
	}, schema.WithRegistry(coerce.Standard()))
	if err != nil {
		t.Fatalf("NormalizeCommand() error = %v", err)
	}
	return cmd
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	cmd := testCommand(t)

	tests := []struct {
		name string
		argv []string
		want map[string][]string
	}{
		{
			name: "aliases",
			argv: []string{"-g", "male", "-c", "red", "-c", "blue"},
			want: map[string][]string{"gender": {"male"}, "color": {"red", "blue"}},
		},
		{
			name: "unknown flags are recorded as written",
			argv: []string{"--foo", "-x"},
			want: map[string][]string{"foo": {""}, "x": {""}},
		},
		{
			name: "types are not applied",
			argv: []string{"--age", "5", "--bool", "--bool", "false"},
			want: map[string][]string{"age": {"5"}, "bool": {"", "false"}},
		},
		{
			name: "multiplicity is not applied",
			argv: []string{"--name", "jack", "--name", "bob", "--age", "5", "--age", "10", "--age", "--age"},
			want: map[string][]string{"name": {"jack", "bob"}, "age": {"5", "10", "", ""}},
		},
		{
			name: "bare values go to the default option",
			argv: []string{"first", "--age", "5", "second", "--age", "10", "third", "last"},
			want: map[string][]string{"age": {"5", "10"}, "def": {"first", "second", "third", "last"}},
		},
		{
			name: "equals inside a value is kept",
			argv: []string{"--name", "a=b"},
			want: map[string][]string{"name": {"a=b"}},
		},
		{
			name: "question mark inside a value is kept",
			argv: []string{"--name", "a?b"},
			want: map[string][]string{"name": {"a?b"}},
		},
		{
			name: "inline value splits on the first equals",
			argv: []string{"--name=a=b", "-g=x"},
			want: map[string][]string{"name": {"a=b"}, "gender": {"x"}},
		},
		{
			name: "inline empty value",
			argv: []string{"--name="},
			want: map[string][]string{"name": {""}},
		},
		{
			name: "cluster",
			argv: []string{"-gc", "red"},
			want: map[string][]string{"gender": {""}, "color": {"red"}},
		},
		{
			name: "negative numbers are values",
			argv: []string{"--age", "-5"},
			want: map[string][]string{"age": {"-5"}},
		},
		{
			name: "second bare value falls through",
			argv: []string{"--name", "jack", "jill"},
			want: map[string][]string{"name": {"jack"}, "def": {"jill"}},
		},
		{
			name: "empty input",
			argv: nil,
			want: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Tokenize(cmd, tt.argv).ToValues()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.argv, diff)
			}
		})
	}
}

func TestTokenize_CamelCase(t *testing.T) {
	t.Parallel()

	cmd, err := schema.NormalizeCommand(schema.Raw{"options": map[string]any{
		"firstName": schema.Raw{},
		"lastName":  schema.Raw{},
	}})
	if err != nil {
		t.Fatalf("NormalizeCommand() error = %v", err)
	}

	got := Tokenize(cmd, []string{"--first-name", "Bob", "--last-name", "Smith"}).ToValues()
	want := map[string][]string{"firstName": {"Bob"}, "lastName": {"Smith"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_Equivalences(t *testing.T) {
	t.Parallel()

	cmd, err := schema.NormalizeCommand(schema.Raw{"options": map[string]any{
		"alpha": schema.Raw{"alias": "a"},
		"bravo": schema.Raw{"alias": "b"},
		"cargo": schema.Raw{"alias": "c", "type": "string"},
	}})
	if err != nil {
		t.Fatalf("NormalizeCommand() error = %v", err)
	}

	pairs := []struct {
		name string
		a, b []string
	}{
		{"inline equals", []string{"--cargo=value"}, []string{"--cargo", "value"}},
		{"short inline equals", []string{"-c=value"}, []string{"-c", "value"}},
		{"cluster", []string{"-abc"}, []string{"-a", "-b", "-c"}},
		{"cluster with value", []string{"-abc", "x"}, []string{"-a", "-b", "-c", "x"}},
		{"inline flag-shaped value", []string{"--cargo=--alpha"}, []string{"--cargo", "--alpha"}},
		{"inline cluster value", []string{"-c=-ab"}, []string{"-c", "-ab"}},
		{"cluster inline equals", []string{"-abc=x"}, []string{"-a", "-b", "-c", "x"}},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			t.Parallel()

			left, right := Tokenize(cmd, p.a), Tokenize(cmd, p.b)
			if diff := cmp.Diff(left.ToValues(), right.ToValues()); diff != "" {
				t.Errorf("Tokenize(%q) != Tokenize(%q):\n%s", p.a, p.b, diff)
			}
			if diff := cmp.Diff(left.Names(), right.Names()); diff != "" {
				t.Errorf("name order differs:\n%s", diff)
			}
		})
	}
}

func TestTokenize_InlineEqualsNeedsFlagShape(t *testing.T) {
	t.Parallel()

	cmd, err := schema.NormalizeCommand(schema.Raw{
		"defaultOption": "rest",
		"options": map[string]any{
			"n":    schema.Raw{"type": "string"},
			"rest": schema.Raw{"type": "string", "multiple": true},
		},
	})
	if err != nil {
		t.Fatalf("NormalizeCommand() error = %v", err)
	}

	// "-n1" is no short flag cluster, so "-n1=x" stays a single value.
	got := Tokenize(cmd, []string{"-n1=x", "-n=y"}).ToValues()
	want := map[string][]string{"rest": {"-n1=x"}, "n": {"y"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	argv := []string{"--name=x", "-gc", "y"}
	want := append([]string(nil), argv...)
	Tokenize(testCommand(t), argv)

	if diff := cmp.Diff(want, argv); diff != "" {
		t.Errorf("argv modified (-want +got):\n%s", diff)
	}
}

func TestTokenize_NilCommand(t *testing.T) {
	t.Parallel()

	got := Tokenize(nil, []string{"bare", "-ab", "--x", "1"}).ToValues()
	want := map[string][]string{"a": {""}, "b": {""}, "x": {"1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_NameOrder(t *testing.T) {
	t.Parallel()

	m := Tokenize(testCommand(t), []string{"--age", "1", "-g", "m", "--age", "2", "loose"})
	want := []string{"age", "gender", "def"}
	if diff := cmp.Diff(want, m.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
