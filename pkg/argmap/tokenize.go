// SPDX-License-Identifier: MPL-2.0

package argmap

import (
	"regexp"

	"github.com/argweave/argweave/pkg/schema"
)

var (
	// assignRegex matches a flag written with an inline value: --name=value,
	// -n=value or -abc=value. The flag part has the shapes of longRegex and
	// clusterRegex.
	assignRegex = regexp.MustCompile(`^(--[A-Za-z][^=]*|-[A-Za-z]+)=`)
	// clusterRegex matches one or more short flags: -a, -abc.
	clusterRegex = regexp.MustCompile(`^-[A-Za-z]+$`)
	// longRegex matches a long flag: --name.
	longRegex = regexp.MustCompile(`^--[A-Za-z]`)
)

// Tokenize scans argv into an assignment map.
//
// "--name" and clustered short flags ("-abc", resolved through the alias
// table) select the option that the next value is assigned to.
// "--name=value" is scanned as the two tokens "--name" and "value". A value with no
// pending flag goes to the command's default option, or is dropped when
// there is none. A flag that receives no value records one empty entry.
// Long names match a declared option exactly, else by their camelCase form;
// unknown names and aliases are recorded as written.
//
// cmd may be nil, in which case no aliases or default option apply. argv is
// not modified.
func Tokenize(cmd *schema.Command, argv []string) *Map {
	t := &tokenizer{cmd: cmd, out: New()}
	for _, arg := range argv {
		if loc := assignRegex.FindStringIndex(arg); loc != nil {
			eq := loc[1] - 1
			t.token(arg[:eq])
			t.token(arg[eq+1:])
			continue
		}
		t.token(arg)
	}
	t.flush()
	return t.out
}

type tokenizer struct {
	cmd     *schema.Command
	out     *Map
	current string
	pending bool
}

func (t *tokenizer) token(arg string) {
	switch {
	case clusterRegex.MatchString(arg):
		letters := arg[1:]
		for i := range len(letters) {
			t.flag(t.alias(letters[i : i+1]))
		}
	case longRegex.MatchString(arg):
		t.flag(t.long(arg[2:]))
	default:
		t.value(arg)
	}
}

// flag makes name the pending target, closing the previous one if it never
// received a value.
func (t *tokenizer) flag(name string) {
	t.flush()
	t.out.Touch(name)
	t.current = name
	t.pending = true
}

func (t *tokenizer) value(v string) {
	switch {
	case t.pending:
		t.out.Add(t.current, v)
	case t.cmd != nil && t.cmd.DefaultOption != "":
		t.out.Add(t.cmd.DefaultOption, v)
	}
	t.current, t.pending = "", false
}

func (t *tokenizer) flush() {
	if t.pending {
		t.out.Add(t.current, "")
	}
	t.current, t.pending = "", false
}

func (t *tokenizer) alias(letter string) string {
	if t.cmd != nil {
		if name, ok := t.cmd.Alias(letter); ok {
			return name
		}
	}
	return letter
}

func (t *tokenizer) long(name string) string {
	if t.cmd == nil {
		return name
	}
	return t.cmd.Canonical(name)
}
