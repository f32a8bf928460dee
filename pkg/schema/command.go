// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// Group is a titled usage section that options may belong to.
	Group struct {
		Name        string
		Title       string
		Description string
	}

	// Section is a free-form block appended to usage output.
	Section struct {
		Title string
		Body  string
	}

	// Command is a normalized command declaration: its options plus the
	// presentation fields a usage renderer reads.
	Command struct {
		Brief       string
		Description string
		// DefaultOption receives bare tokens that no flag claimed.
		DefaultOption string
		Groups        []Group
		Options       map[string]*Option
		Sections      []Section
		Synopsis      []string

		names      []string
		aliases    map[string]string
		normalized bool
	}
)

// NormalizeCommand validates a command declaration, normalizes each of its
// options and derives the alias map. raw may be a Raw map, a Command or a
// *Command. Options are ordered by name. A command that was already
// normalized is returned unchanged; the input is never modified.
//
// Errors are *SchemaError, or *AliasConflictError when two options share an
// alias. Both match ErrSchema.
func NormalizeCommand(raw any, opts ...NormalizeOpt) (*Command, error) {
	cfg := newConfig(opts)

	var (
		c       *Command
		entries map[string]any
	)
	switch v := raw.(type) {
	case *Command:
		if v == nil {
			return nil, &SchemaError{Expected: "a command declaration", Received: raw}
		}
		if v.normalized {
			return v, nil
		}
		c, entries = copyCommand(v)
	case Command:
		if v.normalized {
			return &v, nil
		}
		c, entries = copyCommand(&v)
	case map[string]any:
		d := &decoder{raw: v}
		c = &Command{
			Brief:         d.str("brief"),
			Description:   d.str("description"),
			DefaultOption: d.str("defaultOption"),
			Groups:        d.groups("groups"),
			Sections:      d.sections("sections"),
			Synopsis:      d.stringList("synopsis"),
		}
		entries = d.options("options")
		if d.err != nil {
			return nil, d.err
		}
	default:
		return nil, &SchemaError{Expected: "an object", Received: raw}
	}

	c.Options = make(map[string]*Option, len(entries))
	c.names = sortedKeys(entries)
	for _, name := range c.names {
		if !validOptionName(name) {
			return nil, &SchemaError{
				Path:     "options",
				Expected: "option names without whitespace, '=' or a leading '-'",
				Received: name,
			}
		}
		o, err := normalizeOption(name, entries[name], cfg)
		if err != nil {
			return nil, err
		}
		c.Options[name] = o
	}

	aliases, err := buildAliasMap(c.names, c.Options)
	if err != nil {
		return nil, err
	}
	c.aliases = aliases

	if c.DefaultOption != "" {
		if _, ok := c.Options[c.DefaultOption]; !ok {
			return nil, &SchemaError{
				Field:   "defaultOption",
				Message: "names undeclared option " + c.DefaultOption,
			}
		}
	}

	c.normalized = true
	return c, nil
}

func copyCommand(src *Command) (*Command, map[string]any) {
	c := &Command{
		Brief:         src.Brief,
		Description:   src.Description,
		DefaultOption: src.DefaultOption,
		Groups:        slices.Clone(src.Groups),
		Sections:      slices.Clone(src.Sections),
		Synopsis:      slices.Clone(src.Synopsis),
	}
	entries := make(map[string]any, len(src.Options))
	for name, o := range src.Options {
		if o != nil {
			entries[name] = o
		}
	}
	return c, entries
}

// buildAliasMap walks names in order so the reported conflict is stable.
func buildAliasMap(names []string, options map[string]*Option) (map[string]string, error) {
	aliases := map[string]string{}
	for _, name := range names {
		alias := options[name].Alias
		if alias == "" {
			continue
		}
		if prev, taken := aliases[alias]; taken {
			return nil, &AliasConflictError{Alias: alias, Options: [2]string{prev, name}}
		}
		aliases[alias] = name
	}
	return aliases, nil
}

func validOptionName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") || strings.Contains(name, "=") {
		return false
	}
	return strings.IndexFunc(name, unicode.IsSpace) < 0
}

// Names returns the declared option names in lexical order.
func (c *Command) Names() []string {
	return slices.Clone(c.names)
}

// AliasMap returns a copy of the alias-to-option-name table.
func (c *Command) AliasMap() map[string]string {
	return maps.Clone(c.aliases)
}

// Option returns the declared option with the given name.
func (c *Command) Option(name string) (*Option, bool) {
	o, ok := c.Options[name]
	return o, ok
}

// Alias returns the option name an alias letter refers to.
func (c *Command) Alias(alias string) (string, bool) {
	name, ok := c.aliases[alias]
	return name, ok
}

// Canonical maps a long flag name to the declared option it refers to: the
// name itself when declared, else its camelCase form when that is declared
// ("first-name" → "firstName"). Undeclared names are returned unchanged.
func (c *Command) Canonical(flag string) string {
	if _, ok := c.Options[flag]; ok {
		return flag
	}
	if camel := CamelCase(flag); camel != flag {
		if _, ok := c.Options[camel]; ok {
			return camel
		}
	}
	return flag
}

// Lookup returns the declared option a long flag name refers to.
func (c *Command) Lookup(flag string) (*Option, bool) {
	return c.Option(c.Canonical(flag))
}

// Group returns the declared group with the given name.
func (c *Command) Group(name string) (Group, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// CamelCase joins dash-separated words, upper-casing the first letter of
// every word after the first.
func CamelCase(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	upper := false
	for _, r := range s {
		switch {
		case r == '-':
			upper = b.Len() > 0
		case upper:
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
