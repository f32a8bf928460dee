// SPDX-License-Identifier: MPL-2.0

// Package argmap scans command-line tokens into an assignment map: option
// name to the raw string values supplied for it, in input order.
package argmap

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Map is an insertion-ordered assignment of option names to raw values.
// An empty string entry records a flag that was given without a value.
// The zero value is ready to use.
type Map struct {
	names  []string
	values map[string][]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: map[string][]string{}}
}

// FromValues builds a Map from a plain map. Names are ordered lexically.
func FromValues(values map[string][]string) *Map {
	m := New()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		m.Touch(name)
		for _, v := range values[name] {
			m.Add(name, v)
		}
	}
	return m
}

// Touch records name without adding a value.
func (m *Map) Touch(name string) {
	if m.values == nil {
		m.values = map[string][]string{}
	}
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
		m.values[name] = []string{}
	}
}

// Add appends value to name's entries.
func (m *Map) Add(name, value string) {
	m.Touch(name)
	m.values[name] = append(m.values[name], value)
}

// Values returns a copy of name's entries, or nil when name is absent.
func (m *Map) Values(name string) []string {
	v, ok := m.values[name]
	if !ok {
		return nil
	}
	return slices.Clone(v)
}

// Has reports whether name was recorded.
func (m *Map) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Names returns the recorded names in the order they first appeared.
func (m *Map) Names() []string {
	return slices.Clone(m.names)
}

// Len returns the number of recorded names.
func (m *Map) Len() int {
	return len(m.names)
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	c := New()
	for _, name := range m.names {
		c.Touch(name)
		c.values[name] = slices.Clone(m.values[name])
	}
	return c
}

// ToValues returns the assignments as a plain map.
func (m *Map) ToValues() map[string][]string {
	out := make(map[string][]string, len(m.names))
	for _, name := range m.names {
		out[name] = slices.Clone(m.values[name])
	}
	return out
}

// String renders the map as "name=[v1 v2]" pairs in insertion order.
func (m *Map) String() string {
	var b strings.Builder
	for i, name := range m.names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString("=[")
		for j, v := range m.values[name] {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(quoteIfNeeded(v))
		}
		b.WriteByte(']')
	}
	return b.String()
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"[]") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
