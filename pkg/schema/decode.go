// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"golang.org/x/exp/slices"

	"github.com/argweave/argweave/pkg/coerce"
)

// decoder reads typed fields out of a Raw map. The first mismatch is kept in
// err and every later read is a no-op returning the zero value.
// Absent fields and explicit nils both read as the zero value.
type decoder struct {
	path string
	raw  map[string]any
	err  error
}

func (d *decoder) value(field string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	v, ok := d.raw[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (d *decoder) fail(field, expected string, received any) {
	if d.err == nil {
		d.err = &SchemaError{Path: d.path, Field: field, Expected: expected, Received: received}
	}
}

func (d *decoder) str(field string) string {
	v, ok := d.value(field)
	if !ok {
		return ""
	}
	s, isString := v.(string)
	if !isString {
		d.fail(field, "a string", v)
	}
	return s
}

func (d *decoder) boolean(field string) bool {
	v, ok := d.value(field)
	if !ok {
		return false
	}
	b, isBool := v.(bool)
	if !isBool {
		d.fail(field, "a boolean", v)
	}
	return b
}

func (d *decoder) tag(field string) coerce.Tag {
	v, ok := d.value(field)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case coerce.Tag:
		return t
	case string:
		return coerce.ParseTag(t)
	default:
		d.fail(field, "a type name", v)
		return ""
	}
}

func (d *decoder) transform(field string) TransformFunc {
	v, ok := d.value(field)
	if !ok {
		return nil
	}
	switch fn := v.(type) {
	case TransformFunc:
		return fn
	case func(any) any:
		return fn
	default:
		d.fail(field, "a func(any) any", v)
		return nil
	}
}

func (d *decoder) validate(field string) ValidateFunc {
	v, ok := d.value(field)
	if !ok {
		return nil
	}
	fn, valid := toValidateFunc(v)
	if !valid {
		d.fail(field, "a func(any) returning bool, (bool, string), error or string", v)
	}
	return fn
}

func (d *decoder) stringList(field string) []string {
	v, ok := d.value(field)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, e := range list {
			s, isString := e.(string)
			if !isString {
				d.fail(field, "a list of strings", v)
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		d.fail(field, "a list of strings", v)
		return nil
	}
}

func (d *decoder) groups(field string) []Group {
	v, ok := d.value(field)
	if !ok {
		return nil
	}
	const expected = "a map of group names to titles or {title, description} objects"

	switch g := v.(type) {
	case []Group:
		return append([]Group(nil), g...)
	case map[string]string:
		out := make([]Group, 0, len(g))
		for _, name := range sortedKeys(g) {
			out = append(out, Group{Name: name, Title: g[name]})
		}
		return out
	case map[string]any:
		out := make([]Group, 0, len(g))
		for _, name := range sortedKeys(g) {
			grp, valid := toGroup(name, g[name])
			if !valid {
				d.fail(field, expected, v)
				return nil
			}
			out = append(out, grp)
		}
		return out
	case []any:
		out := make([]Group, 0, len(g))
		for _, e := range g {
			m, isMap := e.(map[string]any)
			name, hasName := m["name"].(string)
			if !isMap || !hasName || name == "" {
				d.fail(field, "a list of {name, title, description} objects", v)
				return nil
			}
			grp, valid := toGroup(name, m)
			if !valid {
				d.fail(field, "a list of {name, title, description} objects", v)
				return nil
			}
			out = append(out, grp)
		}
		return out
	default:
		d.fail(field, expected, v)
		return nil
	}
}

func toGroup(name string, v any) (Group, bool) {
	switch g := v.(type) {
	case string:
		return Group{Name: name, Title: g}, true
	case map[string]any:
		title, ok1 := optionalString(g, "title")
		desc, ok2 := optionalString(g, "description")
		return Group{Name: name, Title: title, Description: desc}, ok1 && ok2
	default:
		return Group{}, false
	}
}

func (d *decoder) sections(field string) []Section {
	v, ok := d.value(field)
	if !ok {
		return nil
	}
	const expected = `a list of objects like {title: "foo", body: "bar"}`

	var items []any
	switch s := v.(type) {
	case []Section:
		return append([]Section(nil), s...)
	case []map[string]any:
		for _, m := range s {
			items = append(items, m)
		}
	case []any:
		items = s
	default:
		d.fail(field, expected, v)
		return nil
	}

	out := make([]Section, 0, len(items))
	for _, e := range items {
		m, isMap := e.(map[string]any)
		if !isMap {
			d.fail(field, expected, v)
			return nil
		}
		title, ok1 := optionalString(m, "title")
		body, ok2 := optionalString(m, "body")
		if !ok1 || !ok2 {
			d.fail(field, expected, v)
			return nil
		}
		out = append(out, Section{Title: title, Body: body})
	}
	return out
}

// options returns the declared options keyed by name. Entries may be Raw
// maps or Option values; nil entries are dropped.
func (d *decoder) options(field string) map[string]any {
	v, ok := d.value(field)
	if !ok {
		return nil
	}
	out := map[string]any{}
	switch opts := v.(type) {
	case map[string]any:
		for name, o := range opts {
			out[name] = o
		}
	case map[string]map[string]any:
		for name, o := range opts {
			out[name] = o
		}
	case map[string]*Option:
		for name, o := range opts {
			if o != nil {
				out[name] = o
			}
		}
	case map[string]Option:
		for name, o := range opts {
			out[name] = o
		}
	default:
		d.fail(field, "a map of option declarations", v)
		return nil
	}
	return out
}

func optionalString(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", true
	}
	s, isString := v.(string)
	return s, isString
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
