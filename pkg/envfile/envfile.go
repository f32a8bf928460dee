// SPDX-License-Identifier: MPL-2.0

// Package envfile reads environment files that seed option values.
//
// Two formats are accepted. A file whose first non-blank character is '{'
// is a JSON object mapping names to a string, a scalar or a list of them.
// Anything else is read line by line as KEY=value or KEY: value pairs. A key
// that appears more than once keeps every value in file order; LookupAll
// hands them all to a multiple option (see resolve.WithEnvValues).
package envfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidJSON is returned when a JSON env file holds something other than
// an object of scalars and scalar lists.
var ErrInvalidJSON = errors.New("invalid JSON env file")

type (
	// Values maps each variable name to its values in file order.
	Values map[string][]string

	// LookupFunc finds the value of a variable. It matches os.LookupEnv.
	LookupFunc func(key string) (string, bool)
)

// Load reads and parses the file at path. A path ending in '?' names an
// optional file: when it does not exist an empty result is returned.
func Load(path string) (Values, error) {
	optional := strings.HasSuffix(path, "?")
	if optional {
		path = strings.TrimSuffix(path, "?")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Values{}, nil
		}
		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}
	return Parse(content, path)
}

// LoadAll loads every path in order and merges the results. Values from
// later files are appended after those of earlier files. Paths may be
// doublestar patterns ("env/**/*.env"); see Expand.
func LoadAll(paths ...string) (Values, error) {
	merged := Values{}
	for _, p := range paths {
		files, err := Expand(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			v, err := Load(f)
			if err != nil {
				return nil, err
			}
			merged.Merge(v)
		}
	}
	return merged, nil
}

// Expand resolves a path that may be a doublestar pattern into the files it
// names, in lexical order. A plain path is returned as is, optional marker
// included. A pattern that matches nothing is an error wrapping
// os.ErrNotExist unless it carries the trailing '?'.
func Expand(path string) ([]string, error) {
	optional := strings.HasSuffix(path, "?")
	pattern := strings.TrimSuffix(path, "?")
	if !IsPattern(pattern) {
		return []string{path}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid env file pattern '%s': %w", pattern, err)
	}
	if len(matches) == 0 && !optional {
		return nil, fmt.Errorf("env file pattern '%s' matched no files: %w", pattern, os.ErrNotExist)
	}
	slices.Sort(matches)
	return matches, nil
}

// IsPattern reports whether path holds glob metacharacters. The trailing
// optional marker is not one.
func IsPattern(path string) bool {
	return strings.ContainsAny(strings.TrimSuffix(path, "?"), "*?[{")
}

// Parse parses env file content. The filename is used for error messages.
func Parse(content []byte, filename string) (Values, error) {
	if trimmed := bytes.TrimSpace(content); len(trimmed) > 0 && trimmed[0] == '{' {
		return parseJSON(trimmed, filename)
	}
	return parseLines(content, filename)
}

// Merge appends the values of other to v.
func (v Values) Merge(other Values) {
	for k, vals := range other {
		v[k] = append(v[k], vals...)
	}
}

// Lookup returns the last value recorded for key.
func (v Values) Lookup(key string) (string, bool) {
	vals, ok := v[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

// LookupAll returns every value recorded for key in file order.
func (v Values) LookupAll(key string) ([]string, bool) {
	vals, ok := v[key]
	if !ok || len(vals) == 0 {
		return nil, false
	}
	return slices.Clone(vals), true
}

// Lookup adapts values to a LookupFunc. The last value of a key wins.
func Lookup(values map[string][]string) LookupFunc {
	return Values(values).Lookup
}

// Chain composes lookups; the first one that knows a key wins.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Environ looks keys up in the process environment.
func Environ() LookupFunc {
	return os.LookupEnv
}

func parseJSON(content []byte, filename string) (Values, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", filename, ErrInvalidJSON, err)
	}

	out := make(Values, len(raw))
	for key, v := range raw {
		if list, ok := v.([]any); ok {
			vals := make([]string, 0, len(list))
			for _, e := range list {
				s, ok := jsonScalar(e)
				if !ok {
					return nil, fmt.Errorf("%s: %w: %q holds a nested value", filename, ErrInvalidJSON, key)
				}
				vals = append(vals, s)
			}
			out[key] = vals
			continue
		}
		s, ok := jsonScalar(v)
		if !ok {
			return nil, fmt.Errorf("%s: %w: %q holds a nested value", filename, ErrInvalidJSON, key)
		}
		out[key] = []string{s}
	}
	return out, nil
}

func jsonScalar(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

// parseLines reads KEY=value and KEY: value lines.
//   - Lines starting with # are comments
//   - Empty lines are ignored
//   - The key ends at the first '=' or ':'
//   - KEY="value" (double-quoted, escape sequences: \n, \r, \t, \\, \", \$)
//   - KEY='value' (single-quoted, literal)
//   - export KEY=value (export prefix is optional and ignored)
//   - Unquoted values lose a trailing " # comment"
func parseLines(content []byte, filename string) (Values, error) {
	out := Values{}
	lines := strings.Split(string(content), "\n")

	for i, line := range lines {
		lineNum := i + 1

		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			return nil, fmt.Errorf("%s:%d: invalid format (missing '=' or ':')", filename, lineNum)
		}
		key := strings.TrimSpace(line[:sep])
		if key == "" {
			return nil, fmt.Errorf("%s:%d: empty variable name", filename, lineNum)
		}

		value, err := parseValue(line[sep+1:])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineNum, err)
		}
		out[key] = append(out[key], value)
	}
	return out, nil
}

func parseValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	switch value[0] {
	case '"':
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", errors.New("unterminated double quote")
		}
		return unescape(value[1 : len(value)-1]), nil
	case '\'':
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", errors.New("unterminated single quote")
		}
		return value[1 : len(value)-1], nil
	}

	if idx := strings.Index(value, " #"); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}
	return value, nil
}

func unescape(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for i := 0; i < len(value); i++ {
		if value[i] != '\\' || i+1 == len(value) {
			b.WriteByte(value[i])
			continue
		}
		i++
		switch next := value[i]; next {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '"', '$':
			b.WriteByte(next)
		default:
			// unknown escapes are kept as written
			b.WriteByte('\\')
			b.WriteByte(next)
		}
	}
	return b.String()
}
