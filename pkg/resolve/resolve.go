// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"github.com/argweave/argweave/pkg/argmap"
	"github.com/argweave/argweave/pkg/coerce"
	"github.com/argweave/argweave/pkg/schema"
)

// DefaultEnvSeparator splits environment values for multiple options.
const DefaultEnvSeparator = ","

type (
	// Values maps option names to resolved values: []any for multiple
	// options, a single value otherwise.
	Values map[string]any

	// Option configures a resolution.
	Option func(*config)

	config struct {
		registry *coerce.Registry
		strict   bool
		env      func(string) (string, bool)
		envAll   func(string) ([]string, bool)
		envSep   string
		logger   *log.Logger
	}

	// assignment is the list of entries for one name. Entries are raw
	// tokens (strings) or typed values. mismatch records a multiplicity
	// problem found before resolution started.
	assignment struct {
		name     string
		entries  []any
		mismatch string
	}
)

// WithRegistry selects the coercion registry. coerce.Default() is used otherwise.
func WithRegistry(r *coerce.Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithStrict reports names that match no declared option as UnknownOption
// errors instead of ignoring them.
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithEnv seeds options that declare an Env variable and received no value.
// Environment values take precedence over defaults.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(c *config) { c.env = lookup }
}

// WithEnvValues adds a multi-valued environment source, consulted before
// the WithEnv lookup. Each value of a variable becomes an entry of a
// multiple option and is split like a WithEnv value; a single option takes
// the last one.
func WithEnvValues(lookup func(string) ([]string, bool)) Option {
	return func(c *config) { c.envAll = lookup }
}

// WithEnvSeparator sets the separator used to split an environment value
// into entries for a multiple option. An empty separator keeps the value whole.
func WithEnvSeparator(sep string) Option {
	return func(c *config) { c.envSep = sep }
}

// WithLogger enables debug logging of each resolution step.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) *config {
	cfg := &config{envSep: DefaultEnvSeparator}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = coerce.Default()
	}
	return cfg
}

// Resolve normalizes raw, tokenizes argv against it and resolves the result.
//
// Schema problems are returned as the error and are always fatal. Data
// problems never are: they are collected into the ErrorList, and Values
// holds everything that did resolve.
func Resolve(raw any, argv []string, opts ...Option) (Values, ErrorList, error) {
	cfg := newConfig(opts)
	cmd, err := schema.NormalizeCommand(raw, schema.WithRegistry(cfg.registry))
	if err != nil {
		return nil, nil, err
	}
	m := argmap.Tokenize(cmd, argv)
	cfg.debug("Tokenized arguments", "assignments", m.String())
	values, errs := cfg.resolve(cmd, fromMap(m))
	return values, errs, nil
}

// ResolveMap resolves a pre-built assignment map, skipping tokenization.
// A name recorded with no entries is treated as a bare flag.
func ResolveMap(raw any, m *argmap.Map, opts ...Option) (Values, ErrorList, error) {
	cfg := newConfig(opts)
	cmd, err := schema.NormalizeCommand(raw, schema.WithRegistry(cfg.registry))
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		m = argmap.New()
	}
	values, errs := cfg.resolve(cmd, fromMap(m))
	return values, errs, nil
}

// Normalize resolves values supplied programmatically. Values are taken as
// already typed, although strings are still coerced. A multiple option
// requires a slice and any other option rejects one unless its type is
// array; both problems are reported as MultiplicityMismatch. Defaults,
// required checks, transform and validate apply as in Resolve.
func Normalize(raw any, values map[string]any, opts ...Option) (Values, ErrorList, error) {
	cfg := newConfig(opts)
	cmd, err := schema.NormalizeCommand(raw, schema.WithRegistry(cfg.registry))
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	assigned := make([]assignment, 0, len(names))
	for _, name := range names {
		v := values[name]
		a := assignment{name: name}
		o, declared := cmd.Option(name)
		if !declared {
			assigned = append(assigned, a)
			continue
		}

		list, isList := asList(v)
		switch {
		case o.Multiple && !isList:
			a.mismatch = "expected a list of values"
		case !o.Multiple && isList && o.Type != coerce.Array:
			a.mismatch = "did not expect a list of values"
		case o.Multiple:
			a.entries = list
		default:
			a.entries = []any{v}
		}
		assigned = append(assigned, a)
	}

	resolved, errs := cfg.resolve(cmd, assigned)
	return resolved, errs, nil
}

func fromMap(m *argmap.Map) []assignment {
	names := m.Names()
	out := make([]assignment, 0, len(names))
	for _, name := range names {
		raw := m.Values(name)
		if len(raw) == 0 {
			raw = []string{""}
		}
		entries := make([]any, len(raw))
		for i, s := range raw {
			entries[i] = s
		}
		out = append(out, assignment{name: name, entries: entries})
	}
	return out
}

func (c *config) resolve(cmd *schema.Command, assigned []assignment) (Values, ErrorList) {
	var errs ErrorList

	present := make(map[string]bool, len(assigned))
	for _, a := range assigned {
		present[a.name] = true
	}
	for _, name := range cmd.Names() {
		if present[name] {
			continue
		}
		o := cmd.Options[name]
		switch {
		case c.fromEnv(o, &assigned):
		case o.HasDefault():
			c.debug("Using default value", "option", name)
			assigned = append(assigned, assignment{name: name, entries: []any{o.DefaultValue}})
		case o.Required:
			errs = append(errs, Error{Option: name, Kind: RequiredMissing})
		}
	}

	values := Values{}
	for _, a := range assigned {
		o, declared := cmd.Option(a.name)
		if !declared {
			if c.strict {
				errs = append(errs, Error{Option: a.name, Kind: UnknownOption})
			} else {
				c.debug("Ignoring undeclared option", "option", a.name)
			}
			continue
		}
		if a.mismatch != "" {
			errs = append(errs, Error{Option: a.name, Kind: MultiplicityMismatch, Detail: a.mismatch})
			continue
		}

		var kept []any
		for _, entry := range a.entries {
			v, err := o.Apply(c.registry, entry)
			if err != nil {
				errs = append(errs, classify(a.name, entry, err))
				continue
			}
			kept = append(kept, v)
		}

		switch {
		case o.Multiple:
			if kept == nil {
				kept = []any{}
			}
			values[a.name] = kept
		case len(kept) > 0:
			values[a.name] = kept[len(kept)-1]
		default:
			continue
		}
		c.debug("Resolved option", "option", a.name, "value", coerce.Format(values[a.name]))
	}

	return values, errs
}

// fromEnv appends an assignment for o when its environment variable is set.
func (c *config) fromEnv(o *schema.Option, assigned *[]assignment) bool {
	if o.Env == "" {
		return false
	}
	vals, ok := c.lookupEnv(o.Env)
	if !ok {
		return false
	}
	if !o.Multiple {
		vals = vals[len(vals)-1:]
	}
	var entries []any
	for _, s := range vals {
		parts := []string{s}
		if o.Multiple && c.envSep != "" {
			parts = strings.Split(s, c.envSep)
		}
		for _, p := range parts {
			entries = append(entries, p)
		}
	}
	c.debug("Using environment value", "option", o.Name, "variable", o.Env)
	*assigned = append(*assigned, assignment{name: o.Name, entries: entries})
	return true
}

// lookupEnv returns the values of key, multi-valued sources first.
func (c *config) lookupEnv(key string) ([]string, bool) {
	if c.envAll != nil {
		if vals, ok := c.envAll(key); ok && len(vals) > 0 {
			return vals, true
		}
	}
	if c.env != nil {
		if s, ok := c.env(key); ok {
			return []string{s}, true
		}
	}
	return nil, false
}

func classify(name string, entry any, err error) Error {
	var rejected *schema.RejectedError
	if errors.As(err, &rejected) {
		return Error{Option: name, Kind: ValidationFailed, Value: entry, Detail: rejected.Reason, Err: err}
	}
	return Error{Option: name, Kind: CoercionFailed, Value: entry, Err: err}
}

// asList reports whether v is a slice or array and returns its elements.
// Byte slices are treated as scalars.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func (c *config) debug(msg string, keyvals ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, keyvals...)
	}
}
