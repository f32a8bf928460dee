// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/argweave/argweave/pkg/coerce"
)

type (
	// Raw is the un-normalized declaration shape: field name to value, as
	// written by hand in Go or decoded from a schema file.
	Raw = map[string]any

	// TransformFunc maps a coerced value to the value that is validated and stored.
	TransformFunc func(any) any

	// ValidateFunc accepts or rejects a transformed value. A rejection may
	// carry a reason for the error message.
	ValidateFunc func(any) (ok bool, reason string)

	// Option is a normalized option declaration. Construct one by hand and
	// pass it through NormalizeOption, or build one from a Raw map.
	Option struct {
		// Name is the option's key in its command; empty for standalone options.
		Name string
		// Alias is an optional single-letter short flag.
		Alias string
		// Description is shown in usage output.
		Description string
		// Env names an environment variable that seeds the option when absent.
		Env string
		// Group assigns the option to one of the command's usage groups.
		Group string
		// Pattern is a regular expression the formatted value must match.
		Pattern string
		// Hidden omits the option from usage output.
		Hidden bool
		// Multiple keeps every supplied value instead of the last one.
		Multiple bool
		// Required reports a missing option as an error.
		Required bool
		// Type selects the coercion; boolean when empty.
		Type coerce.Tag
		// Transform runs after coercion; identity when nil.
		Transform TransformFunc
		// Validate runs after Transform; accepts everything when nil.
		Validate ValidateFunc
		// DefaultValue seeds the option when it is absent. For hand-built
		// options a nil DefaultValue means no default.
		DefaultValue any

		hasDefault bool
		normalized bool
	}

	// NormalizeOpt configures NormalizeOption and NormalizeCommand.
	NormalizeOpt func(*normalizeConfig)

	normalizeConfig struct {
		registry *coerce.Registry
	}
)

// WithRegistry selects the registry used to confirm type tags and to check
// default values. coerce.Default() is used otherwise.
func WithRegistry(r *coerce.Registry) NormalizeOpt {
	return func(c *normalizeConfig) {
		if r != nil {
			c.registry = r
		}
	}
}

func newConfig(opts []NormalizeOpt) *normalizeConfig {
	cfg := &normalizeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = coerce.Default()
	}
	return cfg
}

// NormalizeOption validates a single option declaration and fills every
// absent field with its default. raw may be a Raw map, an Option or an
// *Option. An option that was already normalized is returned unchanged; the
// input is never modified.
func NormalizeOption(raw any, opts ...NormalizeOpt) (*Option, error) {
	return normalizeOption("", raw, newConfig(opts))
}

// HasDefault reports whether the option declares a default value.
func (o *Option) HasDefault() bool {
	return o.hasDefault
}

// Apply runs one value through the option's pipeline. Strings are coerced
// with the option's type; other values are taken as already typed. The
// result is transformed and then validated. Coercion failures are returned
// as *coerce.CoercionError and rejections as *RejectedError.
func (o *Option) Apply(reg *coerce.Registry, v any) (any, error) {
	if s, ok := v.(string); ok {
		c, err := reg.Coerce(o.typeTag(), s)
		if err != nil {
			return nil, err
		}
		v = c
	}
	if o.Transform != nil {
		v = o.Transform(v)
	}
	if o.Validate != nil {
		if ok, reason := o.Validate(v); !ok {
			return nil, &RejectedError{Option: o.Name, Value: v, Reason: reason}
		}
	}
	return v, nil
}

func (o *Option) typeTag() coerce.Tag {
	if o.Type == "" {
		return coerce.Boolean
	}
	return o.Type
}

func normalizeOption(name string, raw any, cfg *normalizeConfig) (*Option, error) {
	path := optionPath(name)
	var o *Option

	switch v := raw.(type) {
	case *Option:
		if v == nil {
			return nil, &SchemaError{Path: path, Expected: "an option declaration", Received: raw}
		}
		if v.normalized && (name == "" || v.Name == name) {
			return v, nil
		}
		cp := *v
		cp.hasDefault = cp.hasDefault || cp.DefaultValue != nil
		o = &cp
	case Option:
		if v.normalized && (name == "" || v.Name == name) {
			return &v, nil
		}
		v.hasDefault = v.hasDefault || v.DefaultValue != nil
		o = &v
	case map[string]any:
		var err error
		if o, err = decodeOption(path, v); err != nil {
			return nil, err
		}
	default:
		return nil, &SchemaError{Path: path, Expected: "an object", Received: raw}
	}

	if name != "" {
		o.Name = name
	}
	if err := finishOption(path, o, cfg); err != nil {
		return nil, err
	}
	return o, nil
}

func decodeOption(path string, m map[string]any) (*Option, error) {
	d := &decoder{path: path, raw: m}
	o := &Option{
		Alias:       d.str("alias"),
		Description: d.str("description"),
		Env:         d.str("env"),
		Group:       d.str("group"),
		Pattern:     d.str("pattern"),
		Hidden:      d.boolean("hidden"),
		Multiple:    d.boolean("multiple"),
		Required:    d.boolean("required"),
		Type:        d.tag("type"),
		Transform:   d.transform("transform"),
		Validate:    d.validate("validate"),
	}
	if d.err != nil {
		return nil, d.err
	}
	if v, ok := m["defaultValue"]; ok {
		o.DefaultValue = v
		o.hasDefault = true
	}
	return o, nil
}

func finishOption(path string, o *Option, cfg *normalizeConfig) error {
	if n := utf8.RuneCountInString(o.Alias); n > 1 || (n == 1 && !isASCIILetter(o.Alias[0])) {
		return &SchemaError{Path: path, Field: "alias", Expected: "a single letter", Received: o.Alias}
	}

	if o.Type == "" {
		o.Type = coerce.Boolean
	}
	if ok, errs := o.Type.IsValid(); !ok {
		return &SchemaError{Path: path, Field: "type", Expected: "a type tag", Received: string(o.Type), Err: errs[0]}
	}
	if !cfg.registry.Has(o.Type) {
		return &SchemaError{
			Path: path, Field: "type", Expected: "a registered type", Received: string(o.Type),
			Err: &coerce.UnknownTagError{Value: o.Type},
		}
	}

	if o.Transform == nil {
		o.Transform = identity
	}
	if o.Validate == nil {
		o.Validate = acceptAll
	}
	if o.Pattern != "" {
		re, err := regexp.Compile(o.Pattern)
		if err != nil {
			return &SchemaError{Path: path, Field: "pattern", Expected: "a regular expression", Received: o.Pattern, Err: err}
		}
		o.Validate = matchPattern(re, o.Validate)
	}

	if o.Required && o.hasDefault {
		return &SchemaError{
			Path:    path,
			Field:   "defaultValue",
			Message: "required and defaultValue are mutually exclusive",
		}
	}
	if o.hasDefault {
		if _, err := o.Apply(cfg.registry, o.DefaultValue); err != nil {
			return &SchemaError{Path: path, Field: "defaultValue", Message: "default value is not accepted", Err: err}
		}
	}

	o.normalized = true
	return nil
}

func identity(v any) any { return v }

func acceptAll(any) (bool, string) { return true, "" }

// matchPattern checks the formatted value against re before delegating to next.
func matchPattern(re *regexp.Regexp, next ValidateFunc) ValidateFunc {
	return func(v any) (bool, string) {
		if s := coerce.Format(v); !re.MatchString(s) {
			return false, fmt.Sprintf("%q does not match pattern %s", s, re)
		}
		return next(v)
	}
}

// toValidateFunc adapts the accepted validate signatures. A func(any) string
// rejects by returning a non-empty reason.
func toValidateFunc(v any) (ValidateFunc, bool) {
	switch fn := v.(type) {
	case nil:
		return nil, true
	case ValidateFunc:
		return fn, true
	case func(any) (bool, string):
		return fn, true
	case func(any) bool:
		if fn == nil {
			return nil, true
		}
		return func(x any) (bool, string) { return fn(x), "" }, true
	case func(any) error:
		if fn == nil {
			return nil, true
		}
		return func(x any) (bool, string) {
			if err := fn(x); err != nil {
				return false, err.Error()
			}
			return true, ""
		}, true
	case func(any) string:
		if fn == nil {
			return nil, true
		}
		return func(x any) (bool, string) {
			reason := fn(x)
			return reason == "", reason
		}, true
	default:
		return nil, false
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func optionPath(name string) string {
	if name == "" {
		return "option"
	}
	return "options." + name
}
