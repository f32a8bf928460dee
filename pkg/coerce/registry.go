// SPDX-License-Identifier: MPL-2.0

package coerce

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/exp/maps"
)

type (
	// ParseFunc converts a raw token into a typed value. Returning ok=false
	// reports a coercion failure; the resolver records it and moves on.
	ParseFunc func(raw string) (value any, ok bool)

	// Registry maps type tags to coercions. The zero value is not usable;
	// create registries with New, Standard or Clone.
	Registry struct {
		mu      sync.RWMutex
		entries map[Tag]entry
	}

	// RegistrationError is returned when Register is called with an invalid tag
	// or a nil parse function. It wraps ErrInvalidRegistration.
	RegistrationError struct {
		Tag    Tag
		Reason string
	}

	// CoercionError is returned when a parse function rejects a raw value.
	// It wraps ErrCoercion for errors.Is() compatibility.
	CoercionError struct {
		Tag Tag
		Raw string
	}

	entry struct {
		missing string
		parse   ParseFunc
	}
)

var (
	defaultMu       sync.Mutex
	defaultRegistry = Standard()
)

// Error implements the error interface for RegistrationError.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("cannot register type %q: %s", e.Tag, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *RegistrationError) Unwrap() error {
	return ErrInvalidRegistration
}

// Error implements the error interface for CoercionError.
func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s", e.Raw, e.Tag)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *CoercionError) Unwrap() error {
	return ErrCoercion
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[Tag]entry)}
}

// Standard returns a new registry holding only the built-in coercions.
func Standard() *Registry {
	r := New()
	r.entries[Array] = entry{missing: "[]", parse: parseArray}
	r.entries[Boolean] = entry{missing: "true", parse: parseBoolean}
	r.entries[Date] = entry{missing: "", parse: parseDate}
	r.entries[Number] = entry{missing: "", parse: parseNumber}
	r.entries[Object] = entry{missing: "{}", parse: parseObject}
	r.entries[String] = entry{missing: "", parse: parseString}
	return r
}

// Default returns the process-wide registry.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultRegistry
}

// ResetDefault restores the process-wide registry to the built-in entries.
// Intended for test cleanup.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = Standard()
}

// RegisterType stores or replaces a coercion in the process-wide registry.
func RegisterType(tag Tag, missingSubstitute string, parse ParseFunc) error {
	return Default().Register(tag, missingSubstitute, parse)
}

// Register stores or replaces the coercion for tag. missingSubstitute is
// parsed in place of empty tokens.
func (r *Registry) Register(tag Tag, missingSubstitute string, parse ParseFunc) error {
	if ok, _ := tag.IsValid(); !ok {
		return &RegistrationError{Tag: tag, Reason: "tag must be non-empty and contain no whitespace"}
	}
	if parse == nil {
		return &RegistrationError{Tag: tag, Reason: "parse function is nil"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[tag] = entry{missing: missingSubstitute, parse: parse}
	return nil
}

// With returns a copy of the registry with tag registered, leaving r untouched.
func (r *Registry) With(tag Tag, missingSubstitute string, parse ParseFunc) (*Registry, error) {
	c := r.Clone()
	if err := c.Register(tag, missingSubstitute, parse); err != nil {
		return nil, err
	}
	return c, nil
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{entries: maps.Clone(r.entries)}
}

// Has reports whether a coercion is registered for tag.
func (r *Registry) Has(tag Tag) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[tag]
	return ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]Tag, 0, len(r.entries))
	for t := range r.entries {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// MissingSubstitute returns the string parsed in place of an empty token.
func (r *Registry) MissingSubstitute(tag Tag) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[tag]
	return e.missing, ok
}

// Coerce converts raw using the coercion registered for tag. An empty raw
// string is replaced by the tag's missing-token substitute before parsing.
func (r *Registry) Coerce(tag Tag, raw string) (any, error) {
	r.mu.RLock()
	e, ok := r.entries[tag]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownTagError{Value: tag}
	}

	if raw == "" {
		raw = e.missing
	}
	v, ok := e.parse(raw)
	if !ok {
		return nil, &CoercionError{Tag: tag, Raw: raw}
	}
	return v, nil
}
