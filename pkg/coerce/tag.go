// SPDX-License-Identifier: MPL-2.0

package coerce

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	// Boolean is the default option type: a bare flag means true.
	Boolean Tag = "boolean"
	// Number parses decimal, exponent and 0x/0o/0b forms into float64.
	Number Tag = "number"
	// String keeps the raw token unchanged.
	String Tag = "string"
	// Date parses epoch milliseconds or calendar date strings into time.Time.
	Date Tag = "date"
	// Array parses a list literal, falling back to a one-element list.
	Array Tag = "array"
	// Object parses a struct literal into map[string]any.
	Object Tag = "object"
)

var (
	// ErrInvalidTag is returned when a Tag is empty or contains whitespace.
	ErrInvalidTag = errors.New("invalid type tag")
	// ErrUnknownTag is returned when no coercion is registered for a Tag.
	ErrUnknownTag = errors.New("unknown type tag")
	// ErrInvalidRegistration is returned when Register receives unusable arguments.
	ErrInvalidRegistration = errors.New("invalid type registration")
	// ErrCoercion is returned when a parse function rejects a raw value.
	ErrCoercion = errors.New("coercion failed")

	builtinTags = []Tag{Array, Boolean, Date, Number, Object, String}
)

type (
	// Tag identifies an entry in a Registry. The built-in tags are declared
	// as constants; any other non-blank string names a custom type.
	Tag string

	// InvalidTagError is returned when a Tag value is not usable as a key.
	// It wraps ErrInvalidTag for errors.Is() compatibility.
	InvalidTagError struct {
		Value Tag
	}

	// UnknownTagError is returned when a Tag has no registered coercion.
	// It wraps ErrUnknownTag for errors.Is() compatibility.
	UnknownTagError struct {
		Value Tag
	}
)

// Error implements the error interface for InvalidTagError.
func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid type tag %q (must be non-empty and contain no whitespace)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidTagError) Unwrap() error {
	return ErrInvalidTag
}

// Error implements the error interface for UnknownTagError.
func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("no coercion is registered for type %q", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownTagError) Unwrap() error {
	return ErrUnknownTag
}

// IsValid returns whether the Tag can be used as a registry key,
// and a list of validation errors if it cannot.
func (t Tag) IsValid() (bool, []error) {
	if t == "" || strings.IndexFunc(string(t), unicode.IsSpace) >= 0 {
		return false, []error{&InvalidTagError{Value: t}}
	}
	return true, nil
}

// IsBuiltin reports whether the Tag is one of the built-in types.
func (t Tag) IsBuiltin() bool {
	for _, b := range builtinTags {
		if t == b {
			return true
		}
	}
	return false
}

// String returns the string representation of the Tag.
func (t Tag) String() string {
	return string(t)
}

// ParseTag converts a user-supplied type name into a Tag. Built-in names are
// matched case-insensitively ("Number", "NUMBER" and "number" are the same);
// anything else is returned verbatim as a custom tag.
func ParseTag(name string) Tag {
	lower := Tag(strings.ToLower(strings.TrimSpace(name)))
	if lower.IsBuiltin() {
		return lower
	}
	return Tag(name)
}
