// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrSchema is the sentinel wrapped by every schema declaration error.
	ErrSchema = errors.New("invalid schema")
	// ErrAliasConflict is returned when two options declare the same alias.
	ErrAliasConflict = errors.New("alias conflict")
	// ErrRejected is returned when an option's validate function rejects a value.
	ErrRejected = errors.New("value rejected")
)

type (
	// SchemaError describes a malformed option or command declaration.
	// These are programming errors: no command-line input can fix them.
	SchemaError struct {
		// Path locates the declaration, e.g. "options.age".
		Path string
		// Field is the offending property, e.g. "alias".
		Field string
		// Expected describes the accepted shape, e.g. "a string of at most one letter".
		Expected string
		// Received is the value that was supplied, if any.
		Received any
		// Message replaces the generated text when set.
		Message string
		// Err is an underlying cause (regexp compile error, coercion error).
		Err error
	}

	// AliasConflictError is returned when two options share an alias.
	// It matches both ErrAliasConflict and ErrSchema with errors.Is.
	AliasConflictError struct {
		Alias   string
		Options [2]string
	}

	// RejectedError is returned by Option.Apply when Validate refuses a value.
	RejectedError struct {
		Option string
		Value  any
		Reason string
	}
)

// Error implements the error interface for SchemaError.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema")
	if loc := e.location(); loc != "" {
		b.WriteString(" ")
		b.WriteString(loc)
	}
	b.WriteString(": ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Expected != "":
		fmt.Fprintf(&b, "expected %s, received %s", e.Expected, describe(e.Received))
	default:
		b.WriteString("invalid declaration")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the sentinel and the cause for errors.Is() compatibility.
func (e *SchemaError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSchema, e.Err}
	}
	return []error{ErrSchema}
}

func (e *SchemaError) location() string {
	switch {
	case e.Path != "" && e.Field != "":
		return e.Path + "." + e.Field
	case e.Field != "":
		return e.Field
	default:
		return e.Path
	}
}

// Error implements the error interface for AliasConflictError.
func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("two options use the same alias %q: %s and %s", e.Alias, e.Options[0], e.Options[1])
}

// Unwrap returns both sentinels for errors.Is() compatibility.
func (e *AliasConflictError) Unwrap() []error {
	return []error{ErrAliasConflict, ErrSchema}
}

// Error implements the error interface for RejectedError.
func (e *RejectedError) Error() string {
	msg := fmt.Sprintf("invalid value %s", describe(e.Value))
	if e.Option != "" {
		msg += " for option " + e.Option
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "nothing"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		if reflect.TypeOf(v).Kind() == reflect.Func {
			return fmt.Sprintf("a function (%T)", v)
		}
		return fmt.Sprintf("%v (%T)", v, v)
	}
}
