// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// RequiredMissing means a required option received no value at all.
	RequiredMissing Kind = iota + 1
	// CoercionFailed means a raw token could not be converted to the option's type.
	CoercionFailed
	// ValidationFailed means the option's validate function rejected a value.
	ValidationFailed
	// MultiplicityMismatch means a list was given where a scalar was expected, or the reverse.
	MultiplicityMismatch
	// UnknownOption means a name matched no declared option (strict mode only).
	UnknownOption
)

var (
	// ErrInvalidKind is returned when a Kind value is not one of the defined kinds.
	ErrInvalidKind = errors.New("invalid resolution error kind")
	// ErrResolution is the sentinel wrapped by every Error.
	ErrResolution = errors.New("resolution failed")
)

type (
	// Kind classifies a data error found while resolving options.
	Kind int

	// InvalidKindError is returned when a Kind value is not recognized.
	// It wraps ErrInvalidKind for errors.Is() compatibility.
	InvalidKindError struct {
		Value Kind
	}

	// Error is one data problem found during resolution. Data errors are
	// collected, never returned one at a time.
	Error struct {
		// Option is the option name the error belongs to.
		Option string
		// Kind classifies the problem.
		Kind Kind
		// Value is the offending raw token or typed value, when there is one.
		Value any
		// Detail is the validator's reason, when it gave one.
		Detail string
		// Err is the underlying coercion or validation error.
		Err error
	}

	// ErrorList is the ordered collection of data errors from one resolution.
	// It implements error so a caller can fail fast with every problem reported.
	ErrorList []Error
)

// Error implements the error interface for InvalidKindError.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid resolution error kind %d", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error {
	return ErrInvalidKind
}

// IsValid returns whether the Kind is one of the defined kinds,
// and a list of validation errors if it is not.
func (k Kind) IsValid() (bool, []error) {
	switch k {
	case RequiredMissing, CoercionFailed, ValidationFailed, MultiplicityMismatch, UnknownOption:
		return true, nil
	default:
		return false, []error{&InvalidKindError{Value: k}}
	}
}

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case RequiredMissing:
		return "RequiredMissing"
	case CoercionFailed:
		return "CoercionFailed"
	case ValidationFailed:
		return "ValidationFailed"
	case MultiplicityMismatch:
		return "MultiplicityMismatch"
	case UnknownOption:
		return "UnknownOption"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error implements the error interface.
func (e Error) Error() string {
	switch e.Kind {
	case RequiredMissing:
		return "missing required option: " + e.Option
	case UnknownOption:
		return "unknown option: " + e.Option
	case CoercionFailed:
		return fmt.Sprintf("option %s: cannot convert %s", e.Option, quote(e.Value))
	case ValidationFailed:
		msg := fmt.Sprintf("option %s: invalid value %s", e.Option, quote(e.Value))
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		return msg
	case MultiplicityMismatch:
		if e.Detail != "" {
			return fmt.Sprintf("option %s: %s", e.Option, e.Detail)
		}
		return "option " + e.Option + ": wrong number of values"
	default:
		return fmt.Sprintf("option %s: %s", e.Option, e.Kind)
	}
}

// Unwrap returns the sentinel and the cause for errors.Is() compatibility.
func (e Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrResolution, e.Err}
	}
	return []error{ErrResolution}
}

// Error implements the error interface by joining all error messages.
func (errs ErrorList) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}

	var b strings.Builder
	b.WriteString("resolution failed with ")
	b.WriteString(strconv.Itoa(len(errs)))
	b.WriteString(" errors:\n")
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Err returns the list as an error, or nil when it is empty.
func (errs ErrorList) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Unwrap exposes every entry to errors.Is and errors.As.
func (errs ErrorList) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// ByKind returns the entries of the given kind.
func (errs ErrorList) ByKind(k Kind) ErrorList {
	var out ErrorList
	for _, e := range errs {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// ForOption returns the entries that belong to the named option.
func (errs ErrorList) ForOption(name string) ErrorList {
	var out ErrorList
	for _, e := range errs {
		if e.Option == name {
			out = append(out, e)
		}
	}
	return out
}

func quote(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%v", v)
}
