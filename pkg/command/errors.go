// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/argweave/argweave/pkg/resolve"
)

var (
	// ErrInvalidCommandName is returned when a command name is empty or contains whitespace.
	ErrInvalidCommandName = errors.New("invalid command name")
	// ErrDuplicateCommand is returned when a command name is defined twice.
	ErrDuplicateCommand = errors.New("command already defined")
	// ErrNilHandler is returned when Define receives no handler.
	ErrNilHandler = errors.New("command handler is nil")
	// ErrUnknownCommand is returned when no command has the requested name.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvocation is returned when a command's options did not resolve.
	ErrInvocation = errors.New("invalid command options")
)

type (
	// InvalidCommandNameError is returned when a command name is not usable.
	// It wraps ErrInvalidCommandName for errors.Is() compatibility.
	InvalidCommandNameError struct {
		Value string
	}

	// DuplicateCommandError is returned when a command name is already taken.
	// It wraps ErrDuplicateCommand for errors.Is() compatibility.
	DuplicateCommandError struct {
		Name string
	}

	// UnknownCommandError is returned when Execute or Evaluate names no
	// defined command. It wraps ErrUnknownCommand for errors.Is() compatibility.
	UnknownCommandError struct {
		Name string
	}

	// InvocationError carries every data error that kept a command from running.
	// It wraps ErrInvocation and each entry of Errors.
	InvocationError struct {
		Command string
		Errors  resolve.ErrorList
	}
)

// Error implements the error interface for InvalidCommandNameError.
func (e *InvalidCommandNameError) Error() string {
	return fmt.Sprintf("invalid command name %q (expected a non-empty name without spaces)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidCommandNameError) Unwrap() error {
	return ErrInvalidCommandName
}

// Error implements the error interface for DuplicateCommandError.
func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("cannot define command because a command with this name is already defined: %s", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DuplicateCommandError) Unwrap() error {
	return ErrDuplicateCommand
}

// Error implements the error interface for UnknownCommandError.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command %q is not defined", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}

// Error implements the error interface for InvocationError.
func (e *InvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot execute command %q because one or more options are not valid:", e.Command)
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes the sentinel and every data error.
func (e *InvocationError) Unwrap() []error {
	out := make([]error, 0, len(e.Errors)+1)
	out = append(out, ErrInvocation)
	for _, err := range e.Errors {
		out = append(out, err)
	}
	return out
}
