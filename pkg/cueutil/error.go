// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrValidation is returned when a document does not satisfy its definition.
	ErrValidation = errors.New("document is not valid")
	// ErrFileTooLarge is returned when a document exceeds the size limit.
	ErrFileTooLarge = errors.New("document too large")
)

type (
	// Issue is one failed CUE path.
	Issue struct {
		// Path is the JSON-style path of the offending value, e.g. "options.n.alias".
		Path string
		// Message is CUE's description of the problem.
		Message string
	}

	// ValidationError lists every issue CUE reported for a document.
	// It wraps ErrValidation for errors.Is() compatibility.
	ValidationError struct {
		File   string
		Issues []Issue
	}

	// FileSizeError is returned when a document is larger than allowed.
	// It wraps ErrFileTooLarge for errors.Is() compatibility.
	FileSizeError struct {
		File  string
		Size  int64
		Limit int64
	}
)

// String renders "path: message", or just the message at the root.
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", e.File, e.Issues[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: validation failed with %d errors:", e.File, len(e.Issues))
	for _, i := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(i.String())
	}
	return b.String()
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Error implements the error interface for FileSizeError.
func (e *FileSizeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Limit)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *FileSizeError) Unwrap() error {
	return ErrFileTooLarge
}

// FormatError turns a CUE error into a *ValidationError with one issue
// per reported path. Errors that did not come from CUE are wrapped with
// the file name and returned as they are.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", file, err)
	}

	out := &ValidationError{File: file}
	seen := map[string]bool{}
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := cueMessage(e)
		if path != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		issue := Issue{Path: path, Message: msg}
		if seen[issue.String()] {
			continue
		}
		seen[issue.String()] = true
		out.Issues = append(out.Issues, issue)
	}
	return out
}

func cueMessage(e cueerrors.Error) string {
	format, args := e.Msg()
	if format == "" {
		return e.Error()
	}
	return fmt.Sprintf(format, args...)
}

// formatPath renders CUE's flat path ["options", "0", "name"] as "options[0].name".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize reports a *FileSizeError when data is longer than maxSize.
func CheckFileSize(data []byte, maxSize int64, file string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileSizeError{File: file, Size: size, Limit: maxSize}
	}
	return nil
}
