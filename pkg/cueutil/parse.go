// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result is a decoded document.
type Result[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the document unified with its definition. Callers use it
	// to read fields the Go type does not carry.
	Unified cue.Value
}

// Decode validates data against the definition at defPath inside schema and
// decodes the unified value into T. Document problems come back as a
// *ValidationError; a schema that does not compile or lacks defPath is a
// programming error and is reported as such.
func Decode[T any](schema []byte, defPath string, data []byte, opts ...Option) (*Result[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	filename := options.filename

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema, cue.Filename("schema.cue"))
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, err)
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, FormatError(err, filename)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	return &Result[T]{Value: &out, Unified: unified}, nil
}

// DecodeString is Decode with the schema given as a string constant.
func DecodeString[T any](schema, defPath string, data []byte, opts ...Option) (*Result[T], error) {
	return Decode[T]([]byte(schema), defPath, data, opts...)
}
