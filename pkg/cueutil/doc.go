// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates documents against embedded CUE definitions.
//
// Every document follows the same three steps:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile the document and unify it with that definition
//  3. Validate the result and decode it into a Go value
//
// JSON is a subset of CUE, so the same call accepts .json documents.
//
// # Usage
//
//	//go:embed command_schema.cue
//	var commandSchema []byte
//
//	result, err := cueutil.Decode[map[string]any](
//	    commandSchema,
//	    "#Command",
//	    data,
//	    cueutil.WithFilename("sum.cue"),
//	)
//	if err != nil {
//	    return nil, err // *cueutil.ValidationError lists every CUE path that failed
//	}
//	return *result.Value, nil
package cueutil
