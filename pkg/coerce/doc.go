// SPDX-License-Identifier: MPL-2.0

// Package coerce converts raw command-line strings into typed values.
//
// A Registry maps a type tag (boolean, number, string, date, array, object, or
// an application-defined id) to a parse function and a missing-token substitute.
// The substitute is fed to the parse function whenever the raw token is empty,
// which is how a bare boolean switch like "--verbose" becomes true.
//
// Registries are safe for concurrent use. Resolution code should receive a
// registry explicitly; Default is a process-wide convenience seeded with the
// built-in entries, and Standard returns a fresh, independent copy of them.
//
// Structured values (array, object) are parsed by ParseLiteral, which accepts
// literal syntax only: numbers, strings, booleans, null and nested lists or
// structs. Nothing in the input is ever evaluated.
package coerce
