// SPDX-License-Identifier: MPL-2.0

// Package issue turns CLI failures into messages a user can act on.
//
// ActionableError carries the failed operation, the file involved and a list
// of suggestions. Issue holds longer Markdown guidance for the common failure
// classes (missing schema file, invalid schema, rejected arguments, broken
// configuration) and renders it with glamour.
package issue
