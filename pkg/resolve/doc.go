// SPDX-License-Identifier: MPL-2.0

// Package resolve turns command-line tokens into typed, validated option values.
//
// Resolution normalizes the command schema, tokenizes the input (see
// package argmap), seeds absent options from the environment or their
// defaults, and runs every entry through coercion, transform and validate.
// A multiple option keeps every accepted entry in input order; any other
// option keeps the last accepted entry.
//
// Two kinds of failure are kept apart. A malformed schema is a programming
// error and is returned immediately as the error result. Problems with the
// input itself (a missing required option, a value that does not convert or
// does not validate) are collected into an ErrorList so one pass reports all
// of them.
package resolve
