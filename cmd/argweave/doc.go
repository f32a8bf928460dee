// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the argweave CLI.
//
// The commands load a schema file (CUE, JSON, TOML or HCL), resolve
// command-line arguments against it and print the typed result. They exist
// to exercise the resolution engine from a shell; none of them runs anything.
package cmd
