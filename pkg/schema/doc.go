// SPDX-License-Identifier: MPL-2.0

// Package schema normalizes option and command declarations.
//
// Declarations arrive as Raw maps (hand-written or decoded from a schema
// file) or as Option/Command values. Normalization checks every field's
// shape, fills defaults (boolean type, identity transform, always-true
// validate), rejects required options that also carry a default, checks that
// a default is itself an acceptable value, and derives the alias table.
//
// Normalizing an already normalized value returns it unchanged, so callers
// may normalize before every resolution at no cost.
package schema
