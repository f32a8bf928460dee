// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test
// immediately on setup errors instead of returning them.
//
// Helpers cover fixture files (MustWriteFile), the user configuration
// directory (SetConfigHome) and fixed environments (StaticEnv).
package testutil
