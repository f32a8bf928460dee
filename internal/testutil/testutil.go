// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// MustWriteFile writes content to name inside dir, creating dir as needed,
// and returns the file path. The test fails immediately on error.
func MustWriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SetConfigHome points the platform's user configuration directory at dir
// for the rest of the test: APPDATA on Windows, HOME on macOS and
// XDG_CONFIG_HOME elsewhere. It returns the directory argweave then uses
// for its own files.
//
// It uses t.Setenv, so the calling test must not be parallel.
func SetConfigHome(t *testing.T, dir string) string {
	t.Helper()
	switch runtime.GOOS {
	case "windows":
		t.Setenv("APPDATA", dir)
		return filepath.Join(dir, "argweave")
	case "darwin":
		t.Setenv("HOME", dir)
		return filepath.Join(dir, "Library", "Application Support", "argweave")
	default:
		t.Setenv("XDG_CONFIG_HOME", dir)
		return filepath.Join(dir, "argweave")
	}
}

// StaticEnv returns an environment lookup backed by vars. A nil map is an
// empty environment.
func StaticEnv(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}
