// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b")
	path := MustWriteFile(t, dir, "f.env", "K=v\n")
	if path != filepath.Join(dir, "f.env") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "K=v\n" {
		t.Errorf("ReadFile() = %q, %v", data, err)
	}
}

func TestSetConfigHome(t *testing.T) {
	dir := t.TempDir()
	got := SetConfigHome(t, dir)
	if filepath.Base(got) != "argweave" {
		t.Errorf("SetConfigHome() = %q, want a directory named argweave", got)
	}
	if rel, err := filepath.Rel(dir, got); err != nil || rel == ".." {
		t.Errorf("SetConfigHome() = %q is not inside %q", got, dir)
	}
}

func TestStaticEnv(t *testing.T) {
	t.Parallel()

	env := StaticEnv(map[string]string{"A": "1", "EMPTY": ""})
	if v, ok := env("A"); !ok || v != "1" {
		t.Errorf("A = %q, %v", v, ok)
	}
	if _, ok := env("EMPTY"); !ok {
		t.Error("an empty value is still set")
	}
	if _, ok := env("B"); ok {
		t.Error("B should be unset")
	}
	if _, ok := StaticEnv(nil)("A"); ok {
		t.Error("nil map should be an empty environment")
	}
}
