// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return nil
}

func (r *recorder) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnChange")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func startWatcher(t *testing.T, cfg Config) context.CancelFunc {
	t.Helper()
	w, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return cancel
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNoTargets)

	_, err = New(Config{Targets: []string{filepath.Join(t.TempDir(), "[")}})
	require.Error(t, err)

	_, err = New(Config{Targets: []string{filepath.Join(t.TempDir(), "missing", "schema.cue")}})
	require.Error(t, err, "a target in a missing directory can never change")
}

func TestMatches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "env", "prod"), 0o755))
	w, err := New(Config{Targets: []string{
		filepath.Join(dir, "schema.cue"),
		filepath.Join(dir, "env", "**", "*.env"),
	}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })

	assert.True(t, w.Matches(filepath.Join(dir, "schema.cue")))
	assert.True(t, w.Matches(filepath.Join(dir, "env", "a.env")))
	assert.True(t, w.Matches(filepath.Join(dir, "env", "prod", "b.env")))
	assert.False(t, w.Matches(filepath.Join(dir, "other.cue")))
	assert.False(t, w.Matches(filepath.Join(dir, "env", "a.txt")))
}

func TestRun_DebouncesWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.cue")
	require.NoError(t, os.WriteFile(schema, []byte("a"), 0o644))

	rec := newRecorder()
	startWatcher(t, Config{
		Targets:  []string{schema},
		Debounce: 100 * time.Millisecond,
		OnChange: rec.onChange,
	})

	for i := range 3 {
		require.NoError(t, os.WriteFile(schema, []byte{byte('b' + i)}, 0o644))
	}
	// Unwatched files in the same directory never fire.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	changed := rec.wait(t)
	assert.Equal(t, []string{schema}, changed)
}

func TestRun_RecursivePattern(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "env", "prod"), 0o755))
	rec := newRecorder()
	startWatcher(t, Config{
		Targets:  []string{filepath.Join(dir, "**", "*.env")},
		Debounce: 100 * time.Millisecond,
		OnChange: rec.onChange,
	})

	env := filepath.Join(dir, "env", "prod", "local.env")
	require.NoError(t, os.WriteFile(env, []byte("A=1\n"), 0o644))
	assert.Equal(t, []string{env}, rec.wait(t))
}

func TestRun_OnlyOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Targets: []string{filepath.Join(dir, "schema.cue")}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	require.Error(t, w.Run(ctx))
}
