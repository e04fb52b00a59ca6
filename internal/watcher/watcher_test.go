package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regdraft/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	err := os.WriteFile(path, []byte("schemas: []"), 0644)
	require.NoError(t, err, "failed to create fixture file")

	w, err := watcher.New(watcher.Config{
		Path:        path,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(path, []byte(fmt.Sprintf("schemas: [] # %d", i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	// No second notification should come quickly
	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	otherPath := filepath.Join(dir, "notes.txt")
	err := os.WriteFile(path, []byte("schemas: []"), 0644)
	require.NoError(t, err, "failed to create fixture file")
	// Pre-create the other file so writes to it are just Write events
	err = os.WriteFile(otherPath, []byte("initial"), 0644)
	require.NoError(t, err, "failed to create other file")

	w, err := watcher.New(watcher.Config{
		Path:        path,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(otherPath, []byte("other content"), 0644)
	require.NoError(t, err, "failed to write other file")

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification for unrelated file
	}
}

func TestWatcher_NotifiesOnReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	err := os.WriteFile(path, []byte("schemas: []"), 0644)
	require.NoError(t, err, "failed to create fixture file")

	w, err := watcher.New(watcher.Config{
		Path:        path,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Editors often save by writing a temp file and renaming it over
	// the original.
	tmp := filepath.Join(dir, ".scenario.yaml.tmp")
	err = os.WriteFile(tmp, []byte("schemas: [{id: s1}]"), 0644)
	require.NoError(t, err, "failed to write temp file")
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-onChange:
		// Expected - replacing the file counts as a change
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification for replaced fixture file")
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	err := os.WriteFile(path, []byte("schemas: []"), 0644)
	require.NoError(t, err, "failed to create fixture file")

	w, err := watcher.New(watcher.Config{
		Path:        path,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Stop should not hang or panic
	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
		// Expected - stop completed successfully
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestDefaultConfig(t *testing.T) {
	path := "/fixtures/scenario.yaml"
	cfg := watcher.DefaultConfig(path)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceDur)
}
