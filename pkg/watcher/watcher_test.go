package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "model.stl")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("solid a"), 0o644))

	fw, err := NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Add(tracked))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- fw.Run(ctx, func(changed []string) { changes <- changed })
	}()

	// give the loop a moment to start receiving
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(tracked, []byte("solid b"), 0o644))
	}

	select {
	case changed := <-changes:
		abs, _ := filepath.Abs(tracked)
		assert.Equal(t, []string{abs}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherFiles(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher(0)
	require.NoError(t, err)
	defer fw.Close()

	b, a := filepath.Join(dir, "b.scad"), filepath.Join(dir, "a.scad")
	require.NoError(t, fw.Add(b, a))
	assert.Equal(t, []string{a, b}, fw.Files())
	assert.Equal(t, DefaultDebounce, fw.debounce)
}

func TestWatcherAddMissingDirectory(t *testing.T) {
	fw, err := NewFileWatcher(0)
	require.NoError(t, err)
	defer fw.Close()

	assert.Error(t, fw.Add(filepath.Join(t.TempDir(), "missing", "model.stl")))
}
