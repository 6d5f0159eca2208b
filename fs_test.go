package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDirsRebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blog"), 0755))
	file := filepath.Join(dir, "blog", "post.md")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchDirs(ctx, []string{dir}, func() { rebuilds.Add(1) })
	}()

	// keep writing until the watcher is up and has settled once
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte("{{ image_from_cdn \"a.png\" }}"), 0644)
		return rebuilds.Load() > 0
	}, 5*time.Second, 2*watchDebounce)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchDirsMissingDir(t *testing.T) {
	err := watchDirs(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, func() {})
	assert.Error(t, err)
}
