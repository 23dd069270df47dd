package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.stk")
	other := filepath.Join(dir, "other.stk")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(path))
	require.NoError(t, w.Add(path), "adding twice is harmless")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	select {
	case ev := <-w.Events():
		assert.Equal(t, path, ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected second event %v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSeesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.stk")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	tmp := filepath.Join(dir, ".doc.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("v2"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case ev := <-w.Events():
		assert.Equal(t, path, ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}
}

func TestRemoveStopsReporting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.stk")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(path))
	w.Remove(path)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(200 * time.Millisecond):
	}
	cancel()
	// Events is closed once Run returns.
	for range w.Events() {
	}
}
