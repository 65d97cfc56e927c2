package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) handle(_ context.Context, files []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, files)
	return nil
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func TestWatcher_DebouncesSourceChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "obj"), 0o755))

	rec := &recorder{}
	w, err := New(root, rec.handle, WithDebounce(50*time.Millisecond), WithIgnored("obj"))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	target := filepath.Join(root, "src", "A.cs")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("class A { }"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "obj", "B.cs"), []byte("class B { }"), 0o644))

	assert.Eventually(t, func() bool { return len(rec.all()) > 0 }, 3*time.Second, 20*time.Millisecond)
	// Let any further ticks pass; repeated writes must not produce extra batches.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{target}, rec.all())
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	w, err := New(root, rec.handle, WithDebounce(30*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	dir := filepath.Join(root, "Feature")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	// give the watcher a moment to register the new directory
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return slices.Contains(w.watcher.WatchList(), dir)
	}, 3*time.Second, 10*time.Millisecond)

	target := filepath.Join(dir, "F.cs")
	require.NoError(t, os.WriteFile(target, []byte("class F { }"), 0o644))
	assert.Eventually(t, func() bool { return slices.Contains(rec.all(), target) }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	rec := &recorder{}
	w, err := New(t.TempDir(), rec.handle)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
