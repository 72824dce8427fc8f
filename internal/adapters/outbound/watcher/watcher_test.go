package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/adapters/outbound/watcher"
)

func startWatcher(t *testing.T, root string, ignore watcher.Filter) <-chan []string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 8)
	done := make(chan struct{})

	w := watcher.New(root, ".py", ignore).WithDebounce(50 * time.Millisecond)
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(_ context.Context, changed []string) {
			batches <- changed
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// give the watcher time to register directories
	time.Sleep(100 * time.Millisecond)
	return batches
}

func waitBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case b := <-batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("no change batch received")
		return nil
	}
}

func TestWatcher_ReportsChangedSourceFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0o755))
	batches := startWatcher(t, root, nil)

	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "models.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hi\n"), 0o644))

	batch := waitBatch(t, batches)
	assert.Equal(t, []string{"app/models.py"}, batch)
}

func TestWatcher_IgnoredPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))
	ignore := func(rel string) bool { return strings.HasPrefix(rel, "build/") }
	batches := startWatcher(t, root, ignore)

	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "gen.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("x = 1\n"), 0o644))

	batch := waitBatch(t, batches)
	assert.Equal(t, []string{"main.py"}, batch)
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- watcher.New(t.TempDir(), ".py", nil).Run(ctx, func(context.Context, []string) {})
	}()
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	err := watcher.New(filepath.Join(t.TempDir(), "missing"), ".py", nil).
		Run(context.Background(), func(context.Context, []string) {})
	assert.Error(t, err)
}
