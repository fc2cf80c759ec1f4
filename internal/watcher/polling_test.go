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

func startPoller(t *testing.T, root string, ignore []string) *PollingWatcher {
	t.Helper()
	p := NewPollingWatcher(20*time.Millisecond, ignore)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Start(ctx, root)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Let the baseline snapshot finish.
	time.Sleep(60 * time.Millisecond)
	return p
}

func waitForPollEvent(t *testing.T, p *PollingWatcher, path string, op Operation) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-p.Events():
			require.True(t, ok, "events closed before %s %s", op, path)
			if e.Path == path && e.Operation == op {
				return
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s %s", op, path)
		}
	}
}

func TestPollingWatcher_DetectsCreateModifyDelete(t *testing.T) {
	// Given: a project with an existing README
	root := t.TempDir()
	readme := filepath.Join(root, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Ext"), 0o644))
	p := startPoller(t, root, nil)

	// When/Then: a new file is created
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0o644))
	waitForPollEvent(t, p, "package.json", OpCreate)

	// When/Then: the README grows
	require.NoError(t, os.WriteFile(readme, []byte("# Ext\n\nMore text"), 0o644))
	waitForPollEvent(t, p, "README.md", OpModify)

	// When/Then: the README is removed
	require.NoError(t, os.Remove(readme))
	waitForPollEvent(t, p, "README.md", OpDelete)
}

func TestPollingWatcher_SkipsIgnoredDirs(t *testing.T) {
	// Given: a poller ignoring node_modules
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "left-pad"), 0o755))
	p := startPoller(t, root, []string{"node_modules"})

	// When: files change in both ignored and watched places
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "left-pad", "index.js"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tsconfig.json"), []byte("{}"), 0o644))

	// Then: only the watched file is reported
	deadline := time.After(500 * time.Millisecond)
	var paths []string
loop:
	for {
		select {
		case e := <-p.Events():
			paths = append(paths, e.Path)
		case <-deadline:
			break loop
		}
	}
	assert.Contains(t, paths, "tsconfig.json")
	for _, path := range paths {
		assert.NotContains(t, path, "node_modules")
	}
}

func TestPollingWatcher_Stop_ClosesChannels(t *testing.T) {
	// Given: a poller that was never started
	p := NewPollingWatcher(time.Second, nil)

	// When: stopped twice
	require.NoError(t, p.Stop())
	require.NoError(t, p.Stop())

	// Then: both channels are closed
	_, ok := <-p.Events()
	assert.False(t, ok)
	_, ok = <-p.Errors()
	assert.False(t, ok)
}
