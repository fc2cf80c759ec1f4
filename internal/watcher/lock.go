package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// DefaultLockDir returns the directory holding watcher locks
// (~/.extcheck/locks/). Falls back to the temp directory if home is
// unavailable.
func DefaultLockDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".extcheck", "locks")
	}
	return filepath.Join(home, ".extcheck", "locks")
}

// ProjectLock is a cross-process lock keyed by project root, so only one
// `extcheck watch` runs per project.
type ProjectLock struct {
	path   string
	root   string
	flock  *flock.Flock
	locked bool
}

// NewProjectLock creates a lock for root with its lock file in dir.
// root should be absolute; the file name is derived from a hash of it.
func NewProjectLock(dir, root string) *ProjectLock {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	lockPath := filepath.Join(dir, hex.EncodeToString(sum[:8])+".lock")
	return &ProjectLock{
		path:  lockPath,
		root:  root,
		flock: flock.New(lockPath),
	}
}

// TryLock acquires the lock without blocking. A lock held by another
// watcher yields ERR_205_LOCK_HELD.
func (l *ProjectLock) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return exterrors.New(exterrors.ErrCodeFilePermission, "failed to create lock directory", err).
			WithDetail("path", filepath.Dir(l.path))
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return exterrors.New(exterrors.ErrCodeLockHeld,
			fmt.Sprintf("another extcheck watch is already running for %s", l.root), nil).
			WithDetail("lock", l.path).
			WithSuggestion("Stop the other watcher first")
	}

	l.locked = true
	return nil
}

// Unlock releases the lock. Safe to call on an unlocked ProjectLock.
func (l *ProjectLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the path to the lock file.
func (l *ProjectLock) Path() string {
	return l.path
}

// IsLocked returns true if this ProjectLock holds the lock.
func (l *ProjectLock) IsLocked() bool {
	return l.locked
}
