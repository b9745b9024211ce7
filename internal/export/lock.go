package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".plexport.lock"

// ErrLocked means another run is exporting to the same directory
var ErrLocked = errors.New("another export is already writing to this directory")

// LockDir takes an advisory lock on dir, creating it if needed. The returned
// function releases the lock; the lock file itself is left in place so every
// run locks the same inode.
func LockDir(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, lockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("release lock: %w", err)
		}
		return nil
	}, nil
}
