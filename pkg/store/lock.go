package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/kanelabs/bocker/pkg/types"
)

// lockFile is the advisory flock bocker's mutating commands take over
// the whole store root, since concurrent invocations would otherwise
// race on id allocation and bridge membership (spec.md §5).
const lockFile = ".bocker.lock"

// Lock opens (creating if needed) the store's advisory lock file and
// blocks until it can take an exclusive flock on it. The returned
// closer releases the lock; callers should defer it immediately.
func (s *Store) Lock() (io.Closer, error) {
	path := filepath.Join(s.root, lockFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open lock file %s: %v", types.ErrStoreFailure, path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: flock %s: %v", types.ErrStoreFailure, path, err)
	}
	return f, nil
}
