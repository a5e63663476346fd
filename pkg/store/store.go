package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kanelabs/bocker/pkg/types"
)

// Store owns every image and container volume under a single root
// directory. Every method is safe to call concurrently for reads;
// mutating calls rely on the caller serializing commands (see Lock,
// the store-root flock taken in cmd/bocker).
type Store struct {
	root string
}

// New returns a Store rooted at root, creating the directory if it
// doesn't already exist.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create store root %s: %v", types.ErrStoreFailure, root, err)
	}
	return &Store{root: root}, nil
}

// Path returns the absolute path of a volume (or any file inside it,
// when extra path elements are given).
func (s *Store) Path(id string, elem ...string) string {
	return filepath.Join(append([]string{s.root, id}, elem...)...)
}

// Exists reports whether a volume named id is present under the store
// root. This is the sole authority for "does this image/container
// exist" that every other component consults before acting.
func (s *Store) Exists(id string) bool {
	info, err := os.Stat(s.Path(id))
	return err == nil && info.IsDir()
}

// CreateVolume creates a new empty CoW volume at <root>/<id>. It fails
// if id already exists.
func (s *Store) CreateVolume(id string) error {
	if s.Exists(id) {
		return fmt.Errorf("%w: volume %s already exists", types.ErrStoreFailure, id)
	}
	if err := subvolCreate(s.root, id); err != nil {
		return fmt.Errorf("%w: create volume %s: %v", types.ErrStoreFailure, id, err)
	}
	return nil
}

// SnapshotVolume creates a CoW clone of srcID at dstID. dstID must not
// already exist.
func (s *Store) SnapshotVolume(srcID, dstID string) error {
	if !s.Exists(srcID) {
		return fmt.Errorf("%w: source volume %s", types.ErrNoSuchEntity, srcID)
	}
	if s.Exists(dstID) {
		return fmt.Errorf("%w: volume %s already exists", types.ErrStoreFailure, dstID)
	}
	if err := snapshot(s.Path(srcID), s.Path(dstID)); err != nil {
		return fmt.Errorf("%w: snapshot %s -> %s: %v", types.ErrStoreFailure, srcID, dstID, err)
	}
	return nil
}

// DeleteVolume removes a volume and all its contents.
func (s *Store) DeleteVolume(id string) error {
	if !s.Exists(id) {
		return fmt.Errorf("%w: %s", types.ErrNoSuchEntity, id)
	}
	if err := subvolDelete(s.root, id); err != nil {
		return fmt.Errorf("%w: delete volume %s: %v", types.ErrStoreFailure, id, err)
	}
	return nil
}

// List returns the ids of every volume under the store root whose
// name starts with prefix (e.g. "img_" or "ps_"), in directory
// enumeration order.
func (s *Store) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s*: %v", types.ErrStoreFailure, prefix, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if len(e.Name()) >= len(prefix) && e.Name()[:len(prefix)] == prefix {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
