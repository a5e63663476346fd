package store

import (
	"fmt"
	"os"

	"github.com/kanelabs/bocker/pkg/types"
)

// WriteMeta writes data to a small file named relPath inside the
// volume id, e.g. WriteMeta("ps_3", "ps_3.cmd", []byte("sh")). The
// file is truncated if it already exists.
func (s *Store) WriteMeta(id, relPath string, data []byte) error {
	if !s.Exists(id) {
		return fmt.Errorf("%w: %s", types.ErrNoSuchEntity, id)
	}
	if err := os.WriteFile(s.Path(id, relPath), data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s/%s: %v", types.ErrStoreFailure, id, relPath, err)
	}
	return nil
}

// ReadMeta reads the contents of relPath inside the volume id.
func (s *Store) ReadMeta(id, relPath string) ([]byte, error) {
	if !s.Exists(id) {
		return nil, fmt.Errorf("%w: %s", types.ErrNoSuchEntity, id)
	}
	data, err := os.ReadFile(s.Path(id, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", types.ErrNoLog, id, relPath)
		}
		return nil, fmt.Errorf("%w: read %s/%s: %v", types.ErrStoreFailure, id, relPath, err)
	}
	return data, nil
}

// AppendMeta appends data to relPath inside the volume id, creating
// the file if it doesn't already exist. The Launcher does not use it:
// it writes a container's log through its own file handle and its pid
// file through WriteMeta.
func (s *Store) AppendMeta(id, relPath string, data []byte) error {
	if !s.Exists(id) {
		return fmt.Errorf("%w: %s", types.ErrNoSuchEntity, id)
	}
	f, err := os.OpenFile(s.Path(id, relPath), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s/%s: %v", types.ErrStoreFailure, id, relPath, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: append %s/%s: %v", types.ErrStoreFailure, id, relPath, err)
	}
	return nil
}
