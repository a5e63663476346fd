package commit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanelabs/bocker/pkg/store"
	"github.com/kanelabs/bocker/pkg/types"
)

type noopCgroup struct{}

func (noopCgroup) Detach(id string) error { return nil }

func TestCommitSnapshotsContainerOverImage(t *testing.T) {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.CreateVolume("img_1"))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path("img_1"), "old.txt"), []byte("stale"), 0o644))
	require.NoError(t, s.CreateVolume("ps_1"))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path("ps_1"), "new.txt"), []byte("fresh"), 0o644))

	require.NoError(t, Commit(s, noopCgroup{}, "ps_1", "img_1"))

	_, err = os.Stat(filepath.Join(s.Path("img_1"), "old.txt"))
	assert.Error(t, err, "old.txt should not survive commit")
	_, err = os.Stat(filepath.Join(s.Path("img_1"), "new.txt"))
	assert.NoError(t, err, "new.txt should be present after commit")
}

func TestCommitNoSuchContainer(t *testing.T) {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.CreateVolume("img_1"))

	err = Commit(s, noopCgroup{}, "ps_missing", "img_1")
	assert.ErrorIs(t, err, types.ErrNoSuchEntity)
}

func TestCommitNoSuchImage(t *testing.T) {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.CreateVolume("ps_1"))

	err = Commit(s, noopCgroup{}, "ps_1", "img_missing")
	assert.ErrorIs(t, err, types.ErrNoSuchEntity)
}
