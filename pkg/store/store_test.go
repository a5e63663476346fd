package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExistsDelete(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	assert.False(t, s.Exists("img_1"))
	require.NoError(t, s.CreateVolume("img_1"))
	assert.True(t, s.Exists("img_1"))
	assert.Error(t, s.CreateVolume("img_1"), "expected error creating a duplicate volume")

	require.NoError(t, s.DeleteVolume("img_1"))
	assert.False(t, s.Exists("img_1"))
	assert.Error(t, s.DeleteVolume("img_1"), "expected error deleting a missing volume")
}

func TestSnapshotVolume(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	require.NoError(t, s.CreateVolume("img_1"))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path("img_1"), "hello.txt"), []byte("hi"), 0o644))

	require.NoError(t, s.SnapshotVolume("img_1", "ps_1"))
	got, err := os.ReadFile(filepath.Join(s.Path("ps_1"), "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))

	assert.Error(t, s.SnapshotVolume("img_missing", "ps_2"), "expected error snapshotting a missing source")
	assert.Error(t, s.SnapshotVolume("img_1", "ps_1"), "expected error snapshotting onto an existing destination")
}

func TestList(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	for _, id := range []string{"img_1", "img_2", "ps_1"} {
		require.NoError(t, s.CreateVolume(id))
	}

	images, err := s.List("img_")
	require.NoError(t, err)
	assert.Len(t, images, 2)

	containers, err := s.List("ps_")
	require.NoError(t, err)
	assert.Len(t, containers, 1)
}

func TestWriteReadMeta(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)
	require.NoError(t, s.CreateVolume("ps_1"))

	require.NoError(t, s.WriteMeta("ps_1", "ps_1.cmd", []byte("sh")))
	got, err := s.ReadMeta("ps_1", "ps_1.cmd")
	require.NoError(t, err)
	assert.Equal(t, "sh", string(got))

	_, err = s.ReadMeta("ps_1", "ps_1.log")
	assert.Error(t, err, "expected error reading a meta file that was never written")

	require.NoError(t, s.AppendMeta("ps_1", "ps_1.log", []byte("line1\n")))
	require.NoError(t, s.AppendMeta("ps_1", "ps_1.log", []byte("line2\n")))
	got, err = s.ReadMeta("ps_1", "ps_1.log")
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", string(got))
}
