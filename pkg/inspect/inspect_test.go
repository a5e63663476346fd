package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanelabs/bocker/pkg/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestListImagesEmpty(t *testing.T) {
	s := newTestStore(t)
	images, err := ListImages(s)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestListImagesAndContainers(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateVolume("img_1"))
	require.NoError(t, s.WriteMeta("img_1", "img.source", []byte("alpine:3.19")))
	require.NoError(t, s.CreateVolume("ps_1"))
	require.NoError(t, s.WriteMeta("ps_1", "ps_1.cmd", []byte("echo hi")))

	images, err := ListImages(s)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "img_1", images[0].ID)
	assert.Equal(t, "alpine:3.19", images[0].Source)

	containers, err := ListContainers(s)
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "ps_1", containers[0].ID)
	assert.Equal(t, "echo hi", containers[0].Command)
	assert.False(t, containers[0].Running(), "container with no pid file should report not running")
}

func TestLogs(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateVolume("ps_1"))
	_, err := Logs(s, "ps_1")
	assert.Error(t, err, "expected error reading logs before any are written")

	require.NoError(t, s.AppendMeta("ps_1", "ps_1.log", []byte("hello\n")))
	got, err := Logs(s, "ps_1")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))
}
