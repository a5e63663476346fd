package cgroup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirLayout(t *testing.T) {
	m := New([]string{"cpu", "memory"}, 512, 512_000_000)
	got := m.dir("cpu", "ps_3")
	want := filepath.Join(cgroupRoot, "cpu", "bocker", "ps_3")
	assert.Equal(t, want, got)
}

func TestWriteLimitSkipsMissingFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, writeLimit(dir, "cpu.shares", "512"), "writeLimit on a controller without cpu.shares should be a no-op")
}

func TestWriteLimitWritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpu.shares")
	require.NoError(t, os.WriteFile(path, []byte("1024"), 0o644))

	require.NoError(t, writeLimit(dir, "cpu.shares", "512"))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "512", string(got))
}

func TestAttachDetachRequiresRoot(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("cgroup attach requires root and a real cgroupfs mount")
	}
	m := New([]string{"cpu"}, 512, 512_000_000)
	require.NoError(t, m.Attach("bocker-cgroup-test"))
	defer m.Detach("bocker-cgroup-test")
}
