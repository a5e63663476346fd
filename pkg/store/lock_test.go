package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	closer, err := s.Lock()
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	// A second lock/unlock cycle should succeed now that the first is released.
	closer, err = s.Lock()
	require.NoError(t, err)
	require.NoError(t, closer.Close())
}
