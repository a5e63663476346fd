package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateIsIdempotent(t *testing.T) {
	l, err := OpenLedger(t.TempDir())
	require.NoError(t, err)
	defer l.Close()

	a, err := l.Allocate("ps_1")
	require.NoError(t, err)
	b, err := l.Allocate("ps_1")
	require.NoError(t, err)
	assert.Equal(t, a, b, "repeated Allocate should return the same suffix")
}

func TestAllocateNeverCollides(t *testing.T) {
	l, err := OpenLedger(t.TempDir())
	require.NoError(t, err)
	defer l.Close()

	seen := map[byte]string{}
	for i := 0; i < 50; i++ {
		id := idFor(i)
		suffix, err := l.Allocate(id)
		require.NoError(t, err)
		assert.True(t, suffix >= minSuffix && suffix <= maxSuffix, "suffix %d out of range [%d, %d]", suffix, minSuffix, maxSuffix)
		if owner, ok := seen[suffix]; ok {
			t.Fatalf("suffix %d allocated to both %s and %s", suffix, owner, id)
		}
		seen[suffix] = id
	}
}

func TestReleaseFreesSuffixForReuse(t *testing.T) {
	l, err := OpenLedger(t.TempDir())
	require.NoError(t, err)
	defer l.Close()

	suffix, err := l.Allocate("ps_1")
	require.NoError(t, err)
	require.NoError(t, l.Release("ps_1"))

	_, ok, err := l.Lookup("ps_1")
	require.NoError(t, err)
	assert.False(t, ok, "released id should no longer be found")

	reused, err := l.Allocate("ps_2")
	require.NoError(t, err)
	assert.Equal(t, suffix, reused, "released suffix should be reused")
}

func idFor(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	return "ps_" + string(letters[i%len(letters)]) + string(letters[(i/len(letters))%len(letters)])
}
