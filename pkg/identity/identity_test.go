package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanelabs/bocker/pkg/types"
)

type fakeStore struct {
	taken map[string]bool
}

func (f *fakeStore) Exists(id string) bool { return f.taken[id] }

func TestNewIDReturnsFreeID(t *testing.T) {
	s := &fakeStore{taken: map[string]bool{}}
	id, err := NewID(s, "img_")
	require.NoError(t, err)
	assert.Greater(t, len(id), len("img_"))
}

func TestNewIDExhaustsAttempts(t *testing.T) {
	s := &fakeStore{taken: map[string]bool{}}
	for i := 0; i < idSpace; i++ {
		s.taken[idOf("img_", i)] = true
	}
	_, err := NewID(s, "img_")
	assert.ErrorIs(t, err, types.ErrIDCollision)
}

func idOf(prefix string, n int) string {
	return prefix + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}
