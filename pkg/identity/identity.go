package identity

import (
	"fmt"
	"math/rand"

	"github.com/kanelabs/bocker/pkg/types"
)

// maxIDAttempts bounds the collision retry loop. The original tool
// this package's behavior is modeled on retried recursively with no
// bound; a bounded loop can't blow the stack under an adversarial or
// just very full store.
const maxIDAttempts = 25

// idSpace is the exclusive upper bound on the random suffix drawn for
// a new id.
const idSpace = 100000

// Existence is the subset of *store.Store that NewID needs: something
// that can say whether an id is already taken.
type Existence interface {
	Exists(id string) bool
}

// NewID draws a random "<prefix><n>" id, retrying while store already
// has it, up to maxIDAttempts times before giving up.
func NewID(store Existence, prefix string) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := fmt.Sprintf("%s%d", prefix, rand.Intn(idSpace))
		if !store.Exists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no free id under prefix %q after %d attempts", types.ErrIDCollision, prefix, maxIDAttempts)
}
