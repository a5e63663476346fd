package commit

import (
	"fmt"

	"github.com/kanelabs/bocker/pkg/log"
	"github.com/kanelabs/bocker/pkg/types"
)

// Store is the subset of *store.Store Commit needs.
type Store interface {
	Exists(id string) bool
	DeleteVolume(id string) error
	SnapshotVolume(srcID, dstID string) error
}

// Cgroup is the subset of *cgroup.Manager Commit needs for its
// best-effort cleanup of the target image's (normally nonexistent)
// cgroup -- images are never attached to one, but a target id that
// used to be a container might still have one lingering.
type Cgroup interface {
	Detach(id string) error
}

// Commit promotes containerID's current volume to imageID, which must
// already exist: the target's volume (and cgroup, best-effort) is
// destroyed, then containerID is snapshotted in its place (spec.md
// §4.I). The container itself is left unchanged.
func Commit(store Store, cg Cgroup, containerID, imageID string) error {
	if !store.Exists(containerID) {
		return fmt.Errorf("%w: container %s", types.ErrNoSuchEntity, containerID)
	}
	if !store.Exists(imageID) {
		return fmt.Errorf("%w: image %s", types.ErrNoSuchEntity, imageID)
	}

	if err := store.DeleteVolume(imageID); err != nil {
		return err
	}
	if cg != nil {
		if err := cg.Detach(imageID); err != nil {
			log.WithImageID(imageID).Error().Err(err).Msg("detach cgroup")
		}
	}

	return store.SnapshotVolume(containerID, imageID)
}
