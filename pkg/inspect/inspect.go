package inspect

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kanelabs/bocker/pkg/types"
)

// Store is the subset of *store.Store this package needs.
type Store interface {
	List(prefix string) ([]string, error)
	Path(id string, elem ...string) string
	ReadMeta(id, relPath string) ([]byte, error)
}

// ListImages returns every img_* volume's id and img.source, in
// store-enumeration order (spec.md §4.H).
func ListImages(store Store) ([]types.Image, error) {
	ids, err := store.List("img_")
	if err != nil {
		return nil, err
	}
	images := make([]types.Image, 0, len(ids))
	for _, id := range ids {
		source, err := store.ReadMeta(id, "img.source")
		if err != nil {
			return nil, fmt.Errorf("%w: %s is missing img.source: %v", types.ErrStoreFailure, id, err)
		}
		images = append(images, types.Image{
			ID:        id,
			Source:    string(source),
			CreatedAt: modTime(store.Path(id)),
		})
	}
	return images, nil
}

// ListContainers returns every ps_* volume's id and verbatim command,
// in store-enumeration order (spec.md §4.H).
func ListContainers(store Store) ([]types.Container, error) {
	ids, err := store.List("ps_")
	if err != nil {
		return nil, err
	}
	containers := make([]types.Container, 0, len(ids))
	for _, id := range ids {
		command, err := store.ReadMeta(id, id+".cmd")
		if err != nil {
			return nil, fmt.Errorf("%w: %s is missing %s.cmd: %v", types.ErrStoreFailure, id, id, err)
		}
		containers = append(containers, types.Container{
			ID:        id,
			Command:   string(command),
			CreatedAt: modTime(store.Path(id)),
			PID:       runningPID(store, id),
		})
	}
	return containers, nil
}

// Logs returns the verbatim contents of containerID's stored log.
// Missing volumes surface as ErrNoSuchEntity, a present volume with no
// log yet as ErrNoLog (both via store.ReadMeta).
func Logs(store Store, containerID string) ([]byte, error) {
	return store.ReadMeta(containerID, containerID+".log")
}

// modTime returns path's modification time, or the zero time if it
// can't be statted.
func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// runningPID reads id's recorded pid and confirms /proc/<pid> still
// resolves to a live process, returning 0 otherwise.
func runningPID(store Store, id string) int {
	data, err := store.ReadMeta(id, id+".pid")
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0
	}
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		return 0
	}
	return pid
}
