package cgroup

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kanelabs/bocker/pkg/log"
	"github.com/kanelabs/bocker/pkg/types"
)

const cgroupRoot = "/sys/fs/cgroup"

// Manager attaches containers to a cgroup v1 hierarchy spanning a
// configured set of controllers (e.g. "cpu", "cpuacct", "memory").
type Manager struct {
	controllers []string
	cpuShare    int
	memLimit    int64
}

// New returns a Manager over the given controllers, applying cpuShare
// (relative cpu.shares weight) and memLimit (memory.limit_in_bytes,
// in bytes) to whichever controllers expose those files.
func New(controllers []string, cpuShare int, memLimit int64) *Manager {
	return &Manager{controllers: controllers, cpuShare: cpuShare, memLimit: memLimit}
}

// dir returns /sys/fs/cgroup/<controller>/bocker/<id>.
func (m *Manager) dir(controller, id string) string {
	return filepath.Join(cgroupRoot, controller, "bocker", id)
}

// Attach creates one directory per controller for id and writes
// cpu.shares / memory.limit_in_bytes to whichever controllers expose
// those files. It does not add any process yet; call AddProcess once
// the target pid exists.
func (m *Manager) Attach(id string) error {
	logger := log.WithContainerID(id)
	created := make([]string, 0, len(m.controllers))

	for _, controller := range m.controllers {
		dir := m.dir(controller, id)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			m.unwind(created, id)
			return fmt.Errorf("%w: create cgroup dir %s: %v", types.ErrCgroupFailure, dir, err)
		}
		created = append(created, controller)

		switch controller {
		case "cpu":
			if err := writeLimit(dir, "cpu.shares", strconv.Itoa(m.cpuShare)); err != nil {
				m.unwind(created, id)
				return fmt.Errorf("%w: %v", types.ErrCgroupFailure, err)
			}
		case "memory":
			if err := writeLimit(dir, "memory.limit_in_bytes", strconv.FormatInt(m.memLimit, 10)); err != nil {
				m.unwind(created, id)
				return fmt.Errorf("%w: %v", types.ErrCgroupFailure, err)
			}
		}
	}

	logger.Info().Strs("controllers", m.controllers).Msg("cgroup attached")
	return nil
}

// AddProcess writes pid into every controller's cgroup.procs for id,
// joining that process (and any it subsequently forks) to the
// container's cgroup.
func (m *Manager) AddProcess(id string, pid int) error {
	for _, controller := range m.controllers {
		dir := m.dir(controller, id)
		if err := writeLimit(dir, "cgroup.procs", strconv.Itoa(pid)); err != nil {
			return fmt.Errorf("%w: join %s: %v", types.ErrCgroupFailure, controller, err)
		}
	}
	return nil
}

// Detach removes id's cgroup directories. A directory that's already
// gone is not an error.
func (m *Manager) Detach(id string) error {
	for _, controller := range m.controllers {
		dir := m.dir(controller, id)
		if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: remove %s: %v", types.ErrCgroupFailure, dir, err)
		}
	}
	return nil
}

// unwind removes the cgroup directories created so far, swallowing
// errors, to keep Attach's failure path from masking the original
// error with a cleanup error.
func (m *Manager) unwind(controllers []string, id string) {
	for _, controller := range controllers {
		os.Remove(m.dir(controller, id))
	}
}

func writeLimit(dir, file, value string) error {
	path := filepath.Join(dir, file)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
