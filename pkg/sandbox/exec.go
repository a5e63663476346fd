package sandbox

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kanelabs/bocker/pkg/types"
)

// nsJoinOrder matches the order nsenter(1) itself applies: the
// namespaces that take effect immediately (mount, UTS, IPC, network)
// are joined first, then chroot happens inside that joined mount
// namespace, and the PID namespace -- which only affects processes
// forked afterward -- is joined last, right before spawning the
// requested command.
var nsJoinOrder = []string{"mnt", "uts", "ipc", "net"}

// Execer is the subset of *store.Store Exec-into needs.
type Execer interface {
	Exists(id string) bool
	Path(id string, elem ...string) string
	ReadMeta(id, relPath string) ([]byte, error)
}

// ExecInto joins the namespaces of containerID's running init process
// and chroots into its volume before running command there (spec.md
// §4.J). It fails with ErrNotRunning if no live pid is on record.
func ExecInto(store Execer, containerID, command string) error {
	if !store.Exists(containerID) {
		return fmt.Errorf("%w: %s", types.ErrNoSuchEntity, containerID)
	}

	pid, err := runningPID(store, containerID)
	if err != nil {
		return err
	}

	// setns(2) on mnt/uts/ipc/net only affects the calling OS thread,
	// not every thread the Go scheduler might later run this
	// goroutine on. Pin to one thread for the rest of this call so
	// the child forked below inherits the namespaces joined here.
	// Never unlocked: this process runs the follow-up command and
	// exits.
	runtime.LockOSThread()

	for _, ns := range nsJoinOrder {
		if err := joinNamespace(pid, ns); err != nil {
			return fmt.Errorf("%w: %v", types.ErrNotRunning, err)
		}
	}

	rootfs := store.Path(containerID)
	if err := unix.Chroot(rootfs); err != nil {
		return fmt.Errorf("%w: chroot %s: %v", types.ErrNotRunning, rootfs, err)
	}
	if err := os.Chdir("/"); err != nil {
		return fmt.Errorf("%w: chdir to new root: %v", types.ErrNotRunning, err)
	}

	// The PID namespace only takes effect for children forked after
	// this call, so it's joined last, immediately before spawning cmd.
	if err := joinNamespace(pid, "pid"); err != nil {
		return fmt.Errorf("%w: %v", types.ErrNotRunning, err)
	}

	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// runningPID reads containerID's recorded pid and confirms /proc/<pid>
// still resolves, returning ErrNotRunning otherwise.
func runningPID(store Execer, containerID string) (int, error) {
	data, err := store.ReadMeta(containerID, containerID+".pid")
	if err != nil {
		return 0, fmt.Errorf("%w: %s has no recorded pid", types.ErrNotRunning, containerID)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %s is not running", types.ErrNotRunning, containerID)
	}
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		return 0, fmt.Errorf("%w: %s is not running", types.ErrNotRunning, containerID)
	}
	return pid, nil
}

// joinNamespace setns(2)'s the calling process into pid's namespace
// of the given kind ("mnt", "uts", "ipc", "net", "pid").
func joinNamespace(pid int, kind string) error {
	path := fmt.Sprintf("/proc/%d/ns/%s", pid, kind)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	nsType, ok := nsCloneFlag[kind]
	if !ok {
		return fmt.Errorf("unknown namespace kind %q", kind)
	}
	if err := unix.Setns(int(f.Fd()), nsType); err != nil {
		return fmt.Errorf("setns %s: %w", path, err)
	}
	return nil
}

var nsCloneFlag = map[string]int{
	"mnt": unix.CLONE_NEWNS,
	"uts": unix.CLONE_NEWUTS,
	"ipc": unix.CLONE_NEWIPC,
	"net": unix.CLONE_NEWNET,
	"pid": unix.CLONE_NEWPID,
}
