package sandbox

import (
	"fmt"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/kanelabs/bocker/pkg/network"
)

// syncFD is the file descriptor of the synchronization pipe's read
// end, inherited via cmd.ExtraFiles (fd 3, right after stdin/stdout/
// stderr).
const syncFD = 3

// RunInit is the entry point for the hidden "__init__" re-exec
// cmd/bocker dispatches to before cobra parses argv. It is already
// running inside fresh mount/UTS/IPC/PID namespaces -- established by
// the Cloneflags the parent passed to the clone(2) that created this
// process -- and must, in order:
//
//  1. block until the parent confirms this pid is a cgroup member,
//  2. join the container's network namespace,
//  3. make its mount namespace private and set its UTS hostname,
//  4. chroot into the container volume,
//  5. mount /proc and exec the user's command under /bin/sh.
//
// It never returns on success: the final step replaces this process
// image via exec. args is [containerID, rootfsPath, command].
func RunInit(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("__init__ expects containerID, rootfsPath, command")
	}
	containerID, rootfs, command := args[0], args[1], args[2]

	// setns(2) into the container's netns only affects the calling OS
	// thread; everything from here through the final exec must stay
	// on that same thread, or the Go scheduler could run the exec on
	// a thread still sitting in the host netns. Never unlocked: this
	// process only ever execs or exits from here on.
	runtime.LockOSThread()

	if err := waitForCgroup(); err != nil {
		return err
	}

	if err := joinNetns(containerID); err != nil {
		return err
	}

	if err := unix.Mount("", "/", "", unix.MS_PRIVATE|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("make mounts private: %w", err)
	}

	if err := unix.Sethostname([]byte(containerID)); err != nil {
		return fmt.Errorf("set hostname: %w", err)
	}

	if err := os.Chdir(rootfs); err != nil {
		return fmt.Errorf("chdir to rootfs %s: %w", rootfs, err)
	}
	if err := unix.Chroot("."); err != nil {
		return fmt.Errorf("chroot %s: %w", rootfs, err)
	}
	if err := os.Chdir("/"); err != nil {
		return fmt.Errorf("chdir to new root: %w", err)
	}

	if err := os.MkdirAll("/proc", 0o555); err != nil {
		return fmt.Errorf("mkdir /proc: %w", err)
	}
	if err := unix.Mount("proc", "/proc", "proc", 0, ""); err != nil {
		return fmt.Errorf("mount proc: %w", err)
	}

	env := []string{"HOME=/root", "USER=root", "PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"}
	return syscall.Exec("/bin/sh", []string{"/bin/sh", "-c", command}, env)
}

// waitForCgroup blocks on the inherited synchronization pipe until the
// parent has written this process's pid into the container cgroup.
func waitForCgroup() error {
	f := os.NewFile(syncFD, "bocker-sync")
	defer f.Close()
	var buf [1]byte
	if _, err := f.Read(buf[:]); err != nil {
		return fmt.Errorf("wait for cgroup membership: %w", err)
	}
	return nil
}

// joinNetns setns(2)'s into the network namespace the parent's
// Network Manager already created for containerID.
func joinNetns(containerID string) error {
	path := network.NSPath(containerID)
	fd, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open netns %s: %w", path, err)
	}
	defer fd.Close()

	if err := unix.Setns(int(fd.Fd()), unix.CLONE_NEWNET); err != nil {
		return fmt.Errorf("setns into %s: %w", path, err)
	}
	return nil
}
