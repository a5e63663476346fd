package sandbox

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/creack/pty"

	"github.com/kanelabs/bocker/pkg/identity"
	"github.com/kanelabs/bocker/pkg/log"
	"github.com/kanelabs/bocker/pkg/types"
)

// childSubcommand is the hidden argv[1] the Launcher re-execs itself
// with; cmd/bocker dispatches it to RunInit before cobra ever sees it.
const childSubcommand = "__init__"

// Store is the subset of *store.Store the Launcher needs.
type Store interface {
	identity.Existence
	SnapshotVolume(srcID, dstID string) error
	DeleteVolume(id string) error
	Path(id string, elem ...string) string
	WriteMeta(id, relPath string, data []byte) error
}

// Cgroup is the subset of *cgroup.Manager the Launcher needs.
type Cgroup interface {
	Attach(id string) error
	AddProcess(id string, pid int) error
	Detach(id string) error
}

// Network is the subset of *network.Manager the Launcher needs.
type Network interface {
	Setup(id string) error
	Teardown(id string) error
}

// Launcher is the Sandbox Launcher of spec.md §4.G: it snapshots an
// image, acquires network and cgroup context, forks a process nested
// in nested isolation primitives, and tears everything back down when
// that process exits.
type Launcher struct {
	Store   Store
	Cgroup  Cgroup
	Network Network

	// UserNamespace additionally unshares a user namespace for the
	// contained process, mapping container root to the caller's own
	// uid/gid. Off by default, matching the runtime this is modeled
	// on, which never passed -U to unshare.
	UserNamespace bool
}

// Run is the full contract of spec.md §4.G: generate a container id,
// snapshot imageID into it, acquire network then cgroup, fork the
// nested child, tee its output to the container's log while also
// surfacing it live, and tear down network state once the child
// exits. Every step's resources are released in reverse on any
// earlier failure.
//
// When interactive is true the child's controlling terminal is a pty
// instead of the Launcher's inherited stdout/stderr, and the caller's
// own stdin is pumped into it, matching a foreground `docker run -it`.
func (l *Launcher) Run(imageID, command string, interactive bool) (*types.Container, error) {
	if len(bytes.TrimSpace([]byte(command))) == 0 {
		return nil, fmt.Errorf("%w: command cannot be empty", types.ErrUsage)
	}
	if !l.Store.Exists(imageID) {
		return nil, fmt.Errorf("%w: image %s", types.ErrNoSuchEntity, imageID)
	}

	containerID, err := identity.NewID(l.Store, "ps_")
	if err != nil {
		return nil, err
	}
	logger := log.WithContainerID(containerID)

	if err := l.Store.SnapshotVolume(imageID, containerID); err != nil {
		return nil, err
	}

	if err := l.Store.WriteMeta(containerID, "etc/resolv.conf", []byte("nameserver 8.8.8.8\n")); err != nil {
		l.Store.DeleteVolume(containerID)
		return nil, err
	}
	if err := l.Store.WriteMeta(containerID, containerID+".cmd", []byte(command)); err != nil {
		l.Store.DeleteVolume(containerID)
		return nil, err
	}

	if err := l.Network.Setup(containerID); err != nil {
		l.Store.DeleteVolume(containerID)
		return nil, err
	}

	if err := l.Cgroup.Attach(containerID); err != nil {
		l.Network.Teardown(containerID)
		l.Store.DeleteVolume(containerID)
		return nil, err
	}

	pid, waitErr := l.fork(containerID, command, interactive)
	if pid == 0 {
		l.Cgroup.Detach(containerID)
		l.Network.Teardown(containerID)
		l.Store.DeleteVolume(containerID)
		return nil, waitErr
	}

	l.Store.WriteMeta(containerID, containerID+".pid", []byte("0"))

	if err := l.Network.Teardown(containerID); err != nil {
		logger.Warn().Err(err).Msg("network teardown failed")
	}

	if waitErr != nil {
		logger.Info().Err(waitErr).Msg("container command exited non-zero")
	}

	return &types.Container{
		ID:      containerID,
		ImageID: imageID,
		Command: command,
	}, nil
}

// fork starts the re-exec'd child for containerID, blocks it on a
// synchronization pipe until it has joined the container cgroup,
// tees its output to the container log and to the Launcher's own
// stdout (or, if interactive, to a pty wired to the caller's own
// terminal), and waits for it to exit. It returns the child's pid (0
// if it never started) and the command's exit error, if any.
func (l *Launcher) fork(containerID, command string, interactive bool) (int, error) {
	logger := log.WithContainerID(containerID)

	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("%w: resolve self: %v", types.ErrCgroupFailure, err)
	}

	syncReader, syncWriter, err := os.Pipe()
	if err != nil {
		return 0, fmt.Errorf("%w: sync pipe: %v", types.ErrCgroupFailure, err)
	}
	defer syncReader.Close()

	logPath := l.Store.Path(containerID, containerID+".log")
	logFile, err := os.Create(logPath)
	if err != nil {
		syncWriter.Close()
		return 0, fmt.Errorf("%w: create log %s: %v", types.ErrStoreFailure, logPath, err)
	}
	defer logFile.Close()

	cmd := exec.Command(exe, childSubcommand, containerID, l.Store.Path(containerID), command)
	cmd.ExtraFiles = []*os.File{syncReader}

	cloneflags := uintptr(syscall.CLONE_NEWNS | syscall.CLONE_NEWUTS | syscall.CLONE_NEWIPC | syscall.CLONE_NEWPID)
	attr := &syscall.SysProcAttr{Cloneflags: cloneflags}
	if l.UserNamespace {
		attr.Cloneflags |= syscall.CLONE_NEWUSER
		attr.UidMappings = []syscall.SysProcIDMap{{ContainerID: 0, HostID: os.Getuid(), Size: 1}}
		attr.GidMappings = []syscall.SysProcIDMap{{ContainerID: 0, HostID: os.Getgid(), Size: 1}}
	}

	if interactive {
		ptmx, tty, err := pty.Open()
		if err != nil {
			syncWriter.Close()
			return 0, fmt.Errorf("%w: open pty: %v", types.ErrCgroupFailure, err)
		}
		defer ptmx.Close()

		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
		attr.Setctty = true
		attr.Setsid = true
		cmd.SysProcAttr = attr

		if err := cmd.Start(); err != nil {
			tty.Close()
			syncWriter.Close()
			return 0, fmt.Errorf("%w: start container pty process: %v", types.ErrCgroupFailure, err)
		}
		tty.Close()

		go io.Copy(io.MultiWriter(logFile, os.Stdout), ptmx)
		go io.Copy(ptmx, os.Stdin)
	} else {
		cmd.Stdout = io.MultiWriter(logFile, os.Stdout)
		cmd.Stderr = io.MultiWriter(logFile, os.Stderr)
		cmd.SysProcAttr = attr
		if err := cmd.Start(); err != nil {
			syncWriter.Close()
			return 0, fmt.Errorf("%w: start container process: %v", types.ErrCgroupFailure, err)
		}
	}

	pid := cmd.Process.Pid
	l.Store.WriteMeta(containerID, containerID+".pid", []byte(strconv.Itoa(pid)))

	if err := l.Cgroup.AddProcess(containerID, pid); err != nil {
		syncWriter.Close()
		cmd.Process.Kill()
		cmd.Wait()
		return 0, err
	}

	// Signal the child: cgroup membership is established, proceed
	// past its synchronization read.
	syncWriter.Write([]byte{1})
	syncWriter.Close()

	logger.Info().Int("pid", pid).Msg("container running")
	waitErr := cmd.Wait()
	return pid, waitErr
}
