/*
Package sandbox is the container lifecycle orchestrator: the Launcher
composes a cgroup, a network namespace, and a nested set of unshared
mount/UTS/IPC/PID namespaces around a chrooted process. The new
namespaces exist from the moment the child is cloned; the remaining
steps follow in this order:

	cgroup membership -> netns entry -> chroot -> proc mount -> shell -> user command

Unsharing therefore precedes cgroup membership and netns entry rather
than following them, and /proc is mounted by the child before it execs
the shell, not by the shell. Each step happens across a fork boundary: the parent (Launcher.Run)
acquires the snapshot, network, and cgroup, then re-execs itself as a
hidden "__init__" subcommand so the new process can be created with
CLONE_NEWNS|CLONE_NEWUTS|CLONE_NEWIPC|CLONE_NEWPID baked into the
clone(2) that spawns it -- the kernel only lets a process become PID 1
of a fresh PID namespace if that namespace was requested at the moment
it was created, not by unsharing after the fact. The child blocks on a
synchronization pipe until the parent has written its PID into the
container's cgroup, so cgroup membership is established before any
user-visible instruction runs; it then joins the container's network
namespace, privatizes its mount propagation, chroots, mounts /proc, and
execs the user's command under /bin/sh.

ExecInto (spec.md §4.J) runs the same chroot under a different
boundary: it joins the mount/UTS/IPC/net namespaces of an
already-running container's init process directly (those take effect
immediately on setns), then joins its PID namespace (which only takes
effect for processes forked afterward) before spawning the requested
command, mirroring how nsenter(1) itself is implemented.
*/
package sandbox
