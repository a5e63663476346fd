/*
Package cgroup manages the cgroup v1 hierarchy bocker attaches each
container to: one directory per configured controller at
/sys/fs/cgroup/<controller>/bocker/<id>, with cpu.shares and
memory.limit_in_bytes written to whichever controllers expose them.

Attach creates the hierarchy before the container's init process
exists; the caller is expected to write the child's pid into
cgroup.procs once it does (see pkg/sandbox, which does this from the
parent immediately post-fork so cgroup membership is established
before the child's first user-code instruction runs). Detach removes
the hierarchy and is best-effort: a cgroup that's already gone is not
an error.
*/
package cgroup
