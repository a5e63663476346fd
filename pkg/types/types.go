package types

import "time"

// Image is a named, immutable-by-convention root filesystem captured
// as a CoW volume. ID has the form "img_<n>".
type Image struct {
	ID        string
	Source    string // "name:tag" for a pulled image, or a directory path for an import
	CreatedAt time.Time
}

// Container is a CoW clone of an image plus transient kernel isolation
// context and captured output. ID has the form "ps_<n>".
type Container struct {
	ID        string
	ImageID   string
	Command   string // verbatim command line, as given to `run`
	CreatedAt time.Time

	// PID is the process id of the re-exec'd init process inside the
	// container's namespaces, as seen from the host PID namespace.
	// Zero once the container has stopped.
	PID int
}

// Running reports whether the container's init process is still
// recorded as alive. Callers should treat this as a hint, not a
// guarantee — the authoritative check is whether /proc/<PID> still
// resolves to the same process (see pkg/sandbox).
func (c *Container) Running() bool {
	return c.PID != 0
}
