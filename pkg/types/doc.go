/*
Package types defines the core data structures shared across bocker's
packages: the two persisted entities (Image, Container) and the error
taxonomy every other package surfaces failures through.

# Architecture

	┌────────────────────── DATA MODEL ─────────────────────────┐
	│                                                             │
	│   Image                         Container                  │
	│   ┌─────────────────┐           ┌─────────────────┐        │
	│   │ ID   img_<n>     │  clone    │ ID   ps_<n>      │       │
	│   │ Source (string)  │ ───────▶ │ ImageID          │       │
	│   │ Volume (CoW)      │          │ Command          │       │
	│   └─────────────────┘           │ Volume (CoW)     │       │
	│                                  │ PID (while up)   │       │
	│                                  └─────────────────┘        │
	└─────────────────────────────────────────────────────────────┘

Both entities are thin descriptions of on-disk state; pkg/store owns
the actual volumes and metadata files these structs describe. Neither
type carries a mutex — callers are expected to serialize mutating CLI
commands (see the store-root flock, pkg/store's Lock), not synchronize
in memory.

# Error taxonomy

Every fallible operation in bocker returns one of the sentinel errors
in errors.go, wrapped with call-specific context via fmt.Errorf's %w.
The CLI entrypoint prints that wrapped error to stderr and exits 1; it
does not branch on which sentinel it wraps (only an exec'd command
killed by SIGINT changes the exit code, to 130).
*/
package types
