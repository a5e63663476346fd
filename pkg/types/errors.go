package types

import "errors"

// Sentinel errors for the taxonomy every bocker command surfaces
// failures through. Call sites wrap these with fmt.Errorf's %w to add
// context; the CLI prints the wrapped error and exits 1 for any of them.
var (
	// ErrUsage signals missing or invalid CLI arguments.
	ErrUsage = errors.New("usage error")

	// ErrNoSuchEntity signals an id absent from the store.
	ErrNoSuchEntity = errors.New("no such image or container")

	// ErrIDCollision signals a generated id stayed taken past the retry bound.
	ErrIDCollision = errors.New("id collision")

	// ErrStoreFailure signals an underlying volume operation failed.
	ErrStoreFailure = errors.New("store failure")

	// ErrAcquisitionFailure signals a network/HTTP error during pull.
	ErrAcquisitionFailure = errors.New("image acquisition failed")

	// ErrMalformedImage signals a missing manifest, missing layer, or corrupt archive.
	ErrMalformedImage = errors.New("malformed image")

	// ErrNetworkSetupFailure signals a veth/bridge/netns step failed.
	ErrNetworkSetupFailure = errors.New("network setup failed")

	// ErrCgroupFailure signals a cgroup create/set/exec step failed.
	ErrCgroupFailure = errors.New("cgroup failure")

	// ErrNotRunning signals exec-into could not locate the contained pid.
	ErrNotRunning = errors.New("container is not running")

	// ErrNoLog signals a container exists but has no log file yet.
	ErrNoLog = errors.New("no log available")
)
