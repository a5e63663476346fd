package store

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// btrfs ioctl ABI constants. These mirror linux/btrfs.h and
// linux/btrfs_tree.h; a cgo build can pull them straight from the
// kernel headers (see the vendored driver this package is grounded
// on), but bocker avoids cgo here so the store package cross-compiles
// like the rest of the module.
const (
	btrfsIoctlMagic    = 0x94
	btrfsPathNameMax   = 4087
	btrfsSubvolNameMax = 4039

	btrfsIocSubvolCreateNR = 14
	btrfsIocSnapDestroyNR  = 15
	btrfsIocSnapCreateV2NR = 23
)

type btrfsIoctlVolArgs struct {
	fd   int64
	name [btrfsPathNameMax + 1]byte
}

type btrfsIoctlVolArgsV2 struct {
	fd      int64
	transid uint64
	flags   uint64
	unused  [4]uint64
	name    [btrfsSubvolNameMax + 1]byte
}

// iow computes the ioctl request number Linux's _IOW macro would
// produce for a btrfs ioctl with the given struct size.
func iow(nr uint, size uintptr) uintptr {
	const iocWrite = 1
	return (iocWrite << 30) | (size&0x3fff)<<16 | uintptr(btrfsIoctlMagic)<<8 | uintptr(nr)
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// isUnsupportedFS reports whether an ioctl failure means "this isn't
// a btrfs filesystem", as opposed to a real error worth surfacing.
func isUnsupportedFS(err error) bool {
	switch err {
	case unix.ENOTTY, unix.EOPNOTSUPP, unix.ENOSYS, unix.EINVAL:
		return true
	default:
		return false
	}
}

func openDir(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDONLY|unix.O_DIRECTORY, 0)
}

// btrfsSubvolCreate issues BTRFS_IOC_SUBVOL_CREATE against the store
// root to create a new subvolume named id.
func btrfsSubvolCreate(root, id string) error {
	dir, err := openDir(root)
	if err != nil {
		return err
	}
	defer dir.Close()

	var args btrfsIoctlVolArgs
	if len(id) > btrfsPathNameMax {
		return fmt.Errorf("subvolume name too long: %s", id)
	}
	copy(args.name[:], id)

	req := iow(btrfsIocSubvolCreateNR, unsafe.Sizeof(args))
	return ioctl(int(dir.Fd()), req, unsafe.Pointer(&args))
}

// btrfsSnapshot issues BTRFS_IOC_SNAP_CREATE_V2 to create dst as a
// writable snapshot of src. Both paths must share a btrfs filesystem.
func btrfsSnapshot(src, dst string) error {
	srcDir, err := openDir(src)
	if err != nil {
		return err
	}
	defer srcDir.Close()

	dstParent, name := filepath.Split(dst)
	if dstParent == "" {
		dstParent = "."
	}
	dstDir, err := openDir(dstParent)
	if err != nil {
		return err
	}
	defer dstDir.Close()

	var args btrfsIoctlVolArgsV2
	if len(name) > btrfsSubvolNameMax {
		return fmt.Errorf("subvolume name too long: %s", name)
	}
	args.fd = int64(srcDir.Fd())
	copy(args.name[:], name)

	req := iow(btrfsIocSnapCreateV2NR, unsafe.Sizeof(args))
	return ioctl(int(dstDir.Fd()), req, unsafe.Pointer(&args))
}

// btrfsSubvolDelete issues BTRFS_IOC_SNAP_DESTROY to remove the
// subvolume named id from root.
func btrfsSubvolDelete(root, id string) error {
	dir, err := openDir(root)
	if err != nil {
		return err
	}
	defer dir.Close()

	var args btrfsIoctlVolArgs
	if len(id) > btrfsPathNameMax {
		return fmt.Errorf("subvolume name too long: %s", id)
	}
	copy(args.name[:], id)

	req := iow(btrfsIocSnapDestroyNR, unsafe.Sizeof(args))
	return ioctl(int(dir.Fd()), req, unsafe.Pointer(&args))
}

// subvolCreate creates a new volume named id under root, preferring a
// real btrfs subvolume and falling back to a plain directory when the
// store root isn't backed by btrfs.
func subvolCreate(root, id string) error {
	if err := btrfsSubvolCreate(root, id); err != nil {
		if !isUnsupportedFS(err) {
			return err
		}
		return os.Mkdir(filepath.Join(root, id), 0o755)
	}
	return nil
}

// subvolDelete removes the volume named id from root, preferring the
// btrfs subvolume destroy ioctl and falling back to a recursive
// directory removal.
func subvolDelete(root, id string) error {
	if err := btrfsSubvolDelete(root, id); err != nil {
		if !isUnsupportedFS(err) {
			return err
		}
		return os.RemoveAll(filepath.Join(root, id))
	}
	return nil
}

// snapshot creates dst as a CoW clone of src, preferring a real btrfs
// snapshot and falling back to the per-file reflink-or-copy walk in
// reflink.go.
func snapshot(src, dst string) error {
	if err := btrfsSnapshot(src, dst); err != nil {
		if !isUnsupportedFS(err) {
			return err
		}
		return reflinkTree(src, dst)
	}
	return nil
}
