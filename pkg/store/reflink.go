package store

import (
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// reflinkTree recreates src at dst, reflinking every regular file via
// FICLONE when the underlying filesystem supports it (XFS, btrfs
// without subvolumes, overlayfs on either) and falling back to a
// plain byte copy file-by-file otherwise. Symlinks are recreated as
// symlinks; directories are recreated with the source's mode.
func reflinkTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			return os.MkdirAll(target, info.Mode())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return reflinkOrCopyFile(path, target, info.Mode())
		}
	})
}

// reflinkOrCopyFile reflinks src onto dst via FICLONE, falling back
// to a plain io.Copy when the kernel or filesystem doesn't support
// reflinking the given pair of files.
func reflinkOrCopyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := unix.IoctlFileClone(int(out.Fd()), int(in.Fd())); err == nil {
		return nil
	}

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	return err
}
