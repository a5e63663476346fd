/*
Package store implements bocker's on-disk layout: a single directory
holding every image and container volume as an immediate child, plus
the small per-entity metadata files (img.source, <id>.cmd, <id>.log,
<id>.pid) that live inside each volume.

# Architecture

	┌─────────────────────── STORE ROOT ────────────────────────┐
	│  /var/bocker/                                              │
	│    img_17/            img.source                           │
	│    img_42/             img.source                          │
	│    ps_3/               ps_3.cmd  ps_3.log  ps_3.pid        │
	│    .bocker-network.db  (suffix allocation ledger)           │
	│    .bocker.lock        (advisory flock for mutating cmds)   │
	└──────────────────────────────────────────────────────────┘

Every image/container volume is a first-class CoW snapshot source:
cloning one is supposed to be O(1) in time and space. Two backends
realize that contract:

  - btrfs.go: issues BTRFS_IOC_SUBVOL_CREATE / BTRFS_IOC_SNAP_CREATE_V2
    / BTRFS_IOC_SNAP_DESTROY ioctls directly against directory file
    descriptors. This is the fast path and the one a production
    deployment is expected to use.
  - reflink.go: falls back to FICLONE-per-file (still O(1) per file on
    XFS/btrfs reflink-capable filesystems) and finally to a plain
    recursive copy when neither subvolumes nor reflinks are available.
    The observable contract — snapshot preserves contents and is
    independent afterward — holds either way; only the performance
    characteristics differ.

Listing (§4.H in the spec this package realizes) is a directory glob
over the store root for `img_*` / `ps_*` — the filesystem layout *is*
the database, isolated behind this package so nothing above it needs
to know that.
*/
package store
