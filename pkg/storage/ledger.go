package storage

import (
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kanelabs/bocker/pkg/types"
)

const (
	minSuffix = 2
	maxSuffix = 254
)

var (
	bucketByID     = []byte("by_id")
	bucketBySuffix = []byte("by_suffix")
)

// Ledger is a BoltDB-backed allocation table mapping container ids to
// the numeric suffix used in both their IP (10.0.0.<suffix>) and MAC
// (02:42:ac:11:00<suffix>) addresses.
type Ledger struct {
	db *bolt.DB
}

// OpenLedger opens (creating if needed) the suffix ledger at
// <dataDir>/.bocker-network.db.
func OpenLedger(dataDir string) (*Ledger, error) {
	path := filepath.Join(dataDir, ".bocker-network.db")

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", types.ErrNetworkSetupFailure, path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketByID, bucketBySuffix} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", types.ErrNetworkSetupFailure, err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Allocate returns the suffix already held by id, or hands out the
// lowest free suffix in [minSuffix, maxSuffix] and records it.
func (l *Ledger) Allocate(id string) (byte, error) {
	var suffix byte
	err := l.db.Update(func(tx *bolt.Tx) error {
		byID := tx.Bucket(bucketByID)
		bySuffix := tx.Bucket(bucketBySuffix)

		if existing := byID.Get([]byte(id)); existing != nil {
			suffix = existing[0]
			return nil
		}

		for candidate := minSuffix; candidate <= maxSuffix; candidate++ {
			key := []byte{byte(candidate)}
			if bySuffix.Get(key) != nil {
				continue
			}
			if err := byID.Put([]byte(id), key); err != nil {
				return err
			}
			if err := bySuffix.Put(key, []byte(id)); err != nil {
				return err
			}
			suffix = byte(candidate)
			return nil
		}
		return fmt.Errorf("no free suffix in [%d, %d]", minSuffix, maxSuffix)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: allocate suffix for %s: %v", types.ErrNetworkSetupFailure, id, err)
	}
	return suffix, nil
}

// Release frees id's suffix, if it holds one. Releasing an id with no
// allocation is a no-op.
func (l *Ledger) Release(id string) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		byID := tx.Bucket(bucketByID)
		bySuffix := tx.Bucket(bucketBySuffix)

		suffix := byID.Get([]byte(id))
		if suffix == nil {
			return nil
		}
		if err := bySuffix.Delete(suffix); err != nil {
			return err
		}
		return byID.Delete([]byte(id))
	})
}

// Lookup returns the suffix currently held by id, if any.
func (l *Ledger) Lookup(id string) (suffix byte, ok bool, err error) {
	err = l.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketByID).Get([]byte(id))
		if v != nil {
			suffix = v[0]
			ok = true
		}
		return nil
	})
	return suffix, ok, err
}

// Count returns the number of suffixes currently allocated.
func (l *Ledger) Count() (int, error) {
	var n int
	err := l.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketByID).Stats().KeyN
		return nil
	})
	return n, err
}
