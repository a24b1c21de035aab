package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Layout: items/<target id>/<item id> = big-endian unix expiry.
const (
	itemsBucket      = "items"
	expiryValueBytes = 8
)

var errItemsBucketMissing = errors.New("items bucket missing")

type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	itemTTL         time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(itemsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		itemTTL:         opts.ItemTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenItem reports whether the item was marked for the target and has not expired.
// Expired entries are deleted on read.
func (b *boltStore) SeenItem(targetID, itemID string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var seen bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(itemsBucket))
		if root == nil {
			return errItemsBucketMissing
		}
		bucket := root.Bucket([]byte(targetID))
		if bucket == nil {
			return nil
		}

		key := []byte(itemID)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}
		if expiry, ok := decodeExpiry(value); ok && expiry.After(now) {
			seen = true
			return nil
		}
		return bucket.Delete(key)
	})
	return seen, err
}

// MarkItem remembers the item for the target until the configured TTL passes.
func (b *boltStore) MarkItem(targetID, itemID string) error {
	if b == nil || b.db == nil {
		return nil
	}
	if targetID == "" || itemID == "" {
		return fmt.Errorf("mark item: target id and item id are required")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(itemsBucket))
		if root == nil {
			return errItemsBucketMissing
		}
		bucket, err := root.CreateBucketIfNotExists([]byte(targetID))
		if err != nil {
			return fmt.Errorf("target bucket %q: %w", targetID, err)
		}
		return bucket.Put([]byte(itemID), encodeExpiry(now.Add(b.itemTTL)))
	})
}

// maybeCleanupExpired sweeps every target bucket at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(itemsBucket))
		if root == nil {
			return errItemsBucketMissing
		}

		var empty [][]byte
		err := root.ForEachBucket(func(name []byte) error {
			bucket := root.Bucket(name)
			cursor := bucket.Cursor()
			for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
				if expiry, ok := decodeExpiry(v); !ok || !expiry.After(now) {
					if err := cursor.Delete(); err != nil {
						return err
					}
				}
			}
			if k, _ := bucket.Cursor().First(); k == nil {
				empty = append(empty, append([]byte(nil), name...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, name := range empty {
			if err := root.DeleteBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
