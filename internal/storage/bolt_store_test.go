package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	store, err := openBolt(filepath.Join(t.TempDir(), "state", "items.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreMarksItemsPerTarget(t *testing.T) {
	store := openTestStore(t, Options{})

	seen, err := store.SeenItem("reviews", "id1")
	if err != nil || seen {
		t.Fatalf("expected unseen item, seen=%v err=%v", seen, err)
	}

	if err := store.MarkItem("reviews", "id1"); err != nil {
		t.Fatalf("MarkItem: %v", err)
	}

	seen, err = store.SeenItem("reviews", "id1")
	if err != nil || !seen {
		t.Fatalf("expected item marked as seen, got seen=%v err=%v", seen, err)
	}

	seen, err = store.SeenItem("hotlist", "id1")
	if err != nil || seen {
		t.Fatalf("expected other target to be independent, seen=%v err=%v", seen, err)
	}
}

func TestBoltStoreExpiresItems(t *testing.T) {
	store := openTestStore(t, Options{ItemTTL: time.Minute, CleanupInterval: time.Hour})
	clock := time.Now()
	store.now = func() time.Time { return clock }

	if err := store.MarkItem("t", "id1"); err != nil {
		t.Fatalf("MarkItem: %v", err)
	}

	clock = clock.Add(2 * time.Minute)
	seen, err := store.SeenItem("t", "id1")
	if err != nil {
		t.Fatalf("SeenItem after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
}

func TestBoltStoreCleanupDropsEmptyTargets(t *testing.T) {
	store := openTestStore(t, Options{ItemTTL: time.Minute, CleanupInterval: time.Hour})
	clock := time.Now()
	store.now = func() time.Time { return clock }

	if err := store.MarkItem("old", "id1"); err != nil {
		t.Fatalf("MarkItem: %v", err)
	}

	clock = clock.Add(2 * time.Hour)
	if err := store.MarkItem("fresh", "id2"); err != nil {
		t.Fatalf("MarkItem: %v", err)
	}

	err := store.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(itemsBucket))
		if root.Bucket([]byte("old")) != nil {
			t.Errorf("expected expired target bucket to be removed")
		}
		if root.Bucket([]byte("fresh")) == nil {
			t.Errorf("expected fresh target bucket to remain")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestBoltStoreRejectsEmptyIDs(t *testing.T) {
	store := openTestStore(t, Options{})
	if err := store.MarkItem("", "id"); err == nil {
		t.Fatalf("expected error for empty target id")
	}
}

func TestNewStore(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkItem("t", "x"); err != nil {
		t.Fatalf("noop store MarkItem: %v", err)
	}
	if seen, _ := store.SeenItem("t", "x"); seen {
		t.Fatalf("noop store should never report seen")
	}

	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}

	bs, err := NewStore("BBolt", filepath.Join(t.TempDir(), "items.db"), Options{})
	if err != nil {
		t.Fatalf("NewStore bbolt: %v", err)
	}
	defer bs.Close()
}
