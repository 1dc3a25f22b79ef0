package repositories

import (
	"bytes"
	"testing"
)

func TestMemorySnapshotStoreRoundTrip(t *testing.T) {
	store := NewMemorySnapshotStore()

	if _, ok, err := store.Get(SnapshotKeyCartItems); err != nil || ok {
		t.Fatalf("Get on empty store = ok=%v err=%v, want miss", ok, err)
	}

	payload := []byte(`[{"id":"item-1","quantity":2}]`)
	if err := store.Set(SnapshotKeyCartItems, payload); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := store.Get(SnapshotKeyCartItems)
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v, want hit", ok, err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Get = %s, want %s", got, payload)
	}

	// Mutating the returned slice must not corrupt the stored copy.
	got[0] = 'X'
	again, _, _ := store.Get(SnapshotKeyCartItems)
	if !bytes.Equal(again, payload) {
		t.Fatalf("stored snapshot mutated through returned slice")
	}

	if err := store.Delete(SnapshotKeyCartItems); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(SnapshotKeyCartItems); ok {
		t.Fatalf("Get after Delete reported a hit")
	}
}

func TestFileSnapshotStoreRoundTrip(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSnapshotStore: %v", err)
	}

	if _, ok, err := store.Get(SnapshotKeySelectedLocation); err != nil || ok {
		t.Fatalf("Get on empty store = ok=%v err=%v, want miss", ok, err)
	}

	payload := []byte(`{"id":"loc-1","name":"Downtown"}`)
	if err := store.Set(SnapshotKeySelectedLocation, payload); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := store.Get(SnapshotKeySelectedLocation)
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v, want hit", ok, err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Get = %s, want %s", got, payload)
	}

	// Overwrite replaces the previous snapshot.
	updated := []byte(`{"id":"loc-2","name":"Uptown"}`)
	if err := store.Set(SnapshotKeySelectedLocation, updated); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _, _ = store.Get(SnapshotKeySelectedLocation)
	if !bytes.Equal(got, updated) {
		t.Fatalf("Get after overwrite = %s, want %s", got, updated)
	}

	if err := store.Delete(SnapshotKeySelectedLocation); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(SnapshotKeySelectedLocation); err != nil {
		t.Fatalf("Delete of absent key: %v", err)
	}
}

func TestFileSnapshotStoreRejectsPathKeys(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSnapshotStore: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b", `a\b`} {
		if err := store.Set(key, []byte("x")); err == nil {
			t.Fatalf("Set(%q) accepted an invalid key", key)
		}
	}
}
