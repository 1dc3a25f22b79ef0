package repositories

import "sync"

// MemorySnapshotStore keeps snapshots in process memory. Useful for tests
// and for running without a state directory.
type MemorySnapshotStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

var _ SnapshotStore = (*MemorySnapshotStore)(nil)

// NewMemorySnapshotStore constructs an empty in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{values: make(map[string][]byte)}
}

// Get implements SnapshotStore.
func (s *MemorySnapshotStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set implements SnapshotStore.
func (s *MemorySnapshotStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements SnapshotStore.
func (s *MemorySnapshotStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
