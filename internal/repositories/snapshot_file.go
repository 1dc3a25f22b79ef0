package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSnapshotStore persists each key as its own JSON file under a state
// directory. Writes go through a temp file plus rename so a crash mid-write
// never leaves a torn snapshot.
type FileSnapshotStore struct {
	mu  sync.Mutex
	dir string
}

var _ SnapshotStore = (*FileSnapshotStore)(nil)

// NewFileSnapshotStore constructs a file-backed store rooted at dir,
// creating the directory when absent.
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("snapshot store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot store: create %s: %w", dir, err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

func (s *FileSnapshotStore) path(key string) (string, error) {
	cleaned := strings.TrimSpace(key)
	if cleaned == "" || strings.ContainsAny(cleaned, "/\\") {
		return "", fmt.Errorf("snapshot store: invalid key %q", key)
	}
	return filepath.Join(s.dir, cleaned+".json"), nil
}

// Get implements SnapshotStore.
func (s *FileSnapshotStore) Get(key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("snapshot store: read %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements SnapshotStore.
func (s *FileSnapshotStore) Set(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("snapshot store: temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("snapshot store: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot store: close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot store: commit %s: %w", key, err)
	}
	return nil
}

// Delete implements SnapshotStore.
func (s *FileSnapshotStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("snapshot store: delete %s: %w", key, err)
	}
	return nil
}
