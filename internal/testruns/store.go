package testruns

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the most recent upload at a fixed path
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a store writing to path, creating its directory
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the file the store writes to
func (s *Store) Path() string {
	return s.path
}

// Save validates raw and replaces the stored data with it, returning the
// record count. Invalid input leaves the existing file untouched.
func (s *Store) Save(raw []byte) (int, error) {
	runs, err := ParseUpload(raw)
	if err != nil {
		return 0, err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, trimDocument(raw), "", "  "); err != nil {
		return 0, fmt.Errorf("failed to format data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".test-results-*.json")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(pretty.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return len(runs), nil
}

// Load returns the stored runs. A missing or unreadable file is an empty
// data set, not an error.
func (s *Store) Load() ([]TestRun, error) {
	raw, err := s.LoadRaw()
	if err != nil {
		return nil, err
	}
	runs, err := ParseUpload(raw)
	if err != nil {
		return []TestRun{}, nil
	}
	return runs, nil
}

// LoadRaw returns the stored array verbatim, or [] when nothing is stored
func (s *Store) LoadRaw() (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return json.RawMessage("[]"), nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	if _, err := ParseUpload(data); err != nil {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(trimDocument(data)), nil
}

// Clear removes the stored data
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove data file: %w", err)
	}
	return nil
}
