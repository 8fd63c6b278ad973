package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/umbrella-alerts/umbrella/internal/forecast"
)

// FileStore persists the most recently fetched forecast document to a fixed
// path as indented JSON, fully overwritten on each save. It is a debugging
// aid, not load-bearing: callers log save failures and carry on.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save overwrites the cache file with the given document.
func (s *FileStore) Save(doc *forecast.Document) error {
	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode forecast document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Load reads the cache file back as a forecast document.
func (s *FileStore) Load() (*forecast.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc forecast.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &doc, nil
}
