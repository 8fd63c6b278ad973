package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/umbrella-alerts/umbrella/internal/forecast"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no forecast data for location")
)

// MemoryStore is a concurrency-safe in-memory store of the latest forecast
// document per location key. The ops API reads it concurrently with runs.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: latest fetched document
	data map[string]*forecast.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*forecast.Document),
	}
}

// Save replaces the latest document for a location.
func (s *MemoryStore) Save(key string, doc *forecast.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = doc
}

// Latest returns the most recent document for a location.
func (s *MemoryStore) Latest(key string) (*forecast.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Keys lists all location keys with stored data, sorted for stable output.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
