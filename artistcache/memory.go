package artistcache

import (
	"sort"
	"sync"
)

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string][]string{}}
}

func (s *MemoryStore) GetArtistGenres(key string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	genres, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return clone(genres), true, nil
}

func (s *MemoryStore) PutArtistGenres(key, name string, genres []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = clone(genres)
	return nil
}

// EachArtistGenres enumerates entries sorted by key.
func (s *MemoryStore) EachArtistGenres(fn func(key string, genres []string) error) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	entries := make(map[string][]string, len(keys))
	for _, key := range keys {
		entries[key] = clone(s.entries[key])
	}
	s.mu.Unlock()

	sort.Strings(keys)
	for _, key := range keys {
		if err := fn(key, entries[key]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
