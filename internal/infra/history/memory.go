package history

import (
	"sync"

	domain "github.com/bryanwahyu/acne-dermatologist/internal/domain/history"
)

// MemoryStore keeps records for one session in insertion order.
// Nothing is evicted; the store lives as long as its session.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds r at the end.
func (s *MemoryStore) Append(r domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// List returns records most recent first. The slice is a copy.
func (s *MemoryStore) List() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, s.records[i])
	}
	return out
}

func (s *MemoryStore) Get(id domain.RecordID) (domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Record{}, false
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
