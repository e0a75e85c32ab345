package conversation

import (
	"context"
	"sync"
)

// MemoryStore holds transcripts in process memory. Suitable for a single
// instance deployment and for tests.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	history  map[string][]Exchange
}

// NewMemoryStore builds an in-memory store with the given capacity per
// conversation (DefaultCapacity when non-positive).
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		history:  make(map[string][]Exchange),
	}
}

func (s *MemoryStore) Append(ctx context.Context, conversationID string, exchange Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.history[conversationID], exchange)
	if len(entries) > s.capacity {
		entries = entries[len(entries)-s.capacity:]
	}
	s.history[conversationID] = entries
	return nil
}

func (s *MemoryStore) History(ctx context.Context, conversationID string) ([]Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history[conversationID]
	out := make([]Exchange, len(entries))
	copy(out, entries)
	return out, nil
}
