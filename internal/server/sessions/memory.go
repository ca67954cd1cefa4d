package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
)

type memoryEntry struct {
	userID  int64
	expires time.Time
}

// MemoryStore is a process-local Store. Expired entries are dropped when read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{userID: userID}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.entries[token] = e
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return 0, common.ErrorNotFound
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.entries, token)
		return 0, common.ErrorNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, token)
	return nil
}
