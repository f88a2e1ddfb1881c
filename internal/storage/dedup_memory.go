package storage

import (
	"context"
	"sync"
	"time"
)

var _ DedupStore = (*MemoryDedupStore)(nil)

type MemoryDedupStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time

	done     chan struct{}
	interval time.Duration
}

func NewMemoryDedupStore(cleanupInterval time.Duration) *MemoryDedupStore {
	s := &MemoryDedupStore{
		entries:  make(map[string]time.Time),
		done:     make(chan struct{}),
		interval: cleanupInterval,
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryDedupStore) Seen(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	expiresAt, ok := s.entries[key]
	s.mu.RUnlock()

	return ok && time.Now().Before(expiresAt), nil
}

func (s *MemoryDedupStore) Mark(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = time.Now().Add(ttl)
	s.mu.Unlock()
	return nil
}

func (s *MemoryDedupStore) cleanupLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryDedupStore) cleanup() {
	now := time.Now()
	s.mu.Lock()
	for key, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

func (s *MemoryDedupStore) Close() error {
	close(s.done)
	return nil
}
