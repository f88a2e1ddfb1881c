package storage

import (
	"context"
	"sync"
	"time"
)

var _ StateStore = (*MemoryStateStore)(nil)

type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time

	done chan struct{}
}

func NewMemoryStateStore() *MemoryStateStore {
	s := &MemoryStateStore{
		states: make(map[string]time.Time),
		done:   make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryStateStore) Set(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	s.states[state] = time.Now().Add(ttl)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) Take(_ context.Context, state string) error {
	s.mu.Lock()
	expiresAt, ok := s.states[state]
	if ok {
		delete(s.states, state)
	}
	s.mu.Unlock()

	if !ok || time.Now().After(expiresAt) {
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStateStore) Close() error {
	close(s.done)
	return nil
}

func (s *MemoryStateStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for state, expiresAt := range s.states {
				if now.After(expiresAt) {
					delete(s.states, state)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}
