package storage

import (
	"context"
	"sync"
)

var _ CredentialStore = (*MemoryCredentialStore)(nil)

type MemoryCredentialStore struct {
	mu    sync.RWMutex
	creds Credentials
	set   bool
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) Get(_ context.Context) (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return Credentials{}, ErrNotFound
	}
	return s.creds, nil
}

func (s *MemoryCredentialStore) Set(_ context.Context, creds Credentials) error {
	s.mu.Lock()
	s.creds = creds
	s.set = true
	s.mu.Unlock()
	return nil
}
