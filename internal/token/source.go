package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/KyubiGames/autoenvios-ml/internal/storage"
)

// StoreSource exposes the currently stored access token to API clients.
// Callers are expected to have refreshed beforehand; this never triggers
// a refresh itself.
type StoreSource struct {
	store storage.CredentialStore
}

func NewStoreSource(store storage.CredentialStore) *StoreSource {
	return &StoreSource{store: store}
}

func (s *StoreSource) AccessToken(ctx context.Context) (string, error) {
	creds, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNoCredentials
		}
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}
	return creds.AccessToken, nil
}
