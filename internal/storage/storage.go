package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Credentials is the access/refresh token pair obtained from the
// MercadoLibre token endpoint. Tokens are opaque pass-through values;
// nothing here inspects them.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ObtainedAt   time.Time `json:"obtained_at"`
}

// CredentialStore holds the current credential pair. Implementations must
// swap the whole pair atomically: a concurrent reader sees either the old
// or the new pair, never a mix.
type CredentialStore interface {
	// Get returns the stored pair. Returns ErrNotFound when no pair has
	// been stored yet.
	Get(ctx context.Context) (Credentials, error)

	Set(ctx context.Context, creds Credentials) error
}

// DedupStore tracks which orders already had their message dispatched,
// bounded by a retention TTL. Best-effort: a miss only means a duplicate
// send, which the marketplace tolerates.
type DedupStore interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string, ttl time.Duration) error
}

// StateStore holds short-lived OAuth state parameters issued by /auth.
type StateStore interface {
	Set(ctx context.Context, state string, ttl time.Duration) error

	// Take atomically consumes a state entry. Returns ErrNotFound if the
	// state does not exist or has expired.
	Take(ctx context.Context, state string) error
}

// SentMessage is one audit record of a dispatched buyer message.
type SentMessage struct {
	OrderID string
	BuyerID int64
	ItemID  string
	SentAt  time.Time
}

// SendLog records dispatched messages for operator audit. Recording is
// best-effort and must never fail the webhook acknowledgment.
type SendLog interface {
	Record(ctx context.Context, msg SentMessage) error
}
