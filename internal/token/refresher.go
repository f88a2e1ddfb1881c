package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/KyubiGames/autoenvios-ml/internal/storage"
	"github.com/KyubiGames/autoenvios-ml/internal/xhttp"
)

var ErrNoCredentials = errors.New("no credentials stored - complete the authorization flow first")

const defaultTimeout = 10 * time.Second

const refreshKey = "refresh"

// Refresher obtains a fresh access token from the MercadoLibre token
// endpoint using the stored refresh token. It is called before every
// privileged API call; concurrent callers are collapsed into a single
// round trip. A failed refresh never mutates the stored pair, so a
// transient provider outage cannot strand the system without its
// refresh token.
type Refresher struct {
	config  *oauth2.Config
	store   storage.CredentialStore
	timeout time.Duration
	group   singleflight.Group
}

type RefresherOption func(*Refresher)

func WithTimeout(d time.Duration) RefresherOption {
	return func(r *Refresher) { r.timeout = d }
}

func NewRefresher(config *oauth2.Config, store storage.CredentialStore, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		config:  config,
		store:   store,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Refresher) Refresh(ctx context.Context) (storage.Credentials, error) {
	v, err, _ := r.group.Do(refreshKey, func() (any, error) {
		return r.refresh(ctx)
	})
	if err != nil {
		return storage.Credentials{}, err
	}
	return v.(storage.Credentials), nil
}

func (r *Refresher) refresh(ctx context.Context) (storage.Credentials, error) {
	current, err := r.store.Get(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Credentials{}, ErrNoCredentials
		}
		return storage.Credentials{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	if current.RefreshToken == "" {
		return storage.Credentials{}, ErrNoCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, xhttp.NewHTTPClient())

	// a token carrying only the refresh token forces the token source
	// through the refresh_token grant
	src := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: current.RefreshToken})

	newToken, err := src.Token()
	if err != nil {
		return storage.Credentials{}, fmt.Errorf("failed to refresh token: %w", err)
	}

	creds := storage.Credentials{
		AccessToken:  newToken.AccessToken,
		RefreshToken: newToken.RefreshToken,
		ObtainedAt:   time.Now(),
	}

	// MercadoLibre rotates refresh tokens, but keep the old one if the
	// provider ever omits it
	if creds.RefreshToken == "" {
		creds.RefreshToken = current.RefreshToken
	}

	if err := r.store.Set(ctx, creds); err != nil {
		return storage.Credentials{}, fmt.Errorf("failed to save refreshed credentials: %w", err)
	}

	return creds, nil
}
