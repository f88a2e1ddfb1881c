package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/KyubiGames/autoenvios-ml/internal/client/meli"
	"github.com/KyubiGames/autoenvios-ml/internal/oauth"
	"github.com/KyubiGames/autoenvios-ml/internal/storage"
	"github.com/KyubiGames/autoenvios-ml/internal/xhttp"
	"github.com/KyubiGames/autoenvios-ml/internal/xslog"
)

const (
	stateTTL        = 5 * time.Minute
	exchangeTimeout = 10 * time.Second
)

// OAuth bootstraps the credential store from a one-time authorization
// code. Operator-driven: run once at setup, or again on credential loss.
type OAuth struct {
	config *oauth2.Config
	creds  storage.CredentialStore
	states storage.StateStore
	users  meli.UserService
}

var _ Service = (*OAuth)(nil)

func NewOAuth(config *oauth2.Config, creds storage.CredentialStore, states storage.StateStore, users meli.UserService) *OAuth {
	return &OAuth{
		config: config,
		creds:  creds,
		states: states,
		users:  users,
	}
}

func (s *OAuth) StartAuth(ctx context.Context) (string, error) {
	state, err := oauth.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	if err := s.states.Set(ctx, state, stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (s *OAuth) HandleCallback(ctx context.Context, req CallbackRequest) (CallbackResult, error) {
	logger := xslog.FromContext(ctx)

	if req.State == "" {
		return CallbackResult{}, ErrInvalidState
	}

	if err := s.states.Take(ctx, req.State); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CallbackResult{}, ErrInvalidState
		}
		return CallbackResult{}, fmt.Errorf("failed to retrieve state: %w", err)
	}

	if req.Code == "" {
		return CallbackResult{}, ErrMissingCode
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, xhttp.NewHTTPClient())

	token, err := s.config.Exchange(ctx, req.Code)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("%w: %w", ErrExchange, err)
	}

	creds := storage.Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ObtainedAt:   time.Now(),
	}

	if err := s.creds.Set(ctx, creds); err != nil {
		return CallbackResult{}, fmt.Errorf("failed to store credentials: %w", err)
	}

	var result CallbackResult
	if s.users != nil {
		// best-effort: confirm which account authorized us
		user, err := s.users.Me(ctx)
		if err != nil {
			logger.WarnContext(ctx, "failed to resolve authorized account", xslog.Error(err))
		} else {
			result.Nickname = user.Nickname
		}
	}

	return result, nil
}
