package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidState = errors.New("invalid or expired state parameter")
	ErrMissingCode  = errors.New("missing authorization code")
	ErrExchange     = errors.New("authorization code exchange failed")
)

type CallbackRequest struct {
	State string
	Code  string
}

type CallbackResult struct {
	// Nickname of the marketplace account that authorized the
	// application, when it could be resolved.
	Nickname string
}

type Service interface {
	// StartAuth issues a one-time state parameter and returns the
	// identity provider authorization URL to redirect the operator to.
	StartAuth(ctx context.Context) (string, error)

	// HandleCallback validates the state, exchanges the authorization
	// code for an initial credential pair, and stores it.
	HandleCallback(ctx context.Context, req CallbackRequest) (CallbackResult, error)
}
