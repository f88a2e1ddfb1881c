package notification

import (
	"context"
	"errors"
)

var (
	// ErrMalformedPayload is the only error that surfaces as a client
	// error to the webhook caller; everything downstream of a successful
	// parse is acknowledged.
	ErrMalformedPayload = errors.New("malformed notification payload")

	ErrUnknownTopic      = errors.New("unknown notification topic")
	ErrMalformedResource = errors.New("malformed notification resource")
	ErrCredentialRefresh = errors.New("credential refresh failed")
	ErrOrderFetch        = errors.New("order fetch failed")
	ErrNoMessageRule     = errors.New("no message rule for purchased item")
	ErrMessageSend       = errors.New("message send failed")
)

type Service interface {
	// Process runs one webhook notification through the dispatch state
	// machine: parse, topic filter, order fetch, message resolution,
	// send. Every returned error except ErrMalformedPayload is a
	// handled terminal state the caller should acknowledge with 200.
	Process(ctx context.Context, body []byte) error
}
