package xhttp

import (
	"fmt"
	"net/http"

	"github.com/KyubiGames/autoenvios-ml/internal/version"
)

type autoenviosTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*autoenviosTransport)(nil)

func (t *autoenviosTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "autoenvios-ml/"+version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper with standard autoenvios headers.
func NewTransport() http.RoundTripper {
	return &autoenviosTransport{base: http.DefaultTransport}
}
