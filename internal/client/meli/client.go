package meli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/KyubiGames/autoenvios-ml/internal/xhttp"
)

// TokenSource yields the bearer token for outbound marketplace calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type Client struct {
	Orders   OrderService
	Messages MessageService
	Users    UserService

	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(tokenSource TokenSource, opts ...Option) *Client {
	const baseURL = "https://api.mercadolibre.com"

	cfg := &clientConfig{
		baseURL:     baseURL,
		tokenSource: tokenSource,
		logger:      slog.Default(),
		timeout:     15 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	transport := &meliTransport{
		base:        xhttp.NewTransport(),
		tokenSource: cfg.tokenSource,
	}

	c := &Client{
		baseURL:    cfg.baseURL,
		httpClient: &http.Client{Transport: transport, Timeout: cfg.timeout},
		logger:     cfg.logger,
	}

	c.Orders = &orderService{client: c}
	c.Messages = &messageService{client: c}
	c.Users = &userService{client: c}

	return c
}

type clientConfig struct {
	baseURL     string
	tokenSource TokenSource
	logger      *slog.Logger
	timeout     time.Duration
}

type Option func(*clientConfig)

func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) { cfg.baseURL = baseURL }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, payload any, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := go_json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		xhttp.SetRequestContentTypeApplicationJSON(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if err := go_json.NewDecoder(bytes.NewReader(body)).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w\nbody: %s", err, string(body))
		}
	}

	return nil
}

type meliTransport struct {
	base        http.RoundTripper
	tokenSource TokenSource
}

var _ http.RoundTripper = (*meliTransport)(nil)

func (t *meliTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	accessToken, err := t.tokenSource.AccessToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}
