// Package api is the HTTP transport for the ByteBoard service. It attaches
// the bearer credential to every request and centrally intercepts
// authorization denials; callers never handle either concern themselves.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/krosengr4/byteboard/internal/apierr"
	"github.com/krosengr4/byteboard/internal/models"
	"github.com/krosengr4/byteboard/internal/token"
)

const defaultTimeout = 15 * time.Second

// Client dispatches requests to one ByteBoard service instance.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  token.Store
	log     *slog.Logger

	mu             sync.Mutex
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Timeouts live there.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the structured logger. A nil logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for the service at baseURL. The token store supplies
// the bearer credential for each request and is cleared whenever the service
// rejects it.
func New(baseURL string, tokens token.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized registers the session-invalidated callback. It fires after
// the token store has been cleared, once per rejected response, and before
// the failure is returned to the caller. The transport itself performs no
// navigation or retry.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok, ok := c.tokens.Load(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &apierr.Error{Kind: apierr.KindTransport, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierr.Error{Kind: apierr.KindTransport, Err: err}
	}

	if resp.StatusCode >= 400 {
		return c.failure(method, path, resp.StatusCode, payload)
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return &apierr.Error{
				Kind:    apierr.KindServer,
				Status:  resp.StatusCode,
				Message: "malformed response body",
				Err:     err,
			}
		}
	}
	return nil
}

// failure classifies an error response. A 401 additionally clears the stored
// token and signals session invalidation; the error is still propagated so
// the initiating caller can surface it.
func (c *Client) failure(method, path string, status int, payload []byte) error {
	var body models.ErrorResponse
	_ = json.Unmarshal(payload, &body)

	ae := &apierr.Error{
		Kind:    apierr.FromStatus(status),
		Status:  status,
		Message: body.Error,
	}

	if ae.Kind == apierr.KindUnauthorized {
		if err := c.tokens.Clear(); err != nil {
			c.log.Warn("failed to clear rejected token", "error", err)
		}
		c.log.Debug("credential rejected", "method", method, "path", path)
		c.mu.Lock()
		fn := c.onUnauthorized
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
	return ae
}
