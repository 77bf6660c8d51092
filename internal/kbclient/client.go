// Package kbclient issues GET requests against a knowledge-base API and
// decodes the JSON responses.
//
// The client knows nothing about articles or categories: callers pass an
// endpoint path and a value to decode into. Non-2xx responses surface as
// *StatusError and malformed bodies as *DecodeError.
package kbclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d %s", e.StatusCode, e.StatusText)
}

// DecodeError is returned when a 2xx body is not the JSON the caller expected.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Client performs JSON GETs against a single base URL.
type Client struct {
	baseURL       string
	authorization string
	userAgent     string
	httpClient    *http.Client
	log           zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAuthorization sets the Authorization header sent on every request.
func WithAuthorization(header string) Option {
	return func(c *Client) { c.authorization = header }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger attaches a logger for per-request debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for baseURL. A trailing slash on baseURL is dropped
// so endpoints can always start with "/".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "kbridge",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches baseURL+endpoint and decodes the JSON body into v.
func (c *Client) Get(ctx context.Context, endpoint string, v any) error {
	url := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("endpoint", endpoint).Dur("duration", time.Since(start)).Msg("request failed")
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// statusText returns the reason phrase, e.g. "Not Found" for "404 Not Found".
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// BasicAuth builds the Authorization header value for Zendesk API-token
// auth: the user part is "<email>/token".
func BasicAuth(email, token string) string {
	cred := email + "/token:" + token
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(cred))
}
