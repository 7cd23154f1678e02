// Package api is the single HTTP client to the StocksBoard backend.
//
// Every view shares one *Client configured with a fixed base address.
// Authenticated calls take the caller's session and attach its token as a
// bearer credential; nothing is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/stocksboard"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBase is the API base address used when none is configured.
// It can be set at build time:
//
//	go build -ldflags "-X github.com/etnz/stocksboard/api.DefaultBase=https://api.example.com" ./sb
var DefaultBase = "http://localhost:8080"

// DefaultTimeout bounds every request unless configured otherwise.
const DefaultTimeout = 30 * time.Second

// HeaderRequestID carries a fresh identifier on every request, for log
// correlation with the backend.
const HeaderRequestID = "X-Request-ID"

// Client is the configured HTTP client to the backend.
type Client struct {
	base   *url.URL
	http   *http.Client
	log    zerolog.Logger
	newID  func() string
	header http.Header // extra headers set on every request
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout sets the per-request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option { return func(c *Client) { c.header.Add(key, value) } }

// WithRequestID sets the request id generator.
func WithRequestID(f func() string) Option { return func(c *Client) { c.newID = f } }

// New returns a Client for the API at base. An empty base uses DefaultBase.
func New(base string, opts ...Option) (*Client, error) {
	if base == "" {
		base = DefaultBase
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API base %q: scheme must be http or https", base)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: DefaultTimeout},
		log:    zerolog.Nop(),
		newID:  uuid.NewString,
		header: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Base returns the API base address.
func (c *Client) Base() string { return c.base.String() }

// BearerHeader returns the headers carrying token as a bearer credential.
//
// An empty token yields no Authorization header: the request is still sent
// and it is up to the backend to reject it.
func BearerHeader(token string) http.Header {
	h := make(http.Header)
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// endpoint resolves path (with optional query) against the base address.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs an HTTP request with a JSON body 'in' (if not nil), and decodes
// a 2xx JSON body into 'out' (if not nil). Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("cannot encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("cannot create http request %s %s: %w", method, path, err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range BearerHeader(token) {
		req.Header[k] = vs
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	rid := c.newID()
	req.Header.Set(HeaderRequestID, rid)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Str("request_id", rid).Err(err).Msg("request failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return &transportError{method: method, path: path, err: err}
	}
	defer resp.Body.Close()

	// reading in a buffer to be able to log the json in debug mode
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return &transportError{method: method, path: path, err: fmt.Errorf("cannot read http body: %w", err)}
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", rid).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Trace().Str("request_id", rid).Str("body", buf.String()).Msg("error response")
		return newError(method, path, resp.StatusCode, buf.Bytes())
	}
	if out == nil || buf.Len() == 0 {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		c.log.Trace().Str("request_id", rid).Str("body", buf.String()).Msg("undecodable response")
		return &transportError{method: method, path: path, err: fmt.Errorf("cannot decode response: %w", err)}
	}
	return nil
}

// transportError is a failure to exchange with the backend at all.
type transportError struct {
	method, path string
	err          error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.method, e.path, e.err)
}

func (e *transportError) Unwrap() error { return e.err }

// Is matches stocksboard.ErrTransport.
func (e *transportError) Is(target error) bool { return target == stocksboard.ErrTransport }

// IsTransport reports whether err is a network, timeout or decoding failure.
func IsTransport(err error) bool { return errors.Is(err, stocksboard.ErrTransport) }
