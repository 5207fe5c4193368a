// Package cdash implements the HTTP client for the CDash REST API.
//
// One Client is created per process and shared by every tool invocation; it
// owns the pooled HTTP transport, the base URL, and the optional bearer
// token. Failures are classified into a small taxonomy (AuthError,
// NotFoundError, ConnectionError, HTTPError) derived solely from the HTTP
// outcome; see errors.go.
//
// Responses are returned as loosely-typed gjson documents rather than typed
// structs: the upstream JSON shape is not contractually guaranteed, so
// callers read fields with safe optional lookups and zero-value fallbacks.
package cdash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cbyrohl/cdash-mcp/internal/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// maxResponseSize caps how much of an upstream body is read. Configure logs
// and test output can be large, but anything past this is pathological.
const maxResponseSize = 32 << 20 // 32 MiB

// Config holds the connection parameters for a Client.
type Config struct {
	// BaseURL is the CDash instance URL without a trailing slash.
	BaseURL string

	// Token, when non-empty, is sent as "Authorization: Bearer <token>".
	Token string

	// Timeout is the per-request timeout. Zero means no timeout.
	Timeout time.Duration

	// RequestsPerSecond caps the upstream request rate so a burst of tool
	// calls cannot hammer a shared CDash instance. Zero disables the cap.
	RequestsPerSecond float64

	// Logger receives request-level debug logging. Required.
	Logger log.Logger
}

// Client is a CDash REST API client backed by a single shared HTTP session.
// It is safe for concurrent use and must be closed with Close when the
// process shuts down.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     log.Logger
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		// Burst of 1: requests are strictly paced, never bunched.
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
		logger:  cfg.Logger,
	}, nil
}

// BaseURL returns the configured CDash instance URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases the client's pooled connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Get performs a GET against path (a fixed upstream route, never
// user-constructed) with the given query parameters and returns the parsed
// JSON body.
//
// Classification: transport failures become *ConnectionError, 401/403
// *AuthError, 404 *NotFoundError, any other non-2xx *HTTPError. A 2xx
// response with an invalid JSON body is a plain error outside the taxonomy.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (gjson.Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, &ConnectionError{
				BaseURL: c.baseURL,
				Timeout: isTimeout(err),
				Err:     err,
			}
		}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("building request for %s: %w", path, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("cdash request", "path", path, "params", params.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, &ConnectionError{
			BaseURL: c.baseURL,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return gjson.Result{}, &ConnectionError{BaseURL: c.baseURL, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return gjson.Result{}, &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return gjson.Result{}, &NotFoundError{Resource: path}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return gjson.Result{}, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       excerpt(body, 200),
		}
	}

	if !gjson.ValidBytes(body) {
		// Not part of the taxonomy: the tool boundary does not recover this.
		return gjson.Result{}, fmt.Errorf("invalid JSON in response from %s", path)
	}

	return gjson.ParseBytes(body), nil
}

// isTimeout reports whether a transport error was a timeout rather than a
// connect/DNS failure. Both classify as ConnectionError; only the message
// differs.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// excerpt returns at most n characters of a response body for error
// messages, cutting on rune boundaries.
func excerpt(body []byte, n int) string {
	s := strings.TrimSpace(string(body))
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
