package cdash

import (
	"errors"
	"fmt"
)

// Error taxonomy for upstream failures. Exactly four kinds exist, all derived
// from the HTTP outcome; anything else (notably a 2xx response with an
// unparsable body) is reported as a plain error outside the taxonomy and is
// not recovered at the tool boundary.

// AuthError indicates the CDash instance rejected the credentials (401/403).
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%d): check your CDASH_TOKEN environment variable", e.StatusCode)
}

// NotFoundError indicates a missing resource (404) or a project name that
// resolves to no identifier.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Resource)
}

// ConnectionError indicates the request never produced an HTTP response:
// dial failure, DNS failure, or the per-request timeout expiring.
type ConnectionError struct {
	BaseURL string
	Timeout bool
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request to %s timed out: %v", e.BaseURL, e.Err)
	}
	return fmt.Sprintf("cannot connect to %s: %v", e.BaseURL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// HTTPError covers any other non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected HTTP status %d: %s", e.StatusCode, e.Body)
}

// IsCDashError reports whether err belongs to the CDash error taxonomy.
// The tool boundary recovers taxonomy errors as textual results; everything
// else propagates.
func IsCDashError(err error) bool {
	var (
		authErr *AuthError
		nfErr   *NotFoundError
		connErr *ConnectionError
		httpErr *HTTPError
	)
	return errors.As(err, &authErr) ||
		errors.As(err, &nfErr) ||
		errors.As(err, &connErr) ||
		errors.As(err, &httpErr)
}
