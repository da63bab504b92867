// Package apierr provides shared error sentinels and retry infrastructure for
// the HTTP clients that talk to the dataset hub and to chat completion APIs.
//
// Clients classify failures into these sentinels at the boundary with
// fmt.Errorf("%s: %w", msg, sentinel); callers check with errors.Is.
package apierr

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates authentication failed (missing or invalid token).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrServer indicates a 5xx response (temporary, retryable).
	ErrServer = errors.New("server error")
)

// FromStatus maps an HTTP status code to a sentinel. It returns nil for 2xx
// and 3xx codes.
func FromStatus(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusTooManyRequests:
		return ErrRateLimit
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuthFailed
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return ErrTimeout
	case code >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}

// FromTransport classifies an error returned by http.Client.Do. Timeouts map
// to ErrTimeout; context cancellation is returned unchanged.
func FromTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrTimeout
	}
	return err
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrServer)
}
