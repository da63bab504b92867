package apierr_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jamesainslie/go-ifeval-ko/internal/apierr"
)

// ---------------------------------------------------------------------------
// TestFromStatus - HTTP status classification
// ---------------------------------------------------------------------------

func TestFromStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want error
	}{
		{http.StatusOK, nil},
		{http.StatusFound, nil},
		{http.StatusBadRequest, apierr.ErrBadRequest},
		{http.StatusUnauthorized, apierr.ErrAuthFailed},
		{http.StatusForbidden, apierr.ErrAuthFailed},
		{http.StatusNotFound, apierr.ErrNotFound},
		{http.StatusRequestTimeout, apierr.ErrTimeout},
		{http.StatusTooManyRequests, apierr.ErrRateLimit},
		{http.StatusInternalServerError, apierr.ErrServer},
		{http.StatusBadGateway, apierr.ErrServer},
		{http.StatusGatewayTimeout, apierr.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			t.Parallel()
			if got := apierr.FromStatus(tt.code); got != tt.want {
				t.Errorf("FromStatus(%d) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFromTransport - Transport error classification
// ---------------------------------------------------------------------------

func TestFromTransport(t *testing.T) {
	t.Parallel()

	other := errors.New("connection refused")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), apierr.ErrTimeout},
		{"canceled passes through", context.Canceled, context.Canceled},
		{"other passes through", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := apierr.FromTransport(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("FromTransport(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsRetryable - Transient vs permanent failures
// ---------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	retryable := []error{apierr.ErrRateLimit, apierr.ErrTimeout, apierr.ErrServer,
		fmt.Errorf("wrapped: %w", apierr.ErrServer)}
	permanent := []error{apierr.ErrAuthFailed, apierr.ErrQuotaExceeded, apierr.ErrBadRequest,
		apierr.ErrNotFound, errors.New("other")}

	for _, err := range retryable {
		if !apierr.IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = false, want true", err)
		}
	}
	for _, err := range permanent {
		if apierr.IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = true, want false", err)
		}
	}
}
