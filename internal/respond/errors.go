package respond

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jamesainslie/go-ifeval-ko/internal/apierr"
)

// ErrEmptyResponse indicates the API returned no choices.
var ErrEmptyResponse = errors.New("respond: empty completion")

// classifyError maps go-openai errors to apierr sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests &&
			(strings.Contains(apiErr.Message, "quota") || strings.Contains(apiErr.Message, "billing")) {
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		}
		if sentinel := apierr.FromStatus(apiErr.HTTPStatusCode); sentinel != nil {
			return fmt.Errorf("%s: %w", apiErr.Message, sentinel)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if sentinel := apierr.FromStatus(reqErr.HTTPStatusCode); sentinel != nil {
			return fmt.Errorf("%s: %w", reqErr.HTTPStatus, sentinel)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}
	return apierr.FromTransport(err)
}
