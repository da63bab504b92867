package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/jamesainslie/go-ifeval-ko/internal/apierr"
)

// DefaultEndpoint is the HuggingFace dataset viewer API.
const DefaultEndpoint = "https://datasets-server.huggingface.co"

// defaultConfigName is the dataset config HuggingFace assigns to single-config repos.
const defaultConfigName = "default"

// Source fetches the full dataset.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// httpDoer abstracts HTTP client operations.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// defaultHTTPClient bounds connection setup but not the body transfer, which
// the caller's context limits.
var defaultHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	},
}

// hub holds what both hub sources share.
type hub struct {
	endpoint string
	dataset  string
	config   string
	split    string
	token    string
	http     httpDoer
	retry    apierr.RetryConfig
	progress io.Writer
	logger   *slog.Logger
}

// HubOption configures a hub source.
type HubOption func(*hub)

// WithEndpoint overrides the dataset viewer API base URL.
func WithEndpoint(u string) HubOption {
	return func(h *hub) {
		if u != "" {
			h.endpoint = u
		}
	}
}

// WithDataset sets the repository name (default: DefaultName).
func WithDataset(name string) HubOption {
	return func(h *hub) {
		if name != "" {
			h.dataset = name
		}
	}
}

// WithSplit sets the split (default: DefaultSplit).
func WithSplit(split string) HubOption {
	return func(h *hub) {
		if split != "" {
			h.split = split
		}
	}
}

// WithConfigName sets the dataset config (default: "default").
func WithConfigName(name string) HubOption {
	return func(h *hub) {
		if name != "" {
			h.config = name
		}
	}
}

// WithToken sends a bearer token, needed for gated or private datasets.
func WithToken(token string) HubOption {
	return func(h *hub) {
		h.token = token
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c httpDoer) HubOption {
	return func(h *hub) {
		if c != nil {
			h.http = c
		}
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg apierr.RetryConfig) HubOption {
	return func(h *hub) {
		h.retry = cfg
	}
}

// WithProgress renders download progress bars to w. Nil disables them.
func WithProgress(w io.Writer) HubOption {
	return func(h *hub) {
		h.progress = w
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) HubOption {
	return func(h *hub) {
		if l != nil {
			h.logger = l
		}
	}
}

func newHub(opts []HubOption) hub {
	h := hub{
		endpoint: DefaultEndpoint,
		dataset:  DefaultName,
		config:   defaultConfigName,
		split:    DefaultSplit,
		http:     defaultHTTPClient,
		retry:    apierr.DefaultRetryConfig,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// apiURL builds an endpoint URL for the dataset viewer API.
func (h *hub) apiURL(path string, query url.Values) string {
	return h.endpoint + path + "?" + query.Encode()
}

// get performs a GET with retries and returns the open response on 200.
// The caller closes the body.
func (h *hub) get(ctx context.Context, rawURL string) (*http.Response, error) {
	return apierr.RetryWithBackoff(ctx, h.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid URL: %v", ErrDownloadFailed, err)
		}
		if h.token != "" {
			req.Header.Set("Authorization", "Bearer "+h.token)
		}

		resp, err := h.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, apierr.FromTransport(err))
		}
		if classified := apierr.FromStatus(resp.StatusCode); classified != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			h.logger.Debug("hub request failed", "url", rawURL, "status", resp.StatusCode, "body", string(body))
			return nil, fmt.Errorf("%w: HTTP %d from %s: %w", ErrDownloadFailed, resp.StatusCode, rawURL, classified)
		}
		return resp, nil
	}, nil)
}

// getJSON performs a GET and decodes a JSON body into v.
func (h *hub) getJSON(ctx context.Context, rawURL string, v any) error {
	resp, err := h.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding response from %s: %v", ErrDownloadFailed, rawURL, err)
	}
	return nil
}

// NewSource returns the hub source for kind, "parquet" or "rows".
func NewSource(kind string, opts ...HubOption) (Source, error) {
	switch kind {
	case "", "parquet":
		return NewHubParquetSource(opts...), nil
	case "rows":
		return NewHubRowsSource(opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown source %q (want parquet or rows)", ErrSourceUnavailable, kind)
	}
}

// isNotFound reports whether err came from a 404.
func isNotFound(err error) bool {
	return errors.Is(err, apierr.ErrNotFound)
}
