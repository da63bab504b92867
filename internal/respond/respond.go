// Package respond generates model responses for dataset prompts through an
// OpenAI-compatible chat completion API, producing the prompt/response JSONL
// that instruction-following scorers consume.
package respond

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/schollz/progressbar/v3"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-ifeval-ko/dataset"
	"github.com/jamesainslie/go-ifeval-ko/internal/apierr"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	defaultMaxTokens = 2048
	defaultParallel  = 4
)

// Response pairs a prompt with the model's answer.
type Response struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// ChatCompleter is the part of *openai.Client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ ChatCompleter = (*openai.Client)(nil)

// Generator requests completions with bounded parallelism.
type Generator struct {
	client    ChatCompleter
	model     string
	maxTokens int
	parallel  int
	retry     apierr.RetryConfig
	cache     *Cache
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithParallel sets how many requests run at once.
func WithParallel(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.parallel = n
		}
	}
}

// WithRetry sets the retry policy for transient API failures.
func WithRetry(cfg apierr.RetryConfig) Option {
	return func(g *Generator) {
		g.retry = cfg
	}
}

// WithCache reuses and records completions in c.
func WithCache(c *Cache) Option {
	return func(g *Generator) {
		g.cache = c
	}
}

// WithProgress renders a progress bar to w. Nil disables it.
func WithProgress(w io.Writer) Option {
	return func(g *Generator) {
		g.progress = w
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewClient returns an OpenAI client. An empty baseURL keeps the public API.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// New returns a Generator using client.
func New(client ChatCompleter, opts ...Option) *Generator {
	g := &Generator{
		client:    client,
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
		parallel:  defaultParallel,
		retry:     apierr.DefaultRetryConfig,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the model's answer to prompt, consulting the cache first.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.cache != nil {
		if cached, ok, err := g.cache.Get(g.model, prompt); err != nil {
			g.logger.Warn("cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	req := openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		// A zero temperature is dropped by omitempty; the smallest float keeps
		// sampling deterministic.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	text, err := apierr.RetryWithBackoff(ctx, g.retry, func() (string, error) {
		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		return resp.Choices[0].Message.Content, nil
	}, nil)
	if err != nil {
		return "", err
	}

	if g.cache != nil {
		if err := g.cache.Put(g.model, prompt, text); err != nil {
			g.logger.Warn("cache write failed", "error", err)
		}
	}
	return text, nil
}

// GenerateAll answers every record's prompt. Results keep input order. The
// first failure cancels outstanding requests.
func (g *Generator) GenerateAll(ctx context.Context, records []dataset.Record) ([]Response, error) {
	results := make([]Response, len(records))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallel)

	var bar *progressbar.ProgressBar
	if g.progress != nil {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetWriter(g.progress),
			progressbar.OptionSetDescription("Generating responses"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
		)
	}

	for i, rec := range records {
		// Go blocks while the limit is reached; stop queueing once a request failed.
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			text, err := g.Generate(ctx, rec.Prompt)
			if err != nil {
				return fmt.Errorf("record %d: %w", rec.Key, err)
			}
			results[i] = Response{Prompt: rec.Prompt, Response: text}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	g.logger.Info("generated responses", "model", g.model, "count", len(results))
	return results, nil
}

// EncodeJSONL writes one response object per line.
func EncodeJSONL(w io.Writer, responses []Response) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, r := range responses {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding response %d: %w", i, err)
		}
	}
	return nil
}

// WriteJSONL writes responses to path atomically.
func WriteJSONL(path string, responses []Response) error {
	return dataset.WriteAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := EncodeJSONL(bw, responses); err != nil {
			return err
		}
		return bw.Flush()
	})
}
