package ifevalko

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// SentenceTokenizer splits text into sentences. Implementations must be safe
// for concurrent use.
type SentenceTokenizer interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
}

// Heuristic is the rule-based SentenceTokenizer backed by SplitIntoSentences.
type Heuristic struct{}

var _ SentenceTokenizer = Heuristic{}

// Tokenize implements SentenceTokenizer. It only fails if ctx is already done.
func (Heuristic) Tokenize(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SplitIntoSentences(text), nil
}

// defaultTokenizer is built on first use and shared for the life of the process.
var defaultTokenizer = sync.OnceValue(func() SentenceTokenizer {
	return Heuristic{}
})

// CountSentences returns the number of sentences in text as seen by the
// process-wide default tokenizer. Empty fragments kept by the heuristic
// count as sentences.
func CountSentences(text string) int {
	sentences, err := defaultTokenizer().Tokenize(context.Background(), text)
	if err != nil {
		return 0
	}
	return len(sentences)
}

// Counter measures text with a configurable sentence tokenizer.
type Counter struct {
	tokenizer SentenceTokenizer
	logger    *slog.Logger
}

// NewCounter returns a Counter. Without WithTokenizer it uses the default
// heuristic tokenizer.
func NewCounter(opts ...Option) *Counter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Counter{tokenizer: cfg.tokenizer, logger: cfg.logger}
}

// CountSentences returns the number of sentences in text.
func (c *Counter) CountSentences(ctx context.Context, text string) (int, error) {
	sentences, err := c.tokenizer.Tokenize(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("tokenizing sentences: %w", err)
	}
	c.logger.Debug("counted sentences", "chars", len(text), "sentences", len(sentences))
	return len(sentences), nil
}

// CountWords returns the number of words in text. See CountWords.
func (c *Counter) CountWords(text string) int {
	return CountWords(text)
}
