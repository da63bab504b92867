package ifevalko

import "log/slog"

// Option configures a Counter.
type Option func(*config)

type config struct {
	tokenizer SentenceTokenizer
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		tokenizer: defaultTokenizer(),
		logger:    slog.Default(),
	}
}

// WithTokenizer sets the sentence tokenizer (default: the heuristic splitter).
func WithTokenizer(t SentenceTokenizer) Option {
	return func(c *config) {
		if t != nil {
			c.tokenizer = t
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
