package sat

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-ifeval-ko/inference"
)

// Option configures a Segmenter.
type Option func(*config)

type config struct {
	threshold     float32
	poolSize      int
	logger        *slog.Logger
	runnerFactory func() (inference.Runner, error)
}

func defaultConfig() config {
	return config{
		threshold: 0.025,
		poolSize:  runtime.NumCPU(),
		logger:    slog.Default(),
	}
}

// WithThreshold sets the boundary probability threshold (default: 0.025).
func WithThreshold(t float32) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithPoolSize caps the number of ONNX sessions (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
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

// WithRunner replaces the ONNX session constructor, mainly for tests.
func WithRunner(f func() (inference.Runner, error)) Option {
	return func(c *config) {
		c.runnerFactory = f
	}
}
