package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Pool hands out model runners for concurrent inference. Runners are created
// on demand, up to the pool size, so a process that never segments text never
// loads the model.
type Pool struct {
	idle      chan Runner
	newRunner func() (Runner, error)
	size      int
	logger    *slog.Logger

	mu      sync.Mutex
	created int
	closed  bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithRunnerFactory replaces the ONNX session constructor.
func WithRunnerFactory(f func() (Runner, error)) PoolOption {
	return func(p *Pool) {
		if f != nil {
			p.newRunner = f
		}
	}
}

// WithPoolLogger sets the logger (default: slog.Default()).
func WithPoolLogger(l *slog.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a pool of at most size ONNX sessions for modelPath. The
// model file must exist; sessions are created by Acquire.
func NewPool(modelPath string, size int, opts ...PoolOption) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		idle:   make(chan Runner, size),
		size:   size,
		logger: slog.Default(),
		newRunner: func() (Runner, error) {
			return NewSession(modelPath)
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	if modelPath != "" {
		if _, err := os.Stat(modelPath); err != nil {
			return nil, fmt.Errorf("model file: %w", err)
		}
	}

	return p, nil
}

// Acquire gets a runner from the pool, creating one if the pool has room and
// blocking otherwise. Respects context cancellation.
func (p *Pool) Acquire(ctx context.Context) (Runner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case r, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		n := p.created
		p.mu.Unlock()

		r, err := p.newRunner()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, fmt.Errorf("creating session %d: %w", n, err)
		}
		p.logger.Debug("inference session created", "session", n, "pool_size", p.size)
		return r, nil
	}
	p.mu.Unlock()

	select {
	case r, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a runner to the pool. Runners released after Close are
// closed instead.
func (p *Pool) Release(r Runner) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = r.Close()
		return
	}
	select {
	case p.idle <- r:
	default:
		p.created--
		_ = r.Close()
	}
}

// Close closes all idle runners. It is safe to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	p.mu.Unlock()

	var errs []error
	for r := range p.idle {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the maximum number of runners.
func (p *Pool) Size() int {
	return p.size
}

// Created returns how many runners currently exist.
func (p *Pool) Created() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
