package sat

import (
	"context"
	"fmt"
	"sync"
)

// LazySegmenter loads a Segmenter the first time it is used and keeps it for
// the rest of the process. A failed load is remembered and reported on every
// call.
type LazySegmenter struct {
	modelPath     string
	tokenizerPath string
	opts          []Option

	once sync.Once
	seg  *Segmenter
	err  error
}

// Lazy returns a LazySegmenter for the given model files. Nothing is read
// until the first call to Tokenize or Segmenter.
func Lazy(modelPath, tokenizerPath string, opts ...Option) *LazySegmenter {
	return &LazySegmenter{modelPath: modelPath, tokenizerPath: tokenizerPath, opts: opts}
}

// Segmenter returns the loaded segmenter, loading it if needed.
func (l *LazySegmenter) Segmenter() (*Segmenter, error) {
	l.once.Do(func() {
		l.seg, l.err = New(l.modelPath, l.tokenizerPath, l.opts...)
	})
	return l.seg, l.err
}

// Tokenize implements ifevalko.SentenceTokenizer.
func (l *LazySegmenter) Tokenize(ctx context.Context, text string) ([]string, error) {
	seg, err := l.Segmenter()
	if err != nil {
		return nil, fmt.Errorf("loading sat model: %w", err)
	}
	return seg.Tokenize(ctx, text)
}

// Close releases the segmenter if it was loaded.
func (l *LazySegmenter) Close() error {
	// Block a concurrent first load from racing with Close.
	l.once.Do(func() { l.err = ErrClosed })
	if l.seg != nil {
		return l.seg.Close()
	}
	return nil
}
