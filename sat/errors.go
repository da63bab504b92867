package sat

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrModelNotFound indicates the model file does not exist.
	ErrModelNotFound = errors.New("sat: model file not found")

	// ErrInvalidModel indicates the model file exists but could not be loaded.
	ErrInvalidModel = errors.New("sat: invalid model")

	// ErrTokenizerFailed indicates tokenizer initialization failed.
	ErrTokenizerFailed = errors.New("sat: tokenizer initialization failed")

	// ErrClosed is returned by a LazySegmenter closed before first use.
	ErrClosed = errors.New("sat: segmenter closed")
)
