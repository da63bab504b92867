package sat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/jamesainslie/go-ifeval-ko/inference"
	"github.com/jamesainslie/go-ifeval-ko/tokenizer"
)

const (
	// maxSeqLen is the longest window passed to the model. The position
	// table holds 514 entries.
	maxSeqLen = 512

	// chunkOverlap is how many tokens consecutive windows share.
	chunkOverlap = 64
)

// Segmenter detects sentence boundaries using wtpsplit/SaT ONNX models.
// It is safe for concurrent use.
type Segmenter struct {
	tokenizer *tokenizer.Tokenizer
	pool      *inference.Pool
	threshold float32
	logger    *slog.Logger
}

// New creates a Segmenter from an ONNX model and a HuggingFace tokenizer.json.
func New(modelPath, tokenizerPath string, opts ...Option) (*Segmenter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	tok, err := tokenizer.New(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenizerFailed, err)
	}

	poolOpts := []inference.PoolOption{inference.WithPoolLogger(cfg.logger)}
	if cfg.runnerFactory != nil {
		poolOpts = append(poolOpts, inference.WithRunnerFactory(cfg.runnerFactory))
	}
	pool, err := inference.NewPool(modelPath, cfg.poolSize, poolOpts...)
	if err != nil {
		_ = tok.Close()
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	cfg.logger.Debug("sat segmenter ready",
		"model", modelPath, "tokenizer", tokenizerPath,
		"threshold", cfg.threshold, "pool_size", pool.Size())

	return &Segmenter{
		tokenizer: tok,
		pool:      pool,
		threshold: cfg.threshold,
		logger:    cfg.logger,
	}, nil
}

// IsComplete returns whether text appears to be a complete sentence.
func (s *Segmenter) IsComplete(ctx context.Context, text string) (complete bool, confidence float32, err error) {
	tokens := s.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return false, 0, nil
	}

	logits, err := s.getLogits(ctx, tokens)
	if err != nil {
		return false, 0, err
	}

	prob := sigmoid(logits[len(logits)-1])
	return prob > s.threshold, prob, nil
}

// Segment splits text into sentences. Sentences keep their surrounding
// whitespace, so concatenating them reproduces text.
func (s *Segmenter) Segment(ctx context.Context, text string) ([]string, error) {
	sentences, _, err := s.SegmentWithBoundaries(ctx, text)
	return sentences, err
}

// SegmentWithBoundaries splits text into sentences and returns boundary positions.
// Boundaries are byte offsets where each sentence ends in the original text.
func (s *Segmenter) SegmentWithBoundaries(ctx context.Context, text string) (sentences []string, boundaries []int, err error) {
	tokens := s.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil, nil, nil
	}

	logits, err := s.getLogits(ctx, tokens)
	if err != nil {
		return nil, nil, err
	}

	start := 0
	for i, logit := range logits {
		if i >= len(tokens) {
			break
		}
		if sigmoid(logit) <= s.threshold {
			continue
		}
		if end := tokens[i].End; end > start && end <= len(text) {
			sentences = append(sentences, text[start:end])
			boundaries = append(boundaries, end)
			start = end
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
		boundaries = append(boundaries, len(text))
	}

	return sentences, boundaries, nil
}

// Tokenize returns the trimmed, non-empty sentences of text.
func (s *Segmenter) Tokenize(ctx context.Context, text string) ([]string, error) {
	raw, err := s.Segment(ctx, text)
	if err != nil {
		return nil, err
	}
	sentences := raw[:0]
	for _, sent := range raw {
		if sent = strings.TrimSpace(sent); sent != "" {
			sentences = append(sentences, sent)
		}
	}
	return sentences, nil
}

// getLogits returns logits for all tokens, chunking if necessary.
func (s *Segmenter) getLogits(ctx context.Context, tokens []tokenizer.TokenInfo) ([]float32, error) {
	runner, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Release(runner)

	if len(tokens) <= maxSeqLen {
		return inferChunk(ctx, runner, tokens)
	}

	logits := make([]float32, len(tokens))
	counts := make([]int, len(tokens))

	stride := maxSeqLen - chunkOverlap
	for start := 0; start < len(tokens); start += stride {
		end := min(start+maxSeqLen, len(tokens))

		chunkLogits, err := inferChunk(ctx, runner, tokens[start:end])
		if err != nil {
			return nil, err
		}
		for i, logit := range chunkLogits {
			logits[start+i] += logit
			counts[start+i]++
		}

		if end >= len(tokens) {
			break
		}
	}

	// Average positions seen by more than one window.
	for i := range logits {
		if counts[i] > 1 {
			logits[i] /= float32(counts[i])
		}
	}

	s.logger.Debug("chunked inference", "tokens", len(tokens), "stride", stride)
	return logits, nil
}

// inferChunk runs inference on a single window of tokens.
func inferChunk(ctx context.Context, runner inference.Runner, tokens []tokenizer.TokenInfo) ([]float32, error) {
	inputIDs := make([]int64, len(tokens))
	attentionMask := make([]int64, len(tokens))
	for i, t := range tokens {
		inputIDs[i] = int64(t.ID)
		attentionMask[i] = 1
	}

	logits, err := runner.Infer(ctx, inputIDs, attentionMask)
	if err != nil {
		return nil, err
	}
	if len(logits) < len(tokens) {
		return nil, fmt.Errorf("model returned %d logits for %d tokens", len(logits), len(tokens))
	}
	// Outputs past the input are padding.
	return logits[:len(tokens)], nil
}

// Close releases all resources.
func (s *Segmenter) Close() error {
	var errs []error
	if s.pool != nil {
		if err := s.pool.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.tokenizer != nil {
		if err := s.tokenizer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}
