package bench

import (
	"context"
	"fmt"
	"log/slog"
	"unicode"
	"unicode/utf8"

	ifevalko "github.com/jamesainslie/go-ifeval-ko"
)

// Locate maps tokenizer output back to byte offsets in text. Sentences are
// matched by their count of non-space runes rather than by substring, so
// output that normalises whitespace or moves a closing quote still lands on
// the right boundary. Empty sentences are skipped.
func Locate(text string, sentences []string) []int {
	var (
		boundaries []int
		pos        int
	)
	for _, s := range sentences {
		need := nonSpaceRunes(s)
		if need == 0 {
			continue
		}
		for need > 0 && pos < len(text) {
			r, size := utf8.DecodeRuneInString(text[pos:])
			pos += size
			if !unicode.IsSpace(r) {
				need--
			}
		}
		boundaries = append(boundaries, pos)
	}
	return boundaries
}

func nonSpaceRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// Result is the evaluation of one corpus.
type Result struct {
	Corpus    string  `json:"corpus"`
	Predicted int     `json:"predicted"`
	Gold      int     `json:"gold"`
	Metrics   Metrics `json:"metrics"`
}

// EvaluateCorpus tokenizes c.Text and scores the boundaries.
func EvaluateCorpus(ctx context.Context, tok ifevalko.SentenceTokenizer, c Corpus, cfg Config) (Result, error) {
	sentences, err := tok.Tokenize(ctx, c.Text)
	if err != nil {
		return Result{}, fmt.Errorf("tokenizing %s: %w", c.Name, err)
	}

	predicted := Locate(c.Text, sentences)
	return Result{
		Corpus:    c.Name,
		Predicted: len(predicted),
		Gold:      len(c.Boundaries),
		Metrics:   Evaluate(predicted, c.Boundaries, cfg),
	}, nil
}

// Run evaluates tok on every corpus and returns the per-corpus results and
// their aggregate.
func Run(ctx context.Context, tok ifevalko.SentenceTokenizer, corpora []Corpus, cfg Config, logger *slog.Logger) ([]Result, Metrics, error) {
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]Result, 0, len(corpora))
	ms := make([]Metrics, 0, len(corpora))
	for _, c := range corpora {
		r, err := EvaluateCorpus(ctx, tok, c, cfg)
		if err != nil {
			return nil, Metrics{}, err
		}
		logger.Debug("evaluated corpus", "corpus", c.Name, "f1", r.Metrics.F1,
			"predicted", r.Predicted, "gold", r.Gold)
		results = append(results, r)
		ms = append(ms, r.Metrics)
	}
	return results, Aggregate(ms, cfg), nil
}
