// Package tokenizer implements the XLM-RoBERTa Unigram tokenizer used by SaT
// models, loaded from a HuggingFace tokenizer.json.
package tokenizer

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// unkPenalty is subtracted from the lowest piece score to score unknown characters.
const unkPenalty = 10.0

// Tokenizer implements XLM-RoBERTa compatible Unigram tokenization. Token IDs
// are the vocabulary indices from tokenizer.json, which already follow the
// HuggingFace convention (<s>=0, <pad>=1, </s>=2, <unk>=3 for XLM-RoBERTa).
type Tokenizer struct {
	scores   map[string]float64
	ids      map[string]int32
	unkScore float64

	bosID int32
	padID int32
	eosID int32
	unkID int32

	vocabSize   int
	maxTokenLen int // in runes
}

// TokenInfo represents a token with its position in the original text.
type TokenInfo struct {
	ID    int32
	Text  string
	Start int // byte offset in original text
	End   int // byte offset in original text
}

// New loads a tokenizer from a tokenizer.json file.
func New(path string) (*Tokenizer, error) {
	model, err := LoadModel(path)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return NewFromModel(model), nil
}

// NewFromModel builds a tokenizer from an already loaded model.
func NewFromModel(model *Model) *Tokenizer {
	t := &Tokenizer{
		scores:    make(map[string]float64, len(model.Pieces)),
		ids:       make(map[string]int32, len(model.Pieces)),
		bosID:     -1,
		padID:     -1,
		eosID:     -1,
		unkID:     int32(model.UnkID),
		vocabSize: len(model.Pieces),
	}

	minScore := math.Inf(1)
	for i, p := range model.Pieces {
		id := int32(i)
		switch p.Piece {
		case "<s>":
			t.bosID = id
		case "<pad>":
			t.padID = id
		case "</s>":
			t.eosID = id
		}
		if p.Special || i == model.UnkID {
			continue
		}

		t.scores[p.Piece] = p.Score
		t.ids[p.Piece] = id
		minScore = min(minScore, p.Score)
		t.maxTokenLen = max(t.maxTokenLen, utf8.RuneCountInString(p.Piece))
	}
	if math.IsInf(minScore, 1) {
		minScore = 0
	}
	t.unkScore = minScore - unkPenalty

	return t
}

// Close releases tokenizer resources.
func (t *Tokenizer) Close() error {
	return nil
}

// VocabSize returns the number of pieces in the vocabulary.
func (t *Tokenizer) VocabSize() int {
	return t.vocabSize
}

// BOSID returns the beginning-of-sentence token ID, or -1 if absent.
func (t *Tokenizer) BOSID() int32 { return t.bosID }

// PadID returns the padding token ID, or -1 if absent.
func (t *Tokenizer) PadID() int32 { return t.padID }

// EOSID returns the end-of-sentence token ID, or -1 if absent.
func (t *Tokenizer) EOSID() int32 { return t.eosID }

// UnkID returns the unknown token ID.
func (t *Tokenizer) UnkID() int32 { return t.unkID }
