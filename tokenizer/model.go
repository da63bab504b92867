package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrUnsupportedModel indicates tokenizer.json describes a model other than Unigram.
	ErrUnsupportedModel = errors.New("tokenizer: unsupported model type")

	// ErrEmptyVocab indicates the model carries no vocabulary.
	ErrEmptyVocab = errors.New("tokenizer: empty vocabulary")
)

// Piece is a vocabulary entry. Its ID is its index in Model.Pieces.
type Piece struct {
	Piece   string
	Score   float64
	Special bool
}

// Model is the Unigram section of a HuggingFace tokenizer.json.
type Model struct {
	Pieces []Piece
	UnkID  int
}

type tokenizerFile struct {
	Model struct {
		Type  string       `json:"type"`
		UnkID *int         `json:"unk_id"`
		Vocab []vocabEntry `json:"vocab"`
	} `json:"model"`
	AddedTokens []struct {
		ID      int    `json:"id"`
		Content string `json:"content"`
		Special bool   `json:"special"`
	} `json:"added_tokens"`
}

// vocabEntry decodes the ["piece", score] pairs of a Unigram vocab.
type vocabEntry struct {
	piece string
	score float64
}

func (v *vocabEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("vocab entry has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &v.piece); err != nil {
		return fmt.Errorf("vocab piece: %w", err)
	}
	if err := json.Unmarshal(pair[1], &v.score); err != nil {
		return fmt.Errorf("vocab score: %w", err)
	}
	return nil
}

// LoadModel loads the Unigram model from a tokenizer.json file.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tokenizer file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadModelFrom(f)
}

// LoadModelFrom decodes a tokenizer.json document from r.
func LoadModelFrom(r io.Reader) (*Model, error) {
	var file tokenizerFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing tokenizer json: %w", err)
	}

	if file.Model.Type != "Unigram" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, file.Model.Type)
	}
	if len(file.Model.Vocab) == 0 {
		return nil, ErrEmptyVocab
	}

	pieces := make([]Piece, len(file.Model.Vocab))
	for i, v := range file.Model.Vocab {
		pieces[i] = Piece{Piece: v.piece, Score: v.score}
	}
	for _, added := range file.AddedTokens {
		if added.Special && added.ID >= 0 && added.ID < len(pieces) {
			pieces[added.ID].Special = true
		}
	}

	unkID := 0
	if file.Model.UnkID != nil {
		unkID = *file.Model.UnkID
	}
	if unkID < 0 || unkID >= len(pieces) {
		return nil, fmt.Errorf("unk_id %d outside vocabulary of %d pieces", unkID, len(pieces))
	}

	return &Model{Pieces: pieces, UnkID: unkID}, nil
}
