package tokenizer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadModelFrom(t *testing.T) {
	model, err := LoadModelFrom(strings.NewReader(testVocab))
	if err != nil {
		t.Fatalf("LoadModelFrom failed: %v", err)
	}

	if len(model.Pieces) != 16 {
		t.Errorf("expected 16 pieces, got %d", len(model.Pieces))
	}
	if model.UnkID != 3 {
		t.Errorf("expected unk_id 3, got %d", model.UnkID)
	}
	if !model.Pieces[0].Special || model.Pieces[5].Special {
		t.Error("special flags not applied from added_tokens")
	}
	if model.Pieces[5].Piece != "▁Hello" || model.Pieces[5].Score != -5 {
		t.Errorf("unexpected piece 5: %+v", model.Pieces[5])
	}
}

func TestLoadModel_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenizer.json")
	if err := os.WriteFile(path, []byte(testVocab), 0o600); err != nil {
		t.Fatal(err)
	}

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if len(model.Pieces) != 16 {
		t.Errorf("expected 16 pieces, got %d", len(model.Pieces))
	}
}

func TestLoadModel_FileNotFound(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadModelFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"bpe model", `{"model": {"type": "BPE", "vocab": [["a", 0]]}}`, ErrUnsupportedModel},
		{"empty vocab", `{"model": {"type": "Unigram", "vocab": []}}`, ErrEmptyVocab},
		{"not json", `sentencepiece`, nil},
		{"bad entry", `{"model": {"type": "Unigram", "vocab": [["a"]]}}`, nil},
		{"unk out of range", `{"model": {"type": "Unigram", "unk_id": 9, "vocab": [["a", 0]]}}`, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadModelFrom(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
