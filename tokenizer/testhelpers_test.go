package tokenizer

import (
	"strings"
	"testing"
)

// testVocab is a tiny XLM-RoBERTa shaped tokenizer.json.
const testVocab = `{
  "added_tokens": [
    {"id": 0, "content": "<s>", "special": true},
    {"id": 1, "content": "<pad>", "special": true},
    {"id": 2, "content": "</s>", "special": true},
    {"id": 3, "content": "<unk>", "special": true}
  ],
  "model": {
    "type": "Unigram",
    "unk_id": 3,
    "vocab": [
      ["<s>", 0.0], ["<pad>", 0.0], ["</s>", 0.0], ["<unk>", 0.0],
      ["▁", -2.0], ["▁Hello", -5.0], ["▁world", -6.0],
      ["H", -8.0], ["e", -8.0], ["l", -8.0], ["o", -8.0],
      ["▁w", -7.0], ["orld", -7.0], [".", -3.0],
      ["▁안녕", -4.0], ["하세요", -4.5]
    ]
  }
}`

func newTestTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	model, err := LoadModelFrom(strings.NewReader(testVocab))
	if err != nil {
		t.Fatalf("LoadModelFrom failed: %v", err)
	}
	return NewFromModel(model)
}
