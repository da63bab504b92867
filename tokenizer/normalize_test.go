package tokenizer

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple word", "Hello", "▁Hello"},
		{"two words", "Hello world", "▁Hello▁world"},
		{"extra spaces", "  spaces  ", "▁spaces"},
		{"tabs and newlines", "a\t\nb", "▁a▁b"},
		{"fullwidth folded", "ｈｅｌｌｏ", "▁hello"},
		{"circled digit", "①", "▁1"},
		{"korean", "안녕 하세요", "▁안녕▁하세요"},
		{"empty string", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			runes, spans := normalize(tc.input)
			if got := string(runes); got != tc.expected {
				t.Errorf("normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
			if len(spans) != len(runes) {
				t.Errorf("expected %d spans, got %d", len(runes), len(spans))
			}
		})
	}
}

func TestNormalize_Spans(t *testing.T) {
	runes, spans := normalize("ab 가")
	want := []span{{0, 0}, {0, 1}, {1, 2}, {3, 3}, {3, 6}}
	if len(spans) != len(want) {
		t.Fatalf("normalize produced %q with %d spans, want %d", string(runes), len(spans), len(want))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %v, want %v", i, spans[i], want[i])
		}
	}
}
