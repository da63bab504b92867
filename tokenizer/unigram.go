package tokenizer

import "math"

// EncodeIDs returns token IDs for the input text.
func (t *Tokenizer) EncodeIDs(text string) []int32 {
	tokens := t.Encode(text)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}
	return ids
}

// Encode tokenizes text using the Viterbi algorithm, returning tokens with
// byte offsets into text.
func (t *Tokenizer) Encode(text string) []TokenInfo {
	runes, spans := normalize(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	// best[i] is the best log probability for runes[0:i]; parent[i] is where
	// the last token of that segmentation starts.
	best := make([]float64, n+1)
	parent := make([]int, n+1)
	for i := 1; i <= n; i++ {
		best[i] = math.Inf(-1)
		parent[i] = -1
	}

	for i := 1; i <= n; i++ {
		maxLen := min(t.maxTokenLen, i)
		for length := 1; length <= maxLen; length++ {
			j := i - length
			score, ok := t.scores[string(runes[j:i])]
			if !ok {
				continue
			}
			if candidate := best[j] + score; candidate > best[i] {
				best[i] = candidate
				parent[i] = j
			}
		}

		// No piece ends here: fall back to a single unknown character.
		if parent[i] == -1 {
			best[i] = best[i-1] + t.unkScore
			parent[i] = i - 1
		}
	}

	var tokens []TokenInfo
	for pos := n; pos > 0; pos = parent[pos] {
		start := parent[pos]
		piece := string(runes[start:pos])

		id, ok := t.ids[piece]
		if !ok {
			id = t.unkID
		}
		tokens = append(tokens, TokenInfo{
			ID:    id,
			Text:  piece,
			Start: spans[start].start,
			End:   spans[pos-1].end,
		})
	}

	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return tokens
}
