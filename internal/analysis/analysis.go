// Package analysis aggregates statistics over IFEval-Ko dataset records.
package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"

	ifevalko "github.com/jamesainslie/go-ifeval-ko"
	"github.com/jamesainslie/go-ifeval-ko/dataset"
)

// LengthStats summarises a per-prompt measurement.
type LengthStats struct {
	Min int     `json:"min_length" yaml:"min_length"`
	Max int     `json:"max_length" yaml:"max_length"`
	Avg float64 `json:"avg_length" yaml:"avg_length"`
}

// Stats describes a dataset.
type Stats struct {
	TotalExamples int `json:"total_examples" yaml:"total_examples"`

	// Instructions counts how many prompts use each instruction id.
	Instructions map[string]int `json:"instruction_stats" yaml:"instruction_stats"`

	// Combinations counts prompts per instruction set, keyed by the sorted
	// ids joined with ",".
	Combinations map[string]int `json:"instruction_combinations" yaml:"instruction_combinations"`

	// Prompt lengths are in characters (runes), not bytes.
	Prompt    LengthStats `json:"prompt_stats" yaml:"prompt_stats"`
	Words     LengthStats `json:"word_stats" yaml:"word_stats"`
	Sentences LengthStats `json:"sentence_stats" yaml:"sentence_stats"`
}

// Count is one entry of a ranking.
type Count struct {
	Name  string
	Count int
}

// accumulator tracks min, max and sum of a measurement.
type accumulator struct {
	n, min, max, sum int
}

func (a *accumulator) add(v int) {
	if a.n == 0 || v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}
	a.sum += v
	a.n++
}

func (a accumulator) stats() LengthStats {
	if a.n == 0 {
		return LengthStats{}
	}
	return LengthStats{Min: a.min, Max: a.max, Avg: float64(a.sum) / float64(a.n)}
}

// Analyze computes statistics over records. Sentences are counted with the
// heuristic segmenter.
func Analyze(records []dataset.Record) Stats {
	s := Stats{
		TotalExamples: len(records),
		Instructions:  make(map[string]int),
		Combinations:  make(map[string]int),
	}

	var chars, words, sentences accumulator
	for _, rec := range records {
		for _, id := range rec.InstructionIDList {
			s.Instructions[id]++
		}
		s.Combinations[CombinationKey(rec.InstructionIDList)]++

		chars.add(utf8.RuneCountInString(rec.Prompt))
		words.add(ifevalko.CountWords(rec.Prompt))
		sentences.add(ifevalko.CountSentences(rec.Prompt))
	}

	s.Prompt = chars.stats()
	s.Words = words.stats()
	s.Sentences = sentences.stats()
	return s
}

// CombinationKey returns the sorted ids joined with ",".
func CombinationKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// TopInstructions returns the n most used instructions, by count then name.
// n <= 0 returns all of them.
func (s Stats) TopInstructions(n int) []Count {
	return top(s.Instructions, n)
}

// TopCombinations returns the n most common instruction sets.
func (s Stats) TopCombinations(n int) []Count {
	return top(s.Combinations, n)
}

func top(m map[string]int, n int) []Count {
	counts := make([]Count, 0, len(m))
	for name, c := range m {
		counts = append(counts, Count{Name: name, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if n > 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}
