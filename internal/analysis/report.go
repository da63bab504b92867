package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// topN is how many instructions and combinations the report lists.
const topN = 10

// WriteReport prints a human-readable summary of s.
func WriteReport(w io.Writer, s Stats) error {
	rule := strings.Repeat("=", 70)
	p := &printer{w: w}

	p.line("%s", rule)
	p.line("Korean IFEval Dataset Analysis")
	p.line("%s", rule)
	p.line("")

	p.line("Total Examples: %d", s.TotalExamples)
	p.line("")

	p.lengths("Prompt Length Statistics", s.Prompt, "characters")
	p.lengths("Prompt Word Count Statistics", s.Words, "words")
	p.lengths("Prompt Sentence Count Statistics", s.Sentences, "sentences")

	p.line("Top %d Most Common Instructions:", topN)
	for _, c := range s.TopInstructions(topN) {
		p.line("  %s: %d (%.1f%%)", c.Name, c.Count, percent(c.Count, s.TotalExamples))
	}
	p.line("")

	p.line("Top %d Most Common Instruction Combinations:", topN)
	for _, c := range s.TopCombinations(topN) {
		p.line("  %s: %d (%.1f%%)", describeCombination(c.Name), c.Count, percent(c.Count, s.TotalExamples))
	}
	p.line("")

	p.line("%s", rule)
	return p.err
}

// describeCombination lists up to three ids joined with " + " and
// summarises larger sets by size.
func describeCombination(key string) string {
	ids := strings.Split(key, ",")
	if len(ids) > 3 {
		return fmt.Sprintf("%d instructions", len(ids))
	}
	return strings.Join(ids, " + ")
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) lengths(title string, l LengthStats, unit string) {
	p.line("%s:", title)
	p.line("  Minimum: %d %s", l.Min, unit)
	p.line("  Maximum: %d %s", l.Max, unit)
	p.line("  Average: %.2f %s", l.Avg, unit)
	p.line("")
}

// WriteFile saves s as YAML when path ends in .yaml or .yml, otherwise as
// indented JSON.
func WriteFile(path string, s Stats) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		data, err = json.MarshalIndent(s, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding statistics: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
