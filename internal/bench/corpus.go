// Package bench evaluates sentence tokenizers against gold-standard corpora.
package bench

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Corpus is a text with gold sentence boundaries.
type Corpus struct {
	Name       string `json:"name"`
	Source     string `json:"source"`
	Text       string `json:"text"`
	Sentences  int    `json:"sentences"`
	Boundaries []int  `json:"boundaries"` // byte offsets just past each sentence
}

// FromSentences joins sentences with single spaces and records where each
// one ends.
func FromSentences(name, source string, sentences []string) Corpus {
	var text strings.Builder
	boundaries := make([]int, 0, len(sentences))
	for i, s := range sentences {
		if i > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(s)
		boundaries = append(boundaries, text.Len())
	}
	return Corpus{
		Name:       name,
		Source:     source,
		Text:       text.String(),
		Sentences:  len(sentences),
		Boundaries: boundaries,
	}
}

// Header contains metadata parsed from a plain-text corpus header.
type Header struct {
	Source string
	Title  string
}

// ParseHeader extracts "# Key: value" metadata from the top of text.
// Returns the header, remaining text after header, and any error.
func ParseHeader(text string) (Header, string, error) {
	var h Header
	scanner := bufio.NewScanner(strings.NewReader(text))
	bodyStart := len(text)
	offset := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineStart := offset
		offset += len(line) + 1

		if !strings.HasPrefix(line, "#") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			bodyStart = lineStart
			break
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if value, ok := strings.CutPrefix(line, "Source:"); ok {
			h.Source = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Title:"); ok {
			h.Title = strings.TrimSpace(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return Header{}, "", fmt.Errorf("scan header: %w", err)
	}
	if h.Source == "" {
		return Header{}, "", errors.New("missing Source in header")
	}

	return h, strings.TrimSpace(text[bodyStart:]), nil
}

// ParseText builds a corpus from a header followed by one sentence per line.
func ParseText(name, text string) (Corpus, error) {
	h, body, err := ParseHeader(text)
	if err != nil {
		return Corpus{}, err
	}

	var sentences []string
	for line := range strings.Lines(body) {
		if s := strings.TrimSpace(line); s != "" {
			sentences = append(sentences, s)
		}
	}

	if h.Title != "" {
		name = h.Title
	}
	return FromSentences(name, h.Source, sentences), nil
}

// LoadFile reads a .json corpus or a .txt one-sentence-per-line corpus.
func LoadFile(path string) (Corpus, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- corpus path is user-supplied by design
	if err != nil {
		return Corpus{}, fmt.Errorf("read file: %w", err)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	switch filepath.Ext(path) {
	case ".json":
		var c Corpus
		if err := json.Unmarshal(data, &c); err != nil {
			return Corpus{}, fmt.Errorf("decode %s: %w", base, err)
		}
		if c.Name == "" {
			c.Name = name
		}
		if err := c.validate(); err != nil {
			return Corpus{}, fmt.Errorf("%s: %w", base, err)
		}
		return c, nil
	case ".txt":
		c, err := ParseText(name, string(data))
		if err != nil {
			return Corpus{}, fmt.Errorf("parse %s: %w", base, err)
		}
		return c, nil
	default:
		return Corpus{}, fmt.Errorf("unsupported corpus file %s", base)
	}
}

func (c Corpus) validate() error {
	prev := 0
	for _, b := range c.Boundaries {
		if b < prev || b > len(c.Text) {
			return fmt.Errorf("boundary %d out of order or past end of text", b)
		}
		prev = b
	}
	return nil
}

// LoadCorpus loads all .json and .txt corpora from a directory, sorted by name.
func LoadCorpus(dir string) ([]Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var corpora []Corpus
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".json", ".txt":
		default:
			continue
		}

		c, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		corpora = append(corpora, c)
	}

	sort.Slice(corpora, func(i, j int) bool { return corpora[i].Name < corpora[j].Name })
	return corpora, nil
}
