//go:build ignore

// Convert Universal Dependencies Korean treebanks (CoNLL-U) into gold corpora
// for "ifeval-ko bench".
//
// Usage: go run ./scripts/build-gold-corpus.go -in testdata/ud-ko -out testdata/gold
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jamesainslie/go-ifeval-ko/dataset"
	"github.com/jamesainslie/go-ifeval-ko/internal/bench"
)

const udSource = "https://universaldependencies.org/treebanks/ko-comparison.html"

func main() {
	inDir := flag.String("in", "testdata/ud-ko", "Directory containing *.conllu files")
	outDir := flag.String("out", "testdata/gold", "Output directory for corpus JSON")
	flag.Parse()

	files, err := doublestar.FilepathGlob(filepath.Join(*inDir, "**", "*.conllu"))
	if err != nil || len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no CoNLL-U files under %s\n", *inDir)
		os.Exit(1)
	}

	var all []string
	for _, path := range files {
		sentences, err := readSentences(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			continue
		}
		all = append(all, sentences...)

		name := strings.TrimSuffix(filepath.Base(path), ".conllu")
		if err := write(*outDir, bench.FromSentences(name, udSource, sentences)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", name, err)
		}
	}

	if err := write(*outDir, bench.FromSentences("ud-ko-combined", udSource, all)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing combined corpus: %v\n", err)
		os.Exit(1)
	}
}

// readSentences returns the "# text = " line of every sentence block.
func readSentences(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sentences []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if text, ok := strings.CutPrefix(scanner.Text(), "# text = "); ok {
			if text = strings.TrimSpace(text); text != "" {
				sentences = append(sentences, text)
			}
		}
	}
	return sentences, scanner.Err()
}

func write(dir string, c bench.Corpus) error {
	path := filepath.Join(dir, c.Name+".json")
	err := dataset.WriteAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	})
	if err != nil {
		return err
	}
	fmt.Printf("  -> %s (%d sentences, %d bytes)\n", path, c.Sentences, len(c.Text))
	return nil
}
