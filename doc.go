// Package ifevalko provides the text measurements used to score the Korean
// IFEval (IFEval-Ko) instruction-following benchmark.
//
// # Quick Start
//
//	sentences := ifevalko.SplitIntoSentences("Dr. Kim went home. He left early.")
//	// ["Dr. Kim went home." "He left early."]
//
//	n := ifevalko.CountWords("안녕하세요, 세계! 123") // 3
//
// # Sentence Counting
//
// CountSentences uses a process-wide tokenizer created on first use. A Counter
// accepts any SentenceTokenizer, for example the statistical segmenter in the
// sat package:
//
//	tok := sat.Lazy("model_optimized.onnx", "tokenizer.json")
//	defer tok.Close()
//	c := ifevalko.NewCounter(ifevalko.WithTokenizer(tok))
//	n, err := c.CountSentences(ctx, text)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
package ifevalko
