// Package sat provides statistical sentence boundary detection using
// wtpsplit/SaT ONNX models. It complements the rule-based splitter in the
// root package when counting sentences in model responses.
//
// # Quick Start
//
//	seg, err := sat.New("model_optimized.onnx", "tokenizer.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer seg.Close()
//
//	sentences, err := seg.Segment(ctx, "첫 문장입니다. 두 번째 문장입니다.")
//
// To load the model only when it is first needed, use Lazy, which also
// satisfies ifevalko.SentenceTokenizer.
//
// # Thread Safety
//
// Segmenter is safe for concurrent use. It manages an internal pool of ONNX
// sessions, configurable via WithPoolSize.
//
// # Model Files
//
// Download from HuggingFace:
//   - Model: https://huggingface.co/segment-any-text/sat-1l-sm/resolve/main/model_optimized.onnx
//   - Tokenizer: https://huggingface.co/FacebookAI/xlm-roberta-base/resolve/main/tokenizer.json
//
// The ONNX Runtime shared library is located through inference.SetLibraryPath
// or the platform default.
package sat
