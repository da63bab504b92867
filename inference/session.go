// Package inference provides ONNX Runtime integration for SaT model inference.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Model tensor names, from inspecting the exported SaT graph.
var (
	inputNames  = []string{"input_ids", "attention_mask"}
	outputNames = []string{"logits"}
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error

	libMu   sync.Mutex
	libPath string
)

// SetLibraryPath points ONNX Runtime at a specific shared library. It only has
// an effect before the first session is created.
func SetLibraryPath(path string) {
	libMu.Lock()
	defer libMu.Unlock()
	libPath = path
}

// initORT initializes the ONNX Runtime environment once per process.
func initORT() error {
	ortEnvOnce.Do(func() {
		libMu.Lock()
		path := libPath
		libMu.Unlock()
		if path != "" {
			ort.SetSharedLibraryPath(path)
		}
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Runner runs the model on one tokenized sequence.
type Runner interface {
	Infer(ctx context.Context, inputIDs, attentionMask []int64) ([]float32, error)
	Close() error
}

// Session wraps an ONNX Runtime session for SaT inference.
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

var _ Runner = (*Session)(nil)

// NewSession creates a new ONNX session from a model file.
func NewSession(modelPath string) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, outputNames, options)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Infer runs the model on tokenized input and returns one logit per token.
func (s *Session) Infer(ctx context.Context, inputIDs, attentionMask []int64) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(inputIDs) != len(attentionMask) {
		return nil, fmt.Errorf("input_ids has %d entries, attention_mask %d", len(inputIDs), len(attentionMask))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	seqLen := int64(len(inputIDs))
	shape := ort.NewShape(1, seqLen)

	idsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = idsTensor.Destroy() }()

	maskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("creating attention_mask tensor: %w", err)
	}
	defer func() { _ = maskTensor.Destroy() }()

	// nil outputs are allocated by Run.
	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}
	if outputs[0] == nil {
		return nil, errors.New("no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	logitsTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}

	data := logitsTensor.GetData()
	if int64(len(data)) < seqLen {
		return nil, fmt.Errorf("model returned %d logits for %d tokens", len(data), seqLen)
	}
	logits := make([]float32, seqLen)
	copy(logits, data[:seqLen])

	return logits, nil
}

// Close releases ONNX resources. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
