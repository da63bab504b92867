package cli_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jamesainslie/go-ifeval-ko/dataset"
	"github.com/jamesainslie/go-ifeval-ko/internal/cli"
	"github.com/jamesainslie/go-ifeval-ko/internal/config"
	"github.com/jamesainslie/go-ifeval-ko/internal/respond"
	"github.com/jamesainslie/go-ifeval-ko/sat"
)

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	cfg      config.Config
	err      error
	lastPath string
}

func (m *mockConfigLoader) Load(path string) (config.Config, error) {
	m.lastPath = path
	return m.cfg, m.err
}

// ---------------------------------------------------------------------------
// Dataset source
// ---------------------------------------------------------------------------

type mockSource struct {
	records []dataset.Record
	err     error
}

func (m mockSource) Fetch(ctx context.Context) ([]dataset.Record, error) {
	return m.records, m.err
}

type mockSourceFactory struct {
	source   dataset.Source
	err      error
	lastKind string
}

func (m *mockSourceFactory) NewSource(kind string, opts ...dataset.HubOption) (dataset.Source, error) {
	m.lastKind = kind
	return m.source, m.err
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

type mockChat struct {
	calls atomic.Int32
}

func (m *mockChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.calls.Add(1)
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Content: strings.ToUpper(req.Messages[0].Content)},
		}},
	}, nil
}

type mockChatFactory struct {
	chat        *mockChat
	lastKey     string
	lastBaseURL string
}

func (m *mockChatFactory) NewChat(apiKey, baseURL string) respond.ChatCompleter {
	m.lastKey, m.lastBaseURL = apiKey, baseURL
	return m.chat
}

// ---------------------------------------------------------------------------
// Segmenter
// ---------------------------------------------------------------------------

// mockSegmenter splits on newlines.
type mockSegmenter struct {
	closed atomic.Bool
}

func (m *mockSegmenter) Tokenize(ctx context.Context, text string) ([]string, error) {
	var out []string
	for line := range strings.Lines(text) {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSegmenter) Close() error {
	m.closed.Store(true)
	return nil
}

type mockSegmenterFactory struct {
	mu      sync.Mutex
	created []*mockSegmenter
	model   string
}

func (m *mockSegmenterFactory) NewSegmenter(modelPath, tokenizerPath, onnxLib string, opts ...sat.Option) cli.Segmenter {
	m.mu.Lock()
	defer m.mu.Unlock()
	seg := &mockSegmenter{}
	m.created = append(m.created, seg)
	m.model = modelPath
	return seg
}
