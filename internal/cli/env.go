package cli

import (
	"io"
	"os"
	"time"

	ifevalko "github.com/jamesainslie/go-ifeval-ko"
	"github.com/jamesainslie/go-ifeval-ko/dataset"
	"github.com/jamesainslie/go-ifeval-ko/inference"
	"github.com/jamesainslie/go-ifeval-ko/internal/config"
	"github.com/jamesainslie/go-ifeval-ko/internal/respond"
	"github.com/jamesainslie/go-ifeval-ko/sat"
)

// Env holds injectable dependencies for CLI commands.
// Tests replace the factories to run commands without network or models.
type Env struct {
	// I/O and environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader     ConfigLoader
	SourceFactory    SourceFactory
	ChatFactory      ChatFactory
	SegmenterFactory SegmenterFactory
}

// ConfigLoader loads configuration. path is empty unless --config was given.
type ConfigLoader interface {
	Load(path string) (config.Config, error)
}

// SourceFactory creates dataset sources.
type SourceFactory interface {
	NewSource(kind string, opts ...dataset.HubOption) (dataset.Source, error)
}

// ChatFactory creates chat completion clients.
type ChatFactory interface {
	NewChat(apiKey, baseURL string) respond.ChatCompleter
}

// Segmenter is a sentence tokenizer holding resources.
type Segmenter interface {
	ifevalko.SentenceTokenizer
	Close() error
}

// SegmenterFactory creates statistical segmenters. Loading is deferred until
// first use.
type SegmenterFactory interface {
	NewSegmenter(modelPath, tokenizerPath, onnxLib string, opts ...sat.Option) Segmenter
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithSourceFactory sets the dataset source factory.
func WithSourceFactory(f SourceFactory) EnvOption {
	return func(e *Env) {
		e.SourceFactory = f
	}
}

// WithChatFactory sets the chat client factory.
func WithChatFactory(f ChatFactory) EnvOption {
	return func(e *Env) {
		e.ChatFactory = f
	}
}

// WithSegmenterFactory sets the segmenter factory.
func WithSegmenterFactory(f SegmenterFactory) EnvOption {
	return func(e *Env) {
		e.SegmenterFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		Getenv:           os.Getenv,
		Now:              time.Now,
		ConfigLoader:     defaultConfigLoader{},
		SourceFactory:    defaultSourceFactory{},
		ChatFactory:      defaultChatFactory{},
		SegmenterFactory: defaultSegmenterFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

type defaultConfigLoader struct{}

func (defaultConfigLoader) Load(path string) (config.Config, error) {
	return config.Loader{Path: path}.Load()
}

type defaultSourceFactory struct{}

func (defaultSourceFactory) NewSource(kind string, opts ...dataset.HubOption) (dataset.Source, error) {
	return dataset.NewSource(kind, opts...)
}

type defaultChatFactory struct{}

func (defaultChatFactory) NewChat(apiKey, baseURL string) respond.ChatCompleter {
	return respond.NewClient(apiKey, baseURL)
}

type defaultSegmenterFactory struct{}

func (defaultSegmenterFactory) NewSegmenter(modelPath, tokenizerPath, onnxLib string, opts ...sat.Option) Segmenter {
	if onnxLib != "" {
		inference.SetLibraryPath(onnxLib)
	}
	return sat.Lazy(modelPath, tokenizerPath, opts...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = defaultConfigLoader{}
	_ SourceFactory    = defaultSourceFactory{}
	_ ChatFactory      = defaultChatFactory{}
	_ SegmenterFactory = defaultSegmenterFactory{}
	_ Segmenter        = (*sat.LazySegmenter)(nil)
)
