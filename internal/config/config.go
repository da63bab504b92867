// Package config loads ifeval-ko settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/go-ifeval-ko/dataset"
)

// FileName is the config file looked up under the config directory.
const FileName = "config.yaml"

// Config holds user configuration. Precedence, lowest first: Default, the
// YAML file, environment variables. Command-line flags are applied by the CLI.
type Config struct {
	DataDir     string `yaml:"data_dir"     env:"IFEVAL_KO_DATA_DIR"`
	Dataset     string `yaml:"dataset"      env:"IFEVAL_KO_DATASET"`
	Split       string `yaml:"split"        env:"IFEVAL_KO_SPLIT"`
	Source      string `yaml:"source"       env:"IFEVAL_KO_SOURCE"`
	HubEndpoint string `yaml:"hub_endpoint" env:"IFEVAL_KO_HUB_ENDPOINT"`
	HFToken     string `yaml:"hf_token"     env:"HF_TOKEN"`
	LogLevel    string `yaml:"log_level"    env:"IFEVAL_KO_LOG_LEVEL"`

	SatModel       string `yaml:"sat_model"       env:"IFEVAL_KO_SAT_MODEL"`
	SatTokenizer   string `yaml:"sat_tokenizer"   env:"IFEVAL_KO_SAT_TOKENIZER"`
	OnnxRuntimeLib string `yaml:"onnxruntime_lib" env:"ONNXRUNTIME_LIB"`

	OpenAIModel   string `yaml:"openai_model"    env:"IFEVAL_KO_OPENAI_MODEL"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:     "data",
		Dataset:     dataset.DefaultName,
		Split:       dataset.DefaultSplit,
		Source:      "parquet",
		HubEndpoint: dataset.DefaultEndpoint,
		LogLevel:    "info",
		OpenAIModel: "gpt-4o-mini",
	}
}

// Dir returns the configuration directory: $XDG_CONFIG_HOME/ifeval-ko, or
// ~/.config/ifeval-ko when XDG_CONFIG_HOME is unset.
func Dir(getenv func(string) string) (string, error) {
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ifeval-ko"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ifeval-ko"), nil
}

// DefaultPath returns the config file path inside Dir.
func DefaultPath(getenv func(string) string) (string, error) {
	d, err := Dir(getenv)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, FileName), nil
}

// Loader reads configuration. The zero value reads the default path and the
// process environment.
type Loader struct {
	// Path overrides the config file location.
	Path string
	// Environment replaces os.Environ when non-nil.
	Environment map[string]string
}

// Load returns the merged configuration. A missing file is not an error;
// an explicit Path that is missing is.
func (l Loader) Load() (Config, error) {
	cfg := Default()

	getenv := os.Getenv
	if l.Environment != nil {
		getenv = func(k string) string { return l.Environment[k] }
	}

	p := l.Path
	if p == "" {
		var err error
		if p, err = DefaultPath(getenv); err != nil {
			return cfg, err
		}
	}

	if err := readFile(p, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || l.Path != "" {
			return cfg, err
		}
	}

	opts := env.Options{}
	if l.Environment != nil {
		opts.Environment = l.Environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// Load reads the default config file and the process environment.
func Load() (Config, error) {
	return Loader{}.Load()
}

func readFile(p string, cfg *Config) error {
	data, err := os.ReadFile(p) // #nosec G304 -- path comes from the user or the config dir
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", p, err)
	}
	return nil
}

// Save writes cfg as YAML to p, creating the parent directory.
func (c Config) Save(p string) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}
