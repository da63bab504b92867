// Package cli implements the ifeval-ko commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-ifeval-ko/internal/config"
)

// app carries state shared by subcommands once the root command has loaded
// configuration.
type app struct {
	env    *Env
	cfg    config.Config
	logger *slog.Logger

	configPath string
	logLevel   string
	dataDir    string
}

// NewRootCmd builds the ifeval-ko command tree.
func NewRootCmd(env *Env, version string) *cobra.Command {
	a := &app{env: env, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "ifeval-ko",
		Short: "Korean IFEval dataset and text-analysis utilities",
		Long: `ifeval-ko downloads the Korean instruction-following evaluation dataset,
analyses it, and measures text properties used to score formatting
instructions (sentence and word counts).`,
		Version: version,
		// Errors are printed and mapped to exit codes by the caller.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		// Runnable so unknown commands reach Args instead of failing in Find.
		Args: usageArgs(func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(flagError)

	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/ifeval-ko/config.yaml)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.dataDir, "data-dir", "", "Directory holding the dataset")

	root.AddCommand(
		downloadCmd(a),
		updateCmd(a),
		analyzeCmd(a),
		splitCmd(a),
		countCmd(a),
		languagesCmd(a),
		keywordsCmd(a),
		respondCmd(a),
		benchCmd(a),
	)
	return root
}

// setup loads configuration and applies global flags over it.
func (a *app) setup() error {
	cfg, err := a.env.ConfigLoader.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}

	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = NewLogger(a.env.Stderr, level, a.env.Getenv("NO_COLOR") != "")
	a.logger.Debug("configuration loaded", "data_dir", cfg.DataDir, "dataset", cfg.Dataset, "source", cfg.Source)
	return nil
}

// readText joins args, or reads all of stdin when there are none.
func (a *app) readText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(a.env.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", ErrNoInput
	}
	return string(data), nil
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
