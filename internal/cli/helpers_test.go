package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/go-ifeval-ko/internal/cli"
	"github.com/jamesainslie/go-ifeval-ko/internal/config"
)

// ---------------------------------------------------------------------------
// testEnv - a fully mocked Env
// ---------------------------------------------------------------------------

type testEnv struct {
	env        *cli.Env
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	vars       map[string]string
	config     *mockConfigLoader
	sources    *mockSourceFactory
	chats      *mockChatFactory
	segmenters *mockSegmenterFactory
}

var fixedNow = time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	te := &testEnv{
		stdout:     &bytes.Buffer{},
		stderr:     &bytes.Buffer{},
		vars:       map[string]string{"NO_COLOR": "1"},
		config:     &mockConfigLoader{cfg: cfg},
		sources:    &mockSourceFactory{},
		chats:      &mockChatFactory{chat: &mockChat{}},
		segmenters: &mockSegmenterFactory{},
	}
	te.env = cli.NewEnv(
		cli.WithStdin(strings.NewReader("")),
		cli.WithStdout(te.stdout),
		cli.WithStderr(te.stderr),
		cli.WithGetenv(func(k string) string { return te.vars[k] }),
		cli.WithNow(func() time.Time { return fixedNow }),
		cli.WithConfigLoader(te.config),
		cli.WithSourceFactory(te.sources),
		cli.WithChatFactory(te.chats),
		cli.WithSegmenterFactory(te.segmenters),
	)
	return te
}

// run executes the root command with args.
func (te *testEnv) run(args ...string) error {
	root := cli.NewRootCmd(te.env, "test")
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
