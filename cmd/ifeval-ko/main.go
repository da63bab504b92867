// Command ifeval-ko downloads and analyses the Korean IFEval dataset.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jamesainslie/go-ifeval-ko/internal/cli"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := cli.DefaultEnv()
	root := cli.NewRootCmd(env, fmt.Sprintf("%s (commit %s, built %s)", version, commit, date))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(cli.ExitCode(err))
	}
}
