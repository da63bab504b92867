package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-ifeval-ko/dataset"
	"github.com/jamesainslie/go-ifeval-ko/internal/apierr"
	"github.com/jamesainslie/go-ifeval-ko/sat"
)

// CLI-specific sentinel errors.
var (
	// ErrAPIKeyMissing indicates OPENAI_API_KEY environment variable is not set.
	ErrAPIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")

	// ErrNoInput indicates a text command got neither arguments nor stdin.
	ErrNoInput = errors.New("no input text")

	// ErrInvalidArgument indicates a malformed flag or argument value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrModelRequired indicates a command needs --model and --tokenizer.
	ErrModelRequired = errors.New("--model and --tokenizer are required")
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitRemote     = 5
	ExitInterrupt  = 130
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupt
	case errors.As(err, new(*usageError)):
		return ExitUsage
	case errors.Is(err, ErrAPIKeyMissing), errors.Is(err, ErrModelRequired),
		errors.Is(err, dataset.ErrSourceUnavailable),
		errors.Is(err, sat.ErrModelNotFound), errors.Is(err, sat.ErrInvalidModel),
		errors.Is(err, sat.ErrTokenizerFailed):
		return ExitSetup
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, errors.ErrUnsupported),
		errors.Is(err, ErrNoInput), errors.Is(err, ErrInvalidArgument),
		errors.Is(err, dataset.ErrMalformed):
		return ExitValidation
	case errors.Is(err, dataset.ErrDownloadFailed),
		errors.Is(err, apierr.ErrRateLimit), errors.Is(err, apierr.ErrQuotaExceeded),
		errors.Is(err, apierr.ErrTimeout), errors.Is(err, apierr.ErrAuthFailed),
		errors.Is(err, apierr.ErrServer), errors.Is(err, apierr.ErrBadRequest),
		errors.Is(err, apierr.ErrNotFound):
		return ExitRemote
	default:
		return ExitGeneral
	}
}

// usageError marks an error in how a command was invoked rather than in what
// it did.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a positional argument validator so its errors are usage
// errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// flagError is installed as the root FlagErrorFunc and inherited by every
// subcommand.
func flagError(cmd *cobra.Command, err error) error {
	return &usageError{err: err}
}
