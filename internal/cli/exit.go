package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitFatal = 1
)

// HintError attaches an operator remediation hint to an error.
type HintError struct {
	Err  error
	Hint string
}

func (e *HintError) Error() string { return e.Err.Error() }

func (e *HintError) Unwrap() error { return e.Err }

// WithHint wraps err with hint. A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &HintError{Err: err, Hint: hint}
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitFatal
}

// Report writes err and its hint, if any, to w.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)

	var hint *HintError
	if errors.As(err, &hint) && hint.Hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint.Hint)
		return
	}
	if params.IsConfigurationError(err) {
		fmt.Fprintln(w, "Hint: create the parameter with `aws ssm put-parameter` and run the command again")
	}
}

// Execute runs cmd and returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	Report(cmd.ErrOrStderr(), err)
	return ExitCode(err)
}
