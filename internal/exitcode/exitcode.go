// Package exitcode maps error classes to process exit codes so CI systems
// can distinguish authoring mistakes from infrastructure failures.
package exitcode

import (
	goerrors "errors"
	"os"

	"github.com/pipewright/pipewright/internal/errors"
)

const (
	// Success indicates successful execution.
	Success = 0

	// GeneralError indicates an unclassified failure.
	GeneralError = 1

	// ValidationFailed indicates the pipeline definition did not validate.
	ValidationFailed = 2

	// UsageError indicates invalid command usage (bad flags, missing args).
	UsageError = 3
)

// Exit terminates the program with the given exit code.
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with the code DetermineExitCode picks for err.
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode classifies an error into an exit code. Structured
// pipeline errors map to ValidationFailed; anything else is a general
// error.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var perr *errors.PipelineError
	if goerrors.As(err, &perr) {
		return ValidationFailed
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code.
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ValidationFailed:
		return "Pipeline validation failed"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	default:
		return "Unknown error"
	}
}
