// Package errors defines the structured error type returned by emission-time
// validation. Construction-time misuse of the builder API is not represented
// here; those are programming mistakes and panic immediately.
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Graph errors (GRAPH-001 to GRAPH-099)
	ErrCodeMissingCommand    ErrorCode = "GRAPH-001"
	ErrCodeUnknownDependency ErrorCode = "GRAPH-002"
	ErrCodeCycleDetected     ErrorCode = "GRAPH-003"

	// K8s option errors (K8S-001 to K8S-099)
	ErrCodeK8sInvalidOptions ErrorCode = "K8S-001"

	// Document errors (DOC-001 to DOC-099)
	ErrCodeEncodeFailed ErrorCode = "DOC-001"
)

// PipelineError is an emission-time validation failure with a stable code,
// the task it is attributed to, and optional suggestions for the author.
type PipelineError struct {
	Code        ErrorCode
	Message     string
	Task        string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// New creates a new PipelineError
func New(code ErrorCode, message string) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PipelineError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithTask attributes the error to a task
func (e *PipelineError) WithTask(name string) *PipelineError {
	e.Task = name
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *PipelineError) WithSuggestion(suggestion string) *PipelineError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// Common error constructors

// NewMissingCommandError reports a task that reached emission without a command.
func NewMissingCommandError(task string) *PipelineError {
	return New(ErrCodeMissingCommand, fmt.Sprintf("task %q has no command", task)).
		WithTask(task).
		WithSuggestion(fmt.Sprintf("call Run() on task %q before emitting", task))
}

// NewUnknownDependencyError reports a dependency edge pointing at a task that
// does not exist. suggestion may be empty when no candidate scored above the
// similarity threshold.
func NewUnknownDependencyError(task, dep, suggestion string) *PipelineError {
	msg := fmt.Sprintf("task %q depends on unknown task %q", task, dep)
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	err := New(ErrCodeUnknownDependency, msg).WithTask(task)
	if suggestion != "" {
		err = err.WithSuggestion(fmt.Sprintf("did you mean %q?", suggestion))
	}
	return err
}

// NewCycleError reports a dependency cycle. path is a closed loop starting
// and ending at the same task.
func NewCycleError(path []string) *PipelineError {
	return New(ErrCodeCycleDetected, fmt.Sprintf("dependency cycle: %s", strings.Join(path, " -> "))).
		WithSuggestion("remove one of the edges in the cycle")
}

// NewK8sOptionsError reports an invalid merged K8s option value on a task.
func NewK8sOptionsError(task string, cause error) *PipelineError {
	return Wrap(ErrCodeK8sInvalidOptions, fmt.Sprintf("task %q: invalid k8s options", task), cause).
		WithTask(task)
}
