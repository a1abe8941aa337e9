package pipeline

import (
	goerrors "errors"

	"github.com/pipewright/pipewright/internal/errors"
)

// ValidationError is the structured error Validate, EmitTo, ToMap, and
// ExplainTo return. It carries a stable code, the task the problem is
// attributed to, and author-facing suggestions.
type ValidationError = errors.PipelineError

// Error codes re-exported for callers matching on failure class.
const (
	ErrCodeMissingCommand    = errors.ErrCodeMissingCommand
	ErrCodeUnknownDependency = errors.ErrCodeUnknownDependency
	ErrCodeCycleDetected     = errors.ErrCodeCycleDetected
	ErrCodeK8sInvalidOptions = errors.ErrCodeK8sInvalidOptions
	ErrCodeEncodeFailed      = errors.ErrCodeEncodeFailed
)

// AsValidationError unwraps err to a *ValidationError when one is in the
// chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if goerrors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
