package domain

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrExtraction     = errors.New("extraction failed")
	ErrTranslation    = errors.New("translation failed")
	ErrSynthesis      = errors.New("synthesis failed")
	ErrPublish        = errors.New("publish failed")
	ErrLog            = errors.New("audit log failed")

	// ErrTimeout marks a stage failure caused by an expired per-call deadline.
	// It is retryable at the invocation boundary.
	ErrTimeout = errors.New("timeout")
)

// StageError is a failure of one pipeline stage.
type StageError struct {
	Stage    error
	Language string
	Err      error
}

// NewStageError wraps err as a failure of the given stage kind.
func NewStageError(stage error, language string, err error) *StageError {
	return &StageError{Stage: stage, Language: language, Err: err}
}

func (e *StageError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("%v (%s): %v", e.Stage, e.Language, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

// Unwrap exposes the stage kind, the cause and ErrTimeout when the cause is an
// expired deadline.
func (e *StageError) Unwrap() []error {
	errs := []error{e.Stage, e.Err}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		errs = append(errs, ErrTimeout)
	}
	return errs
}

// IsRetryable reports whether the invoking platform should retry after err.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout)
}
