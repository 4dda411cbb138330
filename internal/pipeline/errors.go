package pipeline

import (
	"errors"
	"fmt"
)

// Attempt-level failure classes. Everything except a missing API key is
// converted into "attempt failed, try again" inside the retry loop; only
// exhaustion reaches the caller.
var (
	// ErrInvalidFact means the parsed response did not match the fact schema.
	ErrInvalidFact = errors.New("generated fact failed schema validation")

	// ErrDuplicate means the candidate was too similar to stored content.
	// A duplicate triggers a fresh generation attempt, not a skip.
	ErrDuplicate = errors.New("generated fact is too similar to existing facts")
)

// ExhaustedError is the terminal error after all retry attempts are
// consumed. The last attempt's failure is preserved as the cause.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("fact generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }
