package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrAccessDenied means the access policy rejected the worker for this
	// test. User-visible, not fatal.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCompleted is the idempotency guard: a completed attempt is
	// never graded again. Callers redirect to the result report.
	ErrAlreadyCompleted = errors.New("attempt already completed")
)

// AttemptLimitError carries the worker's most recent result so callers can
// redirect to it instead of starting a new attempt.
type AttemptLimitError struct {
	LatestResultID uuid.UUID
}

func (e *AttemptLimitError) Error() string {
	return fmt.Sprintf("attempt limit reached, latest result %s", e.LatestResultID)
}
