package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a user or repository does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited is matched by every RateLimitError.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// RateLimitError is returned when the hosting API refuses requests until Reset.
type RateLimitError struct {
	Reset time.Time
	Err   error
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return fmt.Sprintf("%s: %v", ErrRateLimited, e.Err)
	}
	return fmt.Sprintf("%s (resets at %s): %v", ErrRateLimited, e.Reset.Format(time.RFC3339), e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRateLimited) hold for any RateLimitError.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
