package scraper

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates the requested file or resource does not exist at the
// hosting platform. Callers probing candidate paths advance on this and only
// this error.
var ErrNotFound = errors.New("not found")

// RateLimitExhaustedError signals that no credential in the pool is usable.
// Callers must back off until ResetAt, the earliest reset among all tokens.
type RateLimitExhaustedError struct {
	ResetAt time.Time
}

func (e *RateLimitExhaustedError) Error() string {
	return fmt.Sprintf("all tokens exhausted, earliest reset at %s", e.ResetAt.Format(time.RFC3339))
}

// TransportError wraps a network or timeout failure. It triggers the content
// fetcher's single raw-content fallback attempt.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err represents a missing file or resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport reports whether err is a network/timeout failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRateLimitExhausted reports whether err means the whole pool is out of
// quota.
func IsRateLimitExhausted(err error) bool {
	var re *RateLimitExhaustedError
	return errors.As(err, &re)
}
