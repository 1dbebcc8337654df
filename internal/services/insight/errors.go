package insight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// GenerationError is surfaced when the text-generation call fails after the
// retry budget is spent, or fails with a condition that is not retried.
type GenerationError struct {
	Attempts int
	LastErr  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("insight generation failed after %d attempt(s): %v", e.Attempts, e.LastErr)
}

func (e *GenerationError) Unwrap() error {
	return e.LastErr
}

// IsOverloaded reports whether err carries the upstream server-busy signal:
// HTTP 529 or 503, or an "overloaded" message.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "529") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded")
}

// IsTransportFailure reports whether err is a network-level failure rather
// than an API-level rejection.
func IsTransportFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryable reports whether a failed attempt should be retried. Only
// transport failures and the overload signal are retried; every other
// failure surfaces immediately.
func retryable(err error) bool {
	return IsOverloaded(err) || IsTransportFailure(err)
}
