package insight

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestIsOverloaded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "status 529", err: errors.New("unexpected status 529"), expected: true},
		{name: "status 503", err: errors.New("503 Service Unavailable"), expected: true},
		{name: "overloaded message", err: errors.New("api_error: Overloaded, try again"), expected: true},
		{name: "rate limit", err: errors.New("429 too many requests"), expected: false},
		{name: "auth failure", err: errors.New("401 invalid api key"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsOverloaded(tt.err); got != tt.expected {
				t.Errorf("IsOverloaded(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestIsTransportFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, expected: true},
		{
			name:     "wrapped deadline",
			err:      fmt.Errorf("generation request failed: %w", context.DeadlineExceeded),
			expected: true,
		},
		{
			name:     "url error",
			err:      &url.Error{Op: "Post", URL: "https://api.example.com", Err: errors.New("connection refused")},
			expected: true,
		},
		{name: "plain api rejection", err: errors.New("400 bad request"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsTransportFailure(tt.err); got != tt.expected {
				t.Errorf("IsTransportFailure(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestGenerationError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("overloaded")
	err := &GenerationError{Attempts: 3, LastErr: inner}

	if !errors.Is(err, inner) {
		t.Error("expected GenerationError to unwrap to the last attempt error")
	}
}
