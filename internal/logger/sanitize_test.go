package logger

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"plain path", "/api/v1/todos", "/api/v1/todos"},
		{"control characters removed", "/api\x00/v1\x07/todos", "/api/v1/todos"},
		{"newline kept", "/a\nb", "/a\nb"},
		{"invalid utf8 dropped", "/api/\xff\xfetodos", "/api/todos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizePath(tt.path); got != tt.expected {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}

	t.Run("long path truncated", func(t *testing.T) {
		t.Parallel()
		got := SanitizePath("/" + strings.Repeat("a", MaxPathLength*2))
		if len(got) != MaxPathLength+len("...") {
			t.Errorf("expected truncation to %d+ellipsis, got length %d", MaxPathLength, len(got))
		}
		if !strings.HasSuffix(got, "...") {
			t.Error("expected ellipsis suffix on truncated path")
		}
	})
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}

	injected := errors.New("pq: fail\x00ure\n\x1b[2Jnear \"sort_order\"")
	got := SanitizeError(injected)
	if strings.ContainsRune(got, '\x00') || strings.ContainsRune(got, '\x1b') {
		t.Errorf("control characters not removed: %q", got)
	}
	if !strings.Contains(got, "sort_order") {
		t.Errorf("message content lost: %q", got)
	}

	long := errors.New(strings.Repeat("x", MaxErrorMessageLength+100))
	if got := SanitizeError(long); len(got) != MaxErrorMessageLength+len("...") {
		t.Errorf("expected truncation to %d+ellipsis, got length %d", MaxErrorMessageLength, len(got))
	}
}

func TestSanitizeDebugContent(t *testing.T) {
	t.Parallel()

	content := "COL_SUMMARY: fine\x00 week\nCOL_ACTION_PLAN_1:\tplan"
	got := SanitizeDebugContent(content)
	if got != "COL_SUMMARY: fine week\nCOL_ACTION_PLAN_1:\tplan" {
		t.Errorf("unexpected sanitized content: %q", got)
	}

	long := strings.Repeat("y", MaxDebugContentLength+1)
	if got := SanitizeDebugContent(long); len(got) != MaxDebugContentLength+len("...") {
		t.Errorf("expected truncation to %d+ellipsis, got length %d", MaxDebugContentLength, len(got))
	}
}
