// Package todo holds the pure reconciliation logic that prepares a
// client-submitted list for storage: text normalization, stable id
// assignment and batch validation. Nothing here touches the database.
package todo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hyunwkim/dailytodo/internal/models"
	"github.com/hyunwkim/dailytodo/internal/validation"
)

// ValidationError reports a rejected save batch. Position is the zero-based
// index of the offending item in the post-discard sequence.
type ValidationError struct {
	Position int
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid todo at position %d: %s", e.Position, e.Reason)
}

// Normalize filters a raw client batch down to storable items. Text comes
// from the decode step (first accepted field name wins) and is sanitized
// before storage; items whose text is blank after sanitization are dropped
// silently and do not count as errors. Input order is preserved across the
// discard.
func Normalize(items []models.IncomingTodo) []models.TodoItem {
	valid := make([]models.TodoItem, 0, len(items))
	for _, item := range items {
		text := validation.SanitizeText(item.Text)
		if text == "" {
			continue
		}
		valid = append(valid, models.TodoItem{
			ID:        parseSuppliedID(item.ID),
			Text:      text,
			Completed: item.Completed,
		})
	}
	return valid
}

// AssignIDs fills in ids for items that arrived without one. New ids are the
// current unix-millisecond timestamp plus the item's batch position, so N
// id-less items in one save get N distinct, monotonically increasing ids.
// now is injectable for tests.
func AssignIDs(items []models.TodoItem, now func() time.Time) {
	base := now().UnixMilli()
	for i := range items {
		if items[i].ID == 0 {
			items[i].ID = base + int64(i)
		}
	}
}

// ValidateBatch enforces the explicit save policies: duplicate ids within one
// batch are rejected rather than silently overwriting each other, and text
// over the storage limit is rejected rather than truncated.
func ValidateBatch(items []models.TodoItem) error {
	seen := make(map[int64]int, len(items))
	for i, item := range items {
		if first, dup := seen[item.ID]; dup {
			return &ValidationError{
				Position: i,
				Reason:   fmt.Sprintf("duplicate id %d (also at position %d)", item.ID, first),
			}
		}
		seen[item.ID] = i
		if len(item.Text) > models.MaxTodoTextLength {
			return &ValidationError{
				Position: i,
				Reason:   fmt.Sprintf("text exceeds %d characters", models.MaxTodoTextLength),
			}
		}
	}
	return nil
}

// parseSuppliedID resolves a client-supplied id to int64, or 0 when the item
// needs a fresh id: absent, empty, zero, the literal "undefined" in any case,
// or a value that does not parse as an integer.
func parseSuppliedID(raw any) int64 {
	switch id := raw.(type) {
	case nil:
		return 0
	case float64:
		return int64(id)
	case string:
		s := strings.TrimSpace(id)
		if s == "" || strings.EqualFold(s, "undefined") {
			return 0
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
