package models

import (
	"encoding/json"
	"strconv"
)

// textFieldPriority is the ordered list of accepted text field names. Older
// clients send "content", "todo_text" or "label" instead of "text"; the first
// present non-null field wins.
var textFieldPriority = []string{"text", "content", "todo_text", "label"}

// IncomingTodo is one loosely-shaped todo record from a client payload.
// ID is kept untyped here; the id assigner decides whether the supplied value
// is usable or a fresh id is needed.
type IncomingTodo struct {
	ID        any
	Text      string
	Completed bool
}

// UnmarshalJSON decodes an inbound item, accepting heterogeneous field names
// for the text and coercing completed via truthiness.
func (t *IncomingTodo) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, field := range textFieldPriority {
		if v, ok := raw[field]; ok && v != nil {
			t.Text = coerceString(v)
			break
		}
	}

	t.Completed = truthy(raw["completed"])
	t.ID = raw["id"]
	return nil
}

// coerceString renders a scalar JSON value as a string. Non-scalar values
// (objects, arrays) have no sensible text form and become empty, which drops
// the item during normalization.
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// truthy reports whether a JSON value counts as true: false for null, false,
// zero, the empty string and "0", true for everything else.
func truthy(v any) bool {
	switch c := v.(type) {
	case nil:
		return false
	case bool:
		return c
	case float64:
		return c != 0
	case string:
		return c != "" && c != "0"
	default:
		return true
	}
}
