package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// SortOrderColumn is the order-position column on the todos table. Older
// deployments predate it, which is why the save path knows how to add it on
// the fly (see TodoRepository.ReplaceForDate).
const SortOrderColumn = "sort_order"

// pqUndefinedColumn is the Postgres error code for a missing column (42703)
const pqUndefinedColumn = "42703"

const createTodosTable = `
	CREATE TABLE IF NOT EXISTS todos (
		id BIGINT PRIMARY KEY,
		todo_text VARCHAR(500) NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		todo_date DATE NOT NULL,
		sort_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

const createInsightsTable = `
	CREATE TABLE IF NOT EXISTS insights (
		id BIGSERIAL PRIMARY KEY,
		range_start DATE,
		range_end DATE,
		summary TEXT NOT NULL DEFAULT '',
		semantic_pattern TEXT NOT NULL DEFAULT '',
		cognitive_load_type TEXT NOT NULL DEFAULT '',
		bottleneck_analysis TEXT NOT NULL DEFAULT '',
		action_plan_1 TEXT NOT NULL DEFAULT '',
		action_plan_2 TEXT NOT NULL DEFAULT '',
		motivation_quote TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// EnsureSchema creates the todos and insights tables and their indexes.
// It is idempotent and keeps existing data: pre-existing todos tables only
// gain the sort_order column.
func EnsureSchema(ctx context.Context, db *DB) error {
	statements := []string{
		createTodosTable,
		`ALTER TABLE todos ADD COLUMN IF NOT EXISTS sort_order INT NOT NULL DEFAULT 0`,
		`CREATE INDEX IF NOT EXISTS idx_todos_date ON todos (todo_date)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_date_sort ON todos (todo_date, sort_order)`,
		createInsightsTable,
		`CREATE INDEX IF NOT EXISTS idx_insights_created_at ON insights (created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}

// IsMissingSortColumn reports whether err means the sort_order column does
// not exist. The typed pq error code is checked first; the message match is a
// fallback for drivers or proxies that flatten error details into text.
func IsMissingSortColumn(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUndefinedColumn &&
			strings.Contains(pqErr.Message, SortOrderColumn)
	}

	msg := err.Error()
	return strings.Contains(msg, SortOrderColumn) &&
		(strings.Contains(msg, "does not exist") || strings.Contains(msg, "Unknown column"))
}

// addSortOrderColumn performs the one-shot schema heal. ADD COLUMN IF NOT
// EXISTS makes a concurrent or repeated heal a no-op.
func addSortOrderColumn(ctx context.Context, db *DB) error {
	_, err := db.ExecContext(ctx,
		`ALTER TABLE todos ADD COLUMN IF NOT EXISTS sort_order INT NOT NULL DEFAULT 0`)
	if err != nil {
		return fmt.Errorf("failed to add %s column: %w", SortOrderColumn, err)
	}
	return nil
}
