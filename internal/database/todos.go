package database

import (
	"context"
	"fmt"

	"github.com/hyunwkim/dailytodo/internal/models"
	"go.uber.org/zap"
)

// DefaultRecentTextLimit is the cap on suggestion texts returned by GetRecentTexts
const DefaultRecentTextLimit = 100

// TodoRepository handles todo database operations.
//
// Saves for the same date are not coordinated against each other: two
// concurrent ReplaceForDate calls race and the last committed transaction
// wins. This is a documented limitation, not a bug.
type TodoRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db, logger: zap.NewNop()}
}

// SetLogger sets the logger for repository events
func (r *TodoRepository) SetLogger(logger *zap.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// ReplaceForDate atomically replaces the stored set for a date with the given
// items, assigning sort_order from slice position. The delete+insert pair runs
// in one transaction; any failure rolls back and leaves prior data intact.
//
// If the insert fails because the sort_order column is missing (pre-migration
// schema), the column is added outside the failed transaction and the
// delete+insert is retried once in a fresh transaction.
func (r *TodoRepository) ReplaceForDate(ctx context.Context, date string, items []models.TodoItem) ([]models.TodoItem, error) {
	saved, err := r.replaceForDateOnce(ctx, date, items)
	if err == nil {
		return saved, nil
	}
	if !IsMissingSortColumn(err) {
		return nil, err
	}

	r.logger.Warn("sort_order_column_missing_healing_schema", zap.String("date", date))
	if healErr := addSortOrderColumn(ctx, r.db); healErr != nil {
		return nil, fmt.Errorf("failed to heal schema: %w", healErr)
	}

	saved, err = r.replaceForDateOnce(ctx, date, items)
	if err != nil {
		return nil, fmt.Errorf("failed to save todos after schema heal: %w", err)
	}
	return saved, nil
}

func (r *TodoRepository) replaceForDateOnce(ctx context.Context, date string, items []models.TodoItem) ([]models.TodoItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE todo_date = $1`, date); err != nil {
		return nil, fmt.Errorf("failed to clear todos for date: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO todos (id, todo_text, completed, todo_date, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	saved := make([]models.TodoItem, 0, len(items))
	for i, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ID, item.Text, item.Completed, date, i); err != nil {
			return nil, fmt.Errorf("failed to insert todo: %w", err)
		}
		item.Date = date
		item.SortOrder = i
		saved = append(saved, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit todos: %w", err)
	}

	return saved, nil
}

// GetForDate retrieves a date's todos in stored order: sort_order, then
// created_at, then id. When the sort_order column does not exist yet, the
// read falls back to created_at then id so a pre-migration schema still
// produces a result.
func (r *TodoRepository) GetForDate(ctx context.Context, date string) ([]models.TodoItem, error) {
	query := `
		SELECT id, todo_text, completed
		FROM todos
		WHERE todo_date = $1
		ORDER BY sort_order ASC, created_at ASC, id ASC
	`

	todos, err := r.queryTodos(ctx, query, date)
	if err != nil {
		if !IsMissingSortColumn(err) {
			return nil, err
		}
		fallback := `
			SELECT id, todo_text, completed
			FROM todos
			WHERE todo_date = $1
			ORDER BY created_at ASC, id ASC
		`
		todos, err = r.queryTodos(ctx, fallback, date)
		if err != nil {
			return nil, err
		}
	}

	return todos, nil
}

func (r *TodoRepository) queryTodos(ctx context.Context, query, date string) ([]models.TodoItem, error) {
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := make([]models.TodoItem, 0)
	for rows.Next() {
		var item models.TodoItem
		if err := rows.Scan(&item.ID, &item.Text, &item.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		item.Date = date
		todos = append(todos, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// GetRecentTexts returns distinct todo texts across all dates, ranked by
// occurrence count and then most recent use. Returns an empty slice when no
// data exists.
func (r *TodoRepository) GetRecentTexts(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultRecentTextLimit
	}

	query := `
		SELECT todo_text
		FROM todos
		GROUP BY todo_text
		ORDER BY COUNT(*) DESC, MAX(created_at) DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent texts: %w", err)
	}
	defer rows.Close()

	texts := make([]string, 0)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan recent text: %w", err)
		}
		texts = append(texts, text)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent texts: %w", err)
	}

	return texts, nil
}

// GetMonthCounts returns per-date item counts for a YYYY-MM month. Dates with
// no items are absent from the map.
func (r *TodoRepository) GetMonthCounts(ctx context.Context, month string) (map[string]int, error) {
	query := `
		SELECT todo_date::text, COUNT(*)
		FROM todos
		WHERE to_char(todo_date, 'YYYY-MM') = $1
		GROUP BY todo_date
	`

	rows, err := r.db.QueryContext(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query month counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("failed to scan month count: %w", err)
		}
		counts[date] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating month counts: %w", err)
	}

	return counts, nil
}

// GetUndone returns incomplete items, optionally bounded by an inclusive date
// range, ordered by date then creation time.
func (r *TodoRepository) GetUndone(ctx context.Context, rangeStart, rangeEnd *string) ([]models.TodoItem, error) {
	query := `
		SELECT id, todo_text, completed, todo_date::text
		FROM todos
		WHERE completed = FALSE
	`
	args := []any{}
	if rangeStart != nil && rangeEnd != nil {
		query += ` AND todo_date BETWEEN $1 AND $2`
		args = append(args, *rangeStart, *rangeEnd)
	}
	query += ` ORDER BY todo_date ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query undone todos: %w", err)
	}
	defer rows.Close()

	todos := make([]models.TodoItem, 0)
	for rows.Next() {
		var item models.TodoItem
		if err := rows.Scan(&item.ID, &item.Text, &item.Completed, &item.Date); err != nil {
			return nil, fmt.Errorf("failed to scan undone todo: %w", err)
		}
		todos = append(todos, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating undone todos: %w", err)
	}

	return todos, nil
}

// GetDailyStats returns per-date done/undone counts, optionally bounded by an
// inclusive date range, ordered by date.
func (r *TodoRepository) GetDailyStats(ctx context.Context, rangeStart, rangeEnd *string) ([]models.DailyStat, error) {
	query := `
		SELECT todo_date::text,
			COUNT(*) FILTER (WHERE completed),
			COUNT(*) FILTER (WHERE NOT completed)
		FROM todos
	`
	args := []any{}
	if rangeStart != nil && rangeEnd != nil {
		query += ` WHERE todo_date BETWEEN $1 AND $2`
		args = append(args, *rangeStart, *rangeEnd)
	}
	query += ` GROUP BY todo_date ORDER BY todo_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	stats := make([]models.DailyStat, 0)
	for rows.Next() {
		var stat models.DailyStat
		if err := rows.Scan(&stat.Date, &stat.DoneCount, &stat.UndoneCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily stats: %w", err)
	}

	return stats, nil
}
