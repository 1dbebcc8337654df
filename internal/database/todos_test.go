package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/lib/pq"

	"github.com/hyunwkim/dailytodo/internal/models"
)

// scriptedDB backs a minimal database/sql driver for repository tests:
// every statement succeeds except INSERTs, which return the scripted error
// until the failure budget is spent. Every statement is recorded.
type scriptedDB struct {
	mu             sync.Mutex
	insertFailures int
	insertErr      error
	statements     []string
}

func (s *scriptedDB) exec(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements = append(s.statements, query)
	if strings.Contains(query, "INSERT") && s.insertFailures > 0 {
		s.insertFailures--
		return s.insertErr
	}
	return nil
}

func (s *scriptedDB) count(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, q := range s.statements {
		if strings.Contains(q, substr) {
			n++
		}
	}
	return n
}

type scriptedConnector struct{ db *scriptedDB }

func (c *scriptedConnector) Connect(context.Context) (driver.Conn, error) {
	return &scriptedConn{db: c.db}, nil
}

func (c *scriptedConnector) Driver() driver.Driver { return scriptedDriver{} }

type scriptedDriver struct{}

func (scriptedDriver) Open(string) (driver.Conn, error) { return nil, driver.ErrBadConn }

type scriptedConn struct{ db *scriptedDB }

func (c *scriptedConn) Prepare(query string) (driver.Stmt, error) {
	return &scriptedStmt{db: c.db, query: query}, nil
}

func (c *scriptedConn) Close() error { return nil }

func (c *scriptedConn) Begin() (driver.Tx, error) { return scriptedTx{}, nil }

func (c *scriptedConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	if err := c.db.exec(query); err != nil {
		return nil, err
	}
	return driver.RowsAffected(1), nil
}

type scriptedStmt struct {
	db    *scriptedDB
	query string
}

func (s *scriptedStmt) Close() error { return nil }

func (s *scriptedStmt) NumInput() int { return -1 }

func (s *scriptedStmt) Exec([]driver.Value) (driver.Result, error) {
	if err := s.db.exec(s.query); err != nil {
		return nil, err
	}
	return driver.RowsAffected(1), nil
}

func (s *scriptedStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("query not scripted")
}

type scriptedTx struct{}

func (scriptedTx) Commit() error { return nil }

func (scriptedTx) Rollback() error { return nil }

func newScriptedRepo(script *scriptedDB) *TodoRepository {
	return NewTodoRepository(&DB{DB: sql.OpenDB(&scriptedConnector{db: script})})
}

func missingSortColumnErr() *pq.Error {
	return &pq.Error{
		Code:    pqUndefinedColumn,
		Message: `column "sort_order" of relation "todos" does not exist`,
	}
}

func TestReplaceForDate_HealsMissingColumnAndRetries(t *testing.T) {
	t.Parallel()

	script := &scriptedDB{insertFailures: 1, insertErr: missingSortColumnErr()}
	repo := newScriptedRepo(script)

	items := []models.TodoItem{
		{ID: 1, Text: "first"},
		{ID: 2, Text: "second"},
	}
	saved, err := repo.ReplaceForDate(context.Background(), "2024-06-01", items)
	if err != nil {
		t.Fatalf("ReplaceForDate: %v", err)
	}

	if len(saved) != 2 {
		t.Fatalf("expected 2 saved items, got %d", len(saved))
	}
	if saved[0].SortOrder != 0 || saved[1].SortOrder != 1 {
		t.Errorf("sort order not assigned from position: %+v", saved)
	}
	if got := script.count("ALTER TABLE"); got != 1 {
		t.Errorf("expected exactly one heal statement, got %d", got)
	}
	if got := script.count("DELETE FROM todos"); got != 2 {
		t.Errorf("expected a fresh delete per attempt, got %d", got)
	}
}

func TestReplaceForDate_SecondFailurePropagates(t *testing.T) {
	t.Parallel()

	script := &scriptedDB{insertFailures: 10, insertErr: missingSortColumnErr()}
	repo := newScriptedRepo(script)

	_, err := repo.ReplaceForDate(context.Background(), "2024-06-01", []models.TodoItem{{ID: 1, Text: "x"}})
	if err == nil {
		t.Fatal("expected error when the retry fails too")
	}
	if !strings.Contains(err.Error(), "after schema heal") {
		t.Errorf("expected post-heal failure to be labeled, got %v", err)
	}
	if got := script.count("ALTER TABLE"); got != 1 {
		t.Errorf("heal must run exactly once, got %d", got)
	}
}

func TestReplaceForDate_UnrelatedErrorDoesNotHeal(t *testing.T) {
	t.Parallel()

	script := &scriptedDB{insertFailures: 1, insertErr: errors.New("disk full")}
	repo := newScriptedRepo(script)

	_, err := repo.ReplaceForDate(context.Background(), "2024-06-01", []models.TodoItem{{ID: 1, Text: "x"}})
	if err == nil {
		t.Fatal("expected insert error to propagate")
	}
	if got := script.count("ALTER TABLE"); got != 0 {
		t.Errorf("unrelated errors must not trigger schema heal, got %d heal statements", got)
	}
}
