package database

import (
	"context"

	"github.com/hyunwkim/dailytodo/internal/models"
)

// TodoRepositoryInterface defines the interface for todo repository operations
// This interface enables better testability by allowing mock implementations
type TodoRepositoryInterface interface {
	ReplaceForDate(ctx context.Context, date string, items []models.TodoItem) ([]models.TodoItem, error)
	GetForDate(ctx context.Context, date string) ([]models.TodoItem, error)
	GetRecentTexts(ctx context.Context, limit int) ([]string, error)
	GetMonthCounts(ctx context.Context, month string) (map[string]int, error)
	GetUndone(ctx context.Context, rangeStart, rangeEnd *string) ([]models.TodoItem, error)
	GetDailyStats(ctx context.Context, rangeStart, rangeEnd *string) ([]models.DailyStat, error)
}

// InsightRepositoryInterface defines the interface for insight repository operations
type InsightRepositoryInterface interface {
	Create(ctx context.Context, insight *models.Insight) error
}

// Ensure concrete types implement the interfaces
var (
	_ TodoRepositoryInterface    = (*TodoRepository)(nil)
	_ InsightRepositoryInterface = (*InsightRepository)(nil)
)
