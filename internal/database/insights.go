package database

import (
	"context"
	"fmt"

	"github.com/hyunwkim/dailytodo/internal/models"
)

// InsightRepository handles insight database operations. The insights table
// is append-only: rows are created once per successful generation and never
// updated or deleted.
type InsightRepository struct {
	db *DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// Create persists one insight record and fills in its id and created_at
func (r *InsightRepository) Create(ctx context.Context, insight *models.Insight) error {
	query := `
		INSERT INTO insights
			(range_start, range_end, summary, semantic_pattern, cognitive_load_type,
			 bottleneck_analysis, action_plan_1, action_plan_2, motivation_quote)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		insight.RangeStart,
		insight.RangeEnd,
		insight.Summary,
		insight.SemanticPattern,
		insight.CognitiveLoadType,
		insight.BottleneckAnalysis,
		insight.ActionPlan1,
		insight.ActionPlan2,
		insight.MotivationQuote,
	).Scan(&insight.ID, &insight.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}

	return nil
}
