package models

import "time"

// Insight is one LLM-generated productivity analysis over a date range.
// Rows are append-only: they are written once per successful generation and
// never updated or deleted.
type Insight struct {
	ID                 int64     `json:"id,omitempty"`
	RangeStart         *string   `json:"range_start"`
	RangeEnd           *string   `json:"range_end"`
	Summary            string    `json:"summary"`
	SemanticPattern    string    `json:"semantic_pattern"`
	CognitiveLoadType  string    `json:"cognitive_load_type"`
	BottleneckAnalysis string    `json:"bottleneck_analysis"`
	ActionPlan1        string    `json:"action_plan_1"`
	ActionPlan2        string    `json:"action_plan_2"`
	MotivationQuote    string    `json:"motivation_quote"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
}
