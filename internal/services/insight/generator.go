// Package insight aggregates completion data over a date range, asks an
// external text-generation service for a productivity analysis, and persists
// the parsed result.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyunwkim/dailytodo/internal/database"
	"github.com/hyunwkim/dailytodo/internal/models"
	"go.uber.org/zap"
)

const (
	// MaxAttempts is the total generation attempt budget per request
	MaxAttempts = 3
	// backoffUnit is the linear backoff base: attempt N waits 2*N units
	backoffUnit = time.Second
)

// Payload is the structured analysis input serialized into the prompt
type Payload struct {
	RangeStart  *string            `json:"range_start"`
	RangeEnd    *string            `json:"range_end"`
	Totals      Totals             `json:"totals"`
	DailyStats  []models.DailyStat `json:"daily_stats"`
	UndoneTodos []models.TodoItem  `json:"undone_todos"`
}

// Totals sums the daily statistics over the whole range
type Totals struct {
	Done   int `json:"done"`
	Undone int `json:"undone"`
}

// Generator produces and persists insights. Retries are sequential with
// blocking sleeps; cancellation is not supported once an attempt is in
// flight beyond its own timeout.
type Generator struct {
	todoRepo    database.TodoRepositoryInterface
	insightRepo database.InsightRepositoryInterface
	provider    TextGenerator
	promptPath  string
	logger      *zap.Logger
	sleep       func(time.Duration)
}

// NewGenerator creates a generator. promptPath names the external
// instruction template; empty or unreadable falls back to the built-in one.
func NewGenerator(todoRepo database.TodoRepositoryInterface, insightRepo database.InsightRepositoryInterface, provider TextGenerator, promptPath string, logger *zap.Logger) *Generator {
	return &Generator{
		todoRepo:    todoRepo,
		insightRepo: insightRepo,
		provider:    provider,
		promptPath:  promptPath,
		logger:      logger,
		sleep:       time.Sleep,
	}
}

// SetSleep replaces the inter-attempt sleep. Exposed for tests that must not
// block on real backoff delays.
func (g *Generator) SetSleep(sleep func(time.Duration)) {
	g.sleep = sleep
}

// Generate runs the full pipeline: aggregate stored data for the (optionally
// unbounded) range, call the generation service with retry, parse the fixed
// fields and persist one insight row. A malformed generation response is not
// an error: the insight is persisted with whatever fields parsed.
func (g *Generator) Generate(ctx context.Context, rangeStart, rangeEnd *string) (*models.Insight, error) {
	undone, err := g.todoRepo.GetUndone(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load undone todos: %w", err)
	}

	stats, err := g.todoRepo.GetDailyStats(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}

	payload := Payload{
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
		DailyStats:  stats,
		UndoneTodos: undone,
	}
	for _, s := range stats {
		payload.Totals.Done += s.DoneCount
		payload.Totals.Undone += s.UndoneCount
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize analysis payload: %w", err)
	}

	prompt := BuildPrompt(LoadInstruction(g.promptPath), string(payloadJSON))

	text, err := g.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	insight := ParseFields(text)
	insight.RangeStart = rangeStart
	insight.RangeEnd = rangeEnd

	if err := g.insightRepo.Create(ctx, &insight); err != nil {
		return nil, fmt.Errorf("failed to persist insight: %w", err)
	}

	if g.logger != nil {
		g.logger.Info("insight_generated",
			zap.Int("undone_count", len(undone)),
			zap.Int("stat_days", len(stats)),
		)
	}

	return &insight, nil
}

// generateWithRetry runs up to MaxAttempts generation calls. Only transport
// failures and the overload signal are retried, waiting 2*attempt units
// between attempts; any other failure, or exhausting the budget, returns a
// GenerationError carrying the last error.
func (g *Generator) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		text, err := g.provider.Generate(ctx, prompt, DefaultMaxOutputTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !retryable(err) || attempt == MaxAttempts {
			return "", &GenerationError{Attempts: attempt, LastErr: lastErr}
		}

		if g.logger != nil {
			g.logger.Warn("generation_attempt_failed_retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", MaxAttempts),
				zap.Error(err),
			)
		}
		g.sleep(time.Duration(2*attempt) * backoffUnit)
	}

	return "", &GenerationError{Attempts: MaxAttempts, LastErr: lastErr}
}
