package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	logpkg "github.com/hyunwkim/dailytodo/internal/logger"
	"github.com/hyunwkim/dailytodo/internal/services/insight"
	"github.com/hyunwkim/dailytodo/internal/validation"
	"go.uber.org/zap"
)

// InsightHandler handles productivity insight generation requests
type InsightHandler struct {
	generator *insight.Generator
	logger    *zap.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(generator *insight.Generator, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{generator: generator, logger: logger}
}

// GenerateInsightsRequest carries the optional analysis window. Both bounds
// must be present to bound the analysis; otherwise all data is analyzed.
type GenerateInsightsRequest struct {
	Start string `json:"start" validate:"omitempty,todo_date"`
	End   string `json:"end" validate:"omitempty,todo_date"`
}

// GenerateInsights aggregates data for the requested range, invokes the
// generation service and persists the parsed insight.
func (h *InsightHandler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Generation API key is not configured")
		return
	}

	var req GenerateInsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if s := r.URL.Query().Get("start"); s != "" {
		req.Start = s
	}
	if e := r.URL.Query().Get("end"); e != "" {
		req.End = e
	}

	// Query overrides are merged first so struct validation covers both
	// sources of the window bounds.
	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	var rangeStart, rangeEnd *string
	if req.Start != "" && req.End != "" {
		rangeStart, rangeEnd = &req.Start, &req.End
	}

	generated, err := h.generator.Generate(r.Context(), rangeStart, rangeEnd)
	if err != nil {
		var genErr *insight.GenerationError
		if errors.As(err, &genErr) {
			h.logger.Error("insight_generation_failed",
				zap.Int("attempts", genErr.Attempts),
				zap.String("error", logpkg.SanitizeError(err)),
			)
			respondJSONError(w, http.StatusBadGateway, "Insight generation failed: "+genErr.LastErr.Error())
			return
		}
		h.logger.Error("insight_generation_storage_failed", zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Insight generation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"stored": generated,
		"range":  map[string]*string{"start": rangeStart, "end": rangeEnd},
	}, "insight generated and stored")
}
