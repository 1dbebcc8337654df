package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	logpkg "github.com/hyunwkim/dailytodo/internal/logger"
	"github.com/hyunwkim/dailytodo/internal/services/insight"
	"go.uber.org/zap"
)

// AIHandler exposes configuration status and connectivity probing for the
// text-generation service. The key itself is never returned.
type AIHandler struct {
	provider *insight.OpenAIProvider
	logger   *zap.Logger
}

// NewAIHandler creates a new AI handler. provider may be nil when no key is
// configured.
func NewAIHandler(provider *insight.OpenAIProvider, logger *zap.Logger) *AIHandler {
	return &AIHandler{provider: provider, logger: logger}
}

// RegisterRoutes registers AI routes on the given router
func (h *AIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/status", h.Status).Methods("GET")
	r.HandleFunc("/test", h.Test).Methods("POST")
}

// Status reports whether a generation key is configured
func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	configured := h.provider != nil
	message := "not configured"
	if configured {
		message = "connected"
	}
	respondJSON(w, http.StatusOK, map[string]bool{"configured": configured}, message)
}

// Test fires a tiny generation request to verify the configured key and model
func (h *AIHandler) Test(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Generation API key is not configured")
		return
	}

	if err := h.provider.Probe(r.Context()); err != nil {
		h.logger.Warn("generation_probe_failed", zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusBadGateway, "Generation API test failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"model": h.provider.Model()}, "generation API key verified")
}
