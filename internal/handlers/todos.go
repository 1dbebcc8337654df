package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/hyunwkim/dailytodo/internal/database"
	logpkg "github.com/hyunwkim/dailytodo/internal/logger"
	"github.com/hyunwkim/dailytodo/internal/models"
	"github.com/hyunwkim/dailytodo/internal/todo"
	"github.com/hyunwkim/dailytodo/internal/validation"
	"go.uber.org/zap"
)

// TodoHandler handles the day-list endpoints: read, save/reconcile,
// suggestion texts and calendar counts.
type TodoHandler struct {
	todoRepo database.TodoRepositoryInterface
	logger   *zap.Logger
	now      func() time.Time
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoRepo database.TodoRepositoryInterface, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{todoRepo: todoRepo, logger: logger, now: time.Now}
}

// RegisterRoutes registers todo routes on the given router
// The router should already have the /todos prefix (e.g., from apiRouter.PathPrefix("/todos"))
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/recent", h.GetRecent).Methods("GET")
	r.HandleFunc("/counts", h.GetCounts).Methods("GET")
	r.HandleFunc("", h.GetTodos).Methods("GET")
	r.HandleFunc("", h.SaveTodos).Methods("POST")
}

// SaveTodosRequest is the save/reconcile request body. The date may come
// from the body or the query string; the query string wins.
type SaveTodosRequest struct {
	Date  string                `json:"date" validate:"omitempty,todo_date"`
	Todos []models.IncomingTodo `json:"todos"`
}

// GetTodos returns the stored list for a date in canonical order
func (h *TodoHandler) GetTodos(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.now().Format(validation.DateLayout)
	}
	if err := validation.ValidateDate(date); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	todos, err := h.todoRepo.GetForDate(r.Context(), date)
	if err != nil {
		h.logger.Error("failed_to_get_todos", zap.String("date", date), zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Failed to retrieve todos")
		return
	}

	respondJSON(w, http.StatusOK, todos, "")
}

// SaveTodos reconciles a client-submitted list against storage: the stored
// set for the date is replaced wholesale by the normalized input, preserving
// submitted order. An empty or all-blank submission never truncates existing
// data; the current stored list is returned instead.
func (h *TodoHandler) SaveTodos(w http.ResponseWriter, r *http.Request) {
	var req SaveTodosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = req.Date
	}
	if date == "" {
		date = h.now().Format(validation.DateLayout)
	}
	if err := validation.ValidateDate(date); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	valid := todo.Normalize(req.Todos)
	todo.AssignIDs(valid, h.now)
	if err := todo.ValidateBatch(valid); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	// Nothing valid to store: return the current stored list untouched
	// rather than wiping the day over a client bug or transient empty payload
	if len(valid) == 0 {
		current, err := h.todoRepo.GetForDate(ctx, date)
		if err != nil {
			h.logger.Error("failed_to_read_back_todos", zap.String("date", date), zap.String("error", logpkg.SanitizeError(err)))
			respondJSONError(w, http.StatusInternalServerError, "Failed to retrieve todos")
			return
		}
		respondJSON(w, http.StatusOK, current, "nothing to save")
		return
	}

	saved, err := h.todoRepo.ReplaceForDate(ctx, date, valid)
	if err != nil {
		h.logger.Error("failed_to_save_todos",
			zap.String("date", date),
			zap.Int("item_count", len(valid)),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		respondJSONError(w, http.StatusInternalServerError, "Failed to save todos")
		return
	}

	h.logger.Info("saved_todos",
		zap.String("date", date),
		zap.Int("item_count", len(saved)),
	)
	respondJSON(w, http.StatusOK, saved, "saved to database")
}

// GetRecent returns suggestion texts ranked by use count then recency
func (h *TodoHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	texts, err := h.todoRepo.GetRecentTexts(r.Context(), database.DefaultRecentTextLimit)
	if err != nil {
		h.logger.Error("failed_to_get_recent_texts", zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Failed to retrieve recent todos")
		return
	}

	respondJSON(w, http.StatusOK, texts, "")
}

// GetCounts returns per-date item counts for a month (calendar badges)
func (h *TodoHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.now().Format(validation.MonthLayout)
	}
	if err := validation.ValidateMonth(month); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	counts, err := h.todoRepo.GetMonthCounts(r.Context(), month)
	if err != nil {
		h.logger.Error("failed_to_get_month_counts", zap.String("month", month), zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Failed to retrieve counts")
		return
	}

	respondJSON(w, http.StatusOK, counts, "")
}

// InitHandler exposes idempotent schema bootstrap over HTTP, mirroring the
// admin CLI's migrate command.
type InitHandler struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInitHandler creates a new init handler
func NewInitHandler(db *database.DB, logger *zap.Logger) *InitHandler {
	return &InitHandler{db: db, logger: logger}
}

// Init ensures tables and indexes exist, keeping existing data
func (h *InitHandler) Init(w http.ResponseWriter, r *http.Request) {
	if err := database.EnsureSchema(r.Context(), h.db); err != nil {
		h.logger.Error("failed_to_ensure_schema", zap.String("error", logpkg.SanitizeError(err)))
		respondJSONError(w, http.StatusInternalServerError, "Initialization failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, nil, "schema verified")
}
