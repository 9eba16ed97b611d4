package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/service/task"
)

// TaskResponse represents a task in API responses. Durations use the
// HH:MM:SS clock format.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Duration    string     `json:"duration"`
	Status      string     `json:"status"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// RawTaskResponse mirrors the flattened row served by the raw retrieve
// endpoint. The row is selected by the compound (id, owner) key, so the
// response carries no owner field of its own.
type RawTaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Duration    string     `json:"duration"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// CreateTaskRequest defines the payload for creating a task.
// Duration is optional and defaults to one hour when omitted.
type CreateTaskRequest struct {
	Title    string `json:"title"    validate:"required,max=255"`
	Duration string `json:"duration" validate:"omitempty"`
}

// UpdateTaskRequest defines the payload for the standard update endpoint.
// Only the title and duration are writable; everything else is read-only.
// Fields are pointers so a partial update can tell "omitted" from "empty":
// PUT requires the title, PATCH accepts any non-empty subset.
type UpdateTaskRequest struct {
	Title    *string `json:"title"    validate:"omitempty,max=255"`
	Duration *string `json:"duration" validate:"omitempty"`
}

// UpdateTitleRequest defines the payload for the raw title update endpoint.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskHandler handles task-related HTTP requests. The structured service
// backs the standard CRUD endpoints; the raw service backs the raw_*
// endpoints that go through hand-written SQL. Both enforce the same
// ownership rules.
type TaskHandler struct {
	tasks    task.Service
	rawTasks task.Service
	logger   *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks, rawTasks task.Service, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}

	return &TaskHandler{
		tasks:    tasks,
		rawTasks: rawTasks,
		logger:   log.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /tasks requests. It returns the caller's newest tasks,
// capped at the display limit.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	tasks, err := h.tasks.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, toTaskResponse(t))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Create handles POST /tasks requests.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	var duration time.Duration
	if req.Duration != "" {
		var err error
		duration, err = domain.ParseClockDuration(req.Duration)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
	}

	created, err := h.tasks.Create(r.Context(), userID, req.Title, duration)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task created",
		slog.Int64("task_id", created.ID),
		slog.Int64("user_id", userID))

	shared.RespondWithJSON(w, r, http.StatusCreated, toTaskResponse(created))
}

// Get handles GET /tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	t, err := h.tasks.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toTaskResponse(t))
}

// Update handles PUT and PATCH /tasks/{id} requests. Title and duration are
// the only writable fields. PUT requires the title; PATCH applies whichever
// fields the body carries but rejects an empty body.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}
	if req.Title == nil && req.Duration == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Request must include a title or duration")
		return
	}
	if r.Method != http.MethodPatch && req.Title == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Title: required field")
		return
	}

	params := task.UpdateParams{Title: req.Title}
	if req.Duration != nil && *req.Duration != "" {
		duration, err := domain.ParseClockDuration(*req.Duration)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		params.Duration = &duration
	}

	updated, err := h.tasks.Update(r.Context(), userID, taskID, params)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toTaskResponse(updated))
}

// Delete handles DELETE /tasks/{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task deleted",
		slog.Int64("task_id", taskID),
		slog.Int64("user_id", userID))

	w.WriteHeader(http.StatusNoContent)
}

// RawRetrieve handles GET /tasks/{id}/raw_retrieve requests. It serves the
// same task data as Get but through the direct-statement service.
func (h *TaskHandler) RawRetrieve(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	t, err := h.rawTasks.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toRawTaskResponse(t))
}

// RawUpdateTitle handles PUT /tasks/{id}/raw_update_title requests.
func (h *TaskHandler) RawUpdateTitle(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UpdateTitleRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	if err := h.rawTasks.UpdateTitle(r.Context(), userID, taskID, req.Title); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "Title updated successfully",
	})
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Duration:    domain.FormatClockDuration(t.Duration),
		Status:      string(t.Status),
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func toRawTaskResponse(t *domain.Task) RawTaskResponse {
	return RawTaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Duration:    domain.FormatClockDuration(t.Duration),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}
