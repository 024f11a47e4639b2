// Package httpapi serves the task REST API on top of a domain.TaskStore.
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/runoshun/todo/internal/domain"
)

// maxRequestBodyBytes limits decoded JSON payload size.
const maxRequestBodyBytes int64 = 1 << 20

// Options configures a Handler.
type Options struct {
	Clock      domain.Clock
	Logger     *slog.Logger
	NewID      func() string // nil = random UUID
	HardDelete bool
}

// Handler serves /tasks.
type Handler struct {
	store      domain.TaskStore
	clock      domain.Clock
	logger     *slog.Logger
	newID      func() string
	hardDelete bool
}

// APIError is the body of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps one APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler creates a Handler.
func NewHandler(store domain.TaskStore, opts Options) *Handler {
	h := &Handler{
		store:      store,
		clock:      opts.Clock,
		logger:     opts.Logger,
		newID:      opts.NewID,
		hardDelete: opts.HardDelete,
	}
	if h.clock == nil {
		h.clock = domain.RealClock{}
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	if h.newID == nil {
		h.newID = uuid.NewString
	}
	return h
}

// Routes returns the API mux, including /healthz.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", writeHealthStatus)
	mux.HandleFunc("GET /tasks", h.handleList)
	mux.HandleFunc("POST /tasks", h.handleCreate)
	mux.HandleFunc("GET /tasks/count", h.handleCount)
	mux.HandleFunc("GET /tasks/search/{title}", h.handleSearch)
	mux.HandleFunc("GET /tasks/find/{id}", h.handleGet)
	mux.HandleFunc("GET /tasks/{id}", h.handleGet)
	mux.HandleFunc("PATCH /tasks/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /tasks/{id}", h.handleDelete)
	return h.logRequests(mux)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, true)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	tasks, err := h.store.List(r.Context(), q, h.clock.Now())
	if err != nil {
		h.writeInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, false)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	n, err := h.store.Count(r.Context(), q, h.clock.Now())
	if err != nil {
		h.writeInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.Search(r.Context(), r.PathValue("title"))
	if err != nil {
		h.writeInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// createRequest is the POST body.
type createRequest struct {
	CreatedAt   *flexTime      `json:"createdAt"`
	DueDate     *flexTime      `json:"dueDate"`
	Status      *domain.Status `json:"status"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if err := domain.ValidateTitle(title); err != nil {
		writeErrorFrom(w, err)
		return
	}
	status := domain.StatusPending
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}

	now := h.clock.Now()
	task := &domain.Task{
		ID:          h.newID(),
		Title:       title,
		Description: req.Description,
		Status:      status,
		CreatedAt:   now,
		DueDate:     req.DueDate.value(),
	}
	if created := req.CreatedAt.value(); created != nil {
		task.CreatedAt = *created
	}

	if err := h.store.Insert(r.Context(), task); err != nil {
		h.writeInternal(w, err)
		return
	}
	h.logger.Info("task created", "id", task.ID)
	writeJSON(w, http.StatusCreated, task)
}

// updateRequest is the PATCH body. DueDate distinguishes absent from null.
type updateRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *domain.Status  `json:"status"`
	DueDate     json.RawMessage `json:"dueDate"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := domain.ValidateTitle(title); err != nil {
			writeErrorFrom(w, err)
			return
		}
		patch.Title = &title
	}
	if len(req.DueDate) > 0 {
		var due flexTime
		if err := json.Unmarshal(req.DueDate, &due); err != nil {
			writeErrorFrom(w, err)
			return
		}
		if due.Time == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = due.Time
		}
	}
	if patch.IsEmpty() {
		writeErrorFrom(w, domain.ErrNoFieldsToUpdate)
		return
	}

	task, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	patch.Apply(task)
	now := h.clock.Now()
	task.UpdatedAt = &now

	if err := h.store.Update(r.Context(), task); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Delete(r.Context(), id, h.clock.Now(), h.hardDelete); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.logger.Info("task deleted", "id", id, "hard", h.hardDelete)
	w.WriteHeader(http.StatusNoContent)
}

// parseQuery reads status/overdue and, for listings, page/limit.
func parseQuery(r *http.Request, paged bool) (domain.TaskQuery, error) {
	values := r.URL.Query()
	q := domain.TaskQuery{Page: 1, Limit: domain.DefaultLimit}

	if raw := values.Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return q, err
		}
		q.Status = status
	}
	if raw := values.Get("overdue"); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return q, badRequest("overdue must be a boolean")
		}
		q.Overdue = on
	}
	if !paged {
		return q, nil
	}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, fmt.Errorf("%w: %q", domain.ErrInvalidPage, raw)
		}
		q.Page = page
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("%w: %q", domain.ErrInvalidLimit, raw)
		}
		if err := domain.ValidateLimit(limit); err != nil {
			return q, err
		}
		q.Limit = limit
	}
	return q, nil
}

// flexTime accepts null, RFC 3339 or a YYYY-MM-DD date.
type flexTime struct {
	Time *time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Time = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.ErrInvalidDueDate
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		f.Time = &t
		return nil
	}
	t, err := domain.ParseDueDate(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f *flexTime) value() *time.Time {
	if f == nil {
		return nil
	}
	return f.Time
}

// requestError is a client error with a fixed message.
type requestError string

func (e requestError) Error() string { return string(e) }

func badRequest(msg string) error { return requestError(msg) }

// decodeJSONBody decodes one JSON object, rejecting unknown fields and
// trailing data.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer func() { _ = reader.Close() }()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, domain.ErrInvalidDueDate) || errors.Is(err, domain.ErrInvalidStatus) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return badRequest("request body is required")
		}
		return badRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

// writeErrorFrom maps validation errors to 400 responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	var reqErr requestError
	switch {
	case errors.Is(err, domain.ErrEmptyTitle):
		writeJSONError(w, http.StatusBadRequest, APIError{Code: "invalid_title", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus):
		writeJSONError(w, http.StatusBadRequest, APIError{Code: "invalid_status", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidDueDate):
		writeJSONError(w, http.StatusBadRequest, APIError{Code: "invalid_due_date", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidPage), errors.Is(err, domain.ErrInvalidLimit):
		writeJSONError(w, http.StatusBadRequest, APIError{Code: "invalid_paging", Message: err.Error()})
	case errors.Is(err, domain.ErrNoFieldsToUpdate):
		writeJSONError(w, http.StatusBadRequest, APIError{Code: "empty_update", Message: err.Error()})
	case errors.As(err, &reqErr):
		writeJSONError(w, http.StatusBadRequest, APIError{Code: "invalid_request", Message: err.Error()})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{Code: "internal", Message: "internal error"})
	}
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrTaskNotFound) {
		writeJSONError(w, http.StatusNotFound, APIError{Code: "not_found", Message: "task not found"})
		return
	}
	h.writeInternal(w, err)
}

func (h *Handler) writeInternal(w http.ResponseWriter, err error) {
	h.logger.Error("request failed", "error", err)
	writeJSONError(w, http.StatusInternalServerError, APIError{Code: "internal", Message: "internal error"})
}

func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeHealthStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start))
	})
}
