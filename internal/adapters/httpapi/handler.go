// Package httpapi exposes the widget over a JSON API and a WebSocket
// snapshot stream.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/logging"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

// Handler serves the widget routes.
type Handler struct {
	ctrl    ports.WidgetController
	logger  *logging.Logger
	origins []string
}

// NewHandler creates a handler backed by ctrl.
func NewHandler(ctrl ports.WidgetController, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Handler{ctrl: ctrl, logger: logger.Component("http"), origins: DefaultAllowedOrigins}
}

// MinutesRequest is the body of PUT /api/timer/work and /api/timer/break.
type MinutesRequest struct {
	Minutes int `json:"minutes"`
}

// ItemRequest is the body of POST /api/items.
type ItemRequest struct {
	Text string `json:"text"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)

		r.Route("/timer", func(r chi.Router) {
			r.Post("/start", h.Start)
			r.Post("/pause", h.Pause)
			r.Post("/reset", h.Reset)
			r.Put("/work", h.SetWork)
			r.Put("/break", h.SetBreak)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.AddItem)
			r.Get("/find", h.FindItem)
			r.Post("/{id}/toggle", h.ToggleItem)
			r.Delete("/{id}", h.DeleteItem)
		})

		r.Get("/history", h.History)
	})
}

// JSON writes a JSON response.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Error(w, status, "internal error")
		return
	}
	Error(w, status, userMessage(err))
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return "Please enter an item"
	case errors.Is(err, domain.ErrInvalidDuration):
		return domain.ErrInvalidDuration.Error()
	default:
		return err.Error()
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request, snap domain.Snapshot, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, snap)
}

// GetState returns the current snapshot.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ctrl.Snapshot(r.Context())
	h.snapshot(w, r, snap, err)
}

// Start resumes the timer.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ctrl.Start(r.Context())
	h.snapshot(w, r, snap, err)
}

// Pause stops the timer.
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ctrl.Pause(r.Context())
	h.snapshot(w, r, snap, err)
}

// Reset returns to the start of a work session.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ctrl.Reset(r.Context())
	h.snapshot(w, r, snap, err)
}

// SetWork changes the work length.
func (h *Handler) SetWork(w http.ResponseWriter, r *http.Request) {
	var req MinutesRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := h.ctrl.SetWorkMinutes(r.Context(), req.Minutes)
	h.snapshot(w, r, snap, err)
}

// SetBreak changes the break length.
func (h *Handler) SetBreak(w http.ResponseWriter, r *http.Request) {
	var req MinutesRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := h.ctrl.SetBreakMinutes(r.Context(), req.Minutes)
	h.snapshot(w, r, snap, err)
}

// ListItems returns the checklist view.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ctrl.Snapshot(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, snap.Checklist)
}

// AddItem appends a checklist item.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.ctrl.AddItem(r.Context(), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, item)
}

// FindItem resolves ?q= to an item by exact id or fuzzy text match.
func (h *Handler) FindItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.ctrl.FindItem(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, item)
}

// ToggleItem flips an item. Unknown ids leave the checklist unchanged.
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ctrl.ToggleItem(r.Context(), chi.URLParam(r, "id"))
	h.snapshot(w, r, snap, err)
}

// DeleteItem removes an item. Unknown ids leave the checklist unchanged.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ctrl.DeleteItem(r.Context(), chi.URLParam(r, "id"))
	h.snapshot(w, r, snap, err)
}

// History returns recently finished sessions. ?limit=N overrides the default.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.ctrl.History(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if records == nil {
		records = []*domain.IntervalRecord{}
	}
	JSON(w, http.StatusOK, records)
}
