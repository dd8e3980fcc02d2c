package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mirrwin/daymark/internal/auth"
	"github.com/mirrwin/daymark/internal/eventservice"
	"github.com/mirrwin/daymark/internal/sharelink"
	"github.com/mirrwin/daymark/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	events *eventservice.Service
	shares *sharelink.Manager
	store  *store.DB
	tokens *auth.TokenManager

	// now is injectable so countdown responses are deterministic in tests.
	now func() time.Time
}

// NewHandler creates a new Handler using the wall clock.
func NewHandler(events *eventservice.Service, shares *sharelink.Manager, db *store.DB, tokens *auth.TokenManager) *Handler {
	return &Handler{events: events, shares: shares, store: db, tokens: tokens, now: time.Now}
}

// WithClock replaces the handler's clock. Test use.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// ListEvents handles GET /api/events?type=.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	views, err := h.events.List(r.Context(), claims.UserID, r.URL.Query().Get("type"), h.now())
	if err != nil {
		writeError(w, err, "list events")
		return
	}
	if views == nil {
		views = []EventView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// GetEvent handles GET /api/events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	view, err := h.events.Get(r.Context(), claims.UserID, chi.URLParam(r, "id"), h.now())
	if err != nil {
		writeError(w, err, "get event")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateEvent handles POST /api/events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err, "create event")
		return
	}
	view, err := h.events.Create(r.Context(), claims.UserID, in, h.now())
	if err != nil {
		writeError(w, err, "create event")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// UpdateEvent handles PUT /api/events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err, "update event")
		return
	}
	view, err := h.events.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), in, h.now())
	if err != nil {
		writeError(w, err, "update event")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	if err := h.events.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
