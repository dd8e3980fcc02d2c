package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirrwin/daymark/internal/models"
)

// AdminListUsers handles GET /api/admin/users.
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers()
	if err != nil {
		writeError(w, err, "admin list users")
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	writeJSON(w, http.StatusOK, users)
}

// AdminUpdateUserRole handles PUT /api/admin/users/{id}/role.
func (h *Handler) AdminUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid role"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.store.UpdateUserRole(id, req.Role); err != nil {
		writeError(w, err, "admin update role")
		return
	}
	user, err := h.store.GetUser(id)
	if err != nil {
		writeError(w, err, "admin update role")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// AdminDeleteUser handles DELETE /api/admin/users/{id}. Events and share
// links cascade in the store.
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "admin delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminListEvents handles GET /api/admin/events.
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	events, owners, err := h.store.ListAllEvents()
	if err != nil {
		writeError(w, err, "admin list events")
		return
	}
	out := make([]adminEvent, len(events))
	for i, ev := range events {
		out[i] = adminEvent{Event: ev, Username: owners[ev.ID]}
	}
	writeJSON(w, http.StatusOK, out)
}

// AdminDeleteEvent handles DELETE /api/admin/events/{id}.
func (h *Handler) AdminDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEvent(chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "admin delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
