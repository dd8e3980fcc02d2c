package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateShareLink handles POST /api/share.
func (h *Handler) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.EventID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("eventId is required"))
		return
	}

	link, err := h.shares.Issue(r.Context(), claims.UserID, req.EventID, req.ExpiresInDays, h.now())
	if err != nil {
		writeError(w, err, "create share link")
		return
	}
	writeJSON(w, http.StatusCreated, shareResponse{
		Token:     link.Token,
		ShareURL:  "/share/" + link.Token,
		ExpiresAt: link.ExpiresAt,
	})
}

// GetSharedEvent handles GET /api/share/{token}. This is deliberately the
// only unauthenticated read path; it exposes a single event's resolved view
// and nothing else.
func (h *Handler) GetSharedEvent(w http.ResponseWriter, r *http.Request) {
	view, err := h.shares.Resolve(r.Context(), chi.URLParam(r, "token"), h.now())
	if err != nil {
		writeError(w, err, "resolve share link")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
