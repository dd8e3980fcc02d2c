package api

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/mirrwin/daymark/internal/auth"
	"github.com/mirrwin/daymark/internal/models"
)

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := (validation.Errors{
		"username": validation.Validate(req.Username, validation.Required, validation.Length(3, 64)),
		"password": validation.Validate(req.Password, validation.Required, validation.Length(6, 128)),
	}).Filter(); err != nil {
		writeError(w, err, "register")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err, "register")
		return
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		Role:         models.RoleUser,
		CreatedAt:    h.now(),
	}
	if err := h.store.CreateUser(user); err != nil {
		writeError(w, err, "register")
		return
	}

	token, err := h.tokens.Issue(user, h.now())
	if err != nil {
		writeError(w, err, "register")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	user, err := h.store.GetUserByUsername(req.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same answer for unknown user and wrong password.
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
		return
	}

	token, err := h.tokens.Issue(user, h.now())
	if err != nil {
		writeError(w, err, "login")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	user, err := h.store.GetUser(claims.UserID)
	if err != nil {
		writeError(w, err, "me")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	var hash string
	if req.Password != "" {
		if len(req.Password) < 6 {
			writeJSON(w, http.StatusBadRequest, errorBody("password too short"))
			return
		}
		var err error
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, err, "update profile")
			return
		}
	}

	if err := h.store.UpdateUserProfile(claims.UserID, req.Nickname, hash); err != nil {
		writeError(w, err, "update profile")
		return
	}
	user, err := h.store.GetUser(claims.UserID)
	if err != nil {
		writeError(w, err, "update profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
