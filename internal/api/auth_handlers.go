package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Zerr0-C00L/StreamHub/internal/auth"
	"github.com/Zerr0-C00L/StreamHub/internal/database"
	"github.com/Zerr0-C00L/StreamHub/internal/logging"
	"github.com/Zerr0-C00L/StreamHub/internal/models"
	"github.com/Zerr0-C00L/StreamHub/internal/validation"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the JWT token and the user it was issued for
type AuthResponse struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register handles POST /api/auth/register. The first account becomes an admin.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(w, r, err, "Failed to register user")
		return
	}

	user, err := h.users.Create(r.Context(), req.Name, req.Email, hash)
	if errors.Is(err, database.ErrDuplicate) {
		respondError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Failed to register user")
		return
	}

	logging.Ctx(r.Context()).Info().Int("user_id", user.ID).Str("role", user.Role).Msg("User registered")
	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Authentication failed")
		return
	}

	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "User no longer exists")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// AuthStatus handles GET /api/auth/status and tells the client whether setup is still needed
func (h *Handler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	count, err := h.users.Count(r.Context())
	if err != nil {
		respondInternal(w, r, err, "Failed to check users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"setupRequired": count == 0,
		"userCount":     count,
	})
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		respondInternal(w, r, err, "Failed to generate token")
		return
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		respondInternal(w, r, err, "Failed to generate token")
		return
	}
	respondJSON(w, status, AuthResponse{
		Token:     token,
		User:      user,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}
