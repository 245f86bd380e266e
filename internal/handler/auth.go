package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/service"
)

// AuthHandler handles registration, login, and balance queries.
type AuthHandler struct {
	auth    *service.AuthService
	billing *service.BillingService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, billing *service.BillingService) *AuthHandler {
	return &AuthHandler{auth: auth, billing: billing}
}

// HandleRegister processes a registration request.
// POST /register
// Request:  {"name":"...","email":"...","password":"..."}
// Response: {"success":true,"token":"...","user":{"name":"..."}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Missing details")
			return
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		slog.Error("register user", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
		"user":    map[string]any{"name": user.Name},
	})
}

// HandleLogin processes a login request.
// POST /login
// Request:  {"email":"...","password":"..."}
// Response: {"success":true,"token":"...","user":{"name":"..."}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    map[string]any{"name": user.Name},
	})
}

// HandleCredits returns the authenticated user's credit balance.
// POST /credits
// Response: {"success":true,"credits":N,"user":{"name":"..."}}
func (h *AuthHandler) HandleCredits(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	credits, err := h.billing.Balance(r.Context(), user.ID)
	if err != nil {
		slog.Error("get balance", "error", err, "user", user.ID)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"credits": credits,
		"user":    map[string]any{"name": user.Name},
	})
}
