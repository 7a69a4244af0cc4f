package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/piiguard/internal/logging"
	"github.com/dmitrijs2005/piiguard/internal/server/auth"
	"github.com/dmitrijs2005/piiguard/internal/server/models"
	"github.com/dmitrijs2005/piiguard/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// UserService is the subset of services.UserService the handlers use.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.UserView, error)
	GetByID(ctx context.Context, id string) (*models.UserView, error)
	ListAll(ctx context.Context) ([]*models.UserView, error)
}

// Authenticator verifies bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthService is the subset of services.AuthService the handlers use.
type AuthService interface {
	Authenticator
	SignIn(ctx context.Context, email, password string) (*services.TokenResponse, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type handlers struct {
	users UserService
	auth  AuthService
	db    Pinger
	log   logging.Logger
}

// POST /users
func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	v, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(v))
}

// GET /users
func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	views, err := h.users.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	resp := make([]UserResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newUserResponse(v))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /users/{id}
func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	v, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(v))
}

// POST /auth/login
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	t, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(t))
}

// GET /healthz
func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
