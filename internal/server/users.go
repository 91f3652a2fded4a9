package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
)

// Accounts creates users and looks up their public profiles.
// Implemented by [services.UserService].
type Accounts interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.Profile, error)
	Profile(ctx context.Context, id int64) (*models.Profile, error)
}

// UsersHandler serves signup and profile lookups.
type UsersHandler struct {
	accounts Accounts
}

func NewUsersHandler(accounts Accounts) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

func (h *UsersHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/api/auth/signup", Handler: h.Signup},
		{Method: http.MethodGet, Path: "/api/users/{id}", Handler: h.Profile},
	}
}

// Signup handles POST /api/auth/signup.
func (h *UsersHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.accounts.Signup(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// Profile handles GET /api/users/{id}.
func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, invalidParam("id", raw))
		return
	}

	profile, err := h.accounts.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HealthHandler reports liveness.
type HealthHandler struct{}

func (HealthHandler) Routes() []Route {
	return []Route{{Method: http.MethodGet, Path: "/health", Handler: func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}}}
}

func invalidParam(name, value string) error {
	return fmt.Errorf("%w: %s must be an integer, got %q", shared.ErrInvalidRequest, name, value)
}

func missingField(name string) error {
	return fmt.Errorf("%w: %s is required", shared.ErrInvalidRequest, name)
}
