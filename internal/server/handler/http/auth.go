// Package http provides the JSON HTTP handlers and routing of the FoodKeeper API.
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/FoodKeeper/internal/middleware"
	"github.com/atinyakov/FoodKeeper/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new account.
	Register(ctx context.Context, email, password, name, photo string) error
	// Login returns a signed session token for valid credentials.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	// Profile returns the signed-in user's account.
	Profile(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile changes the display name and photo URL.
	UpdateProfile(ctx context.Context, email, name, photo string) (*models.User, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword,omitempty" validate:"omitempty,eqfield=Password"`
	Name            string `json:"name"`
	Photo           string `json:"photo,omitempty" validate:"omitempty,url"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo,omitempty"`
}

// ProfileRequest is the payload of PUT /api/profile. Both fields are required.
type ProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Photo string `json:"photo" validate:"required,url"`
}

// ProfileResponse is the public part of an account.
type ProfileResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

func profileOf(u *models.User) ProfileResponse {
	return ProfileResponse{Email: u.Email, Name: u.Name, Photo: u.PhotoURL}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.Register(r.Context(), req.Email, req.Password, req.Name, req.Photo); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"email": req.Email})
}

// Login handles POST /api/login and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	token, u, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Email: u.Email, Name: u.Name, PhotoURL: u.PhotoURL})
}

// Profile handles GET /api/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.AuthService.Profile(r.Context(), middleware.GetUserEmailFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileOf(u))
}

// UpdateProfile handles PUT /api/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	u, err := h.AuthService.UpdateProfile(r.Context(), middleware.GetUserEmailFromContext(r.Context()), req.Name, req.Photo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileOf(u))
}
