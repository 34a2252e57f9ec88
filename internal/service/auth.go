// Package service provides the business logic for accounts, food items and
// notes, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/FoodKeeper/internal/auth"
	"github.com/atinyakov/FoodKeeper/internal/models"
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// CreateUser stores a new account. Returns models.ErrAlreadyExists for a taken e-mail.
	CreateUser(ctx context.Context, u models.User) error
	// GetUserByEmail returns models.ErrNotFound when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile returns models.ErrNotFound when no such user exists.
	UpdateProfile(ctx context.Context, email, name, photo string) error
}

// AuthService registers users and issues session tokens.
type AuthService struct {
	repo     AuthRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewAuthService constructs an AuthService signing tokens with secret.
func NewAuthService(repo AuthRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// Register creates an account for email with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, email, password, name, photo string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.CreateUser(ctx, models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PhotoURL:     photo,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
}

// Login checks the credentials and returns a signed token for the user.
// Unknown e-mails and wrong passwords both yield models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, models.ErrNotFound) {
		return "", nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.Email, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	return token, u, nil
}

// Authenticate returns the e-mail a valid token was issued for.
func (s *AuthService) Authenticate(token string) (string, error) {
	return auth.GetEmailFromToken(token, s.secret)
}

// Profile returns the account of email.
func (s *AuthService) Profile(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

// UpdateProfile changes the display name and photo URL of email and returns
// the stored account.
func (s *AuthService) UpdateProfile(ctx context.Context, email, name, photo string) (*models.User, error) {
	if err := s.repo.UpdateProfile(ctx, email, strings.TrimSpace(name), strings.TrimSpace(photo)); err != nil {
		return nil, err
	}
	return s.repo.GetUserByEmail(ctx, email)
}
