// Package auth handles practice accounts: password hashing, signed tokens,
// and the signup and login flows over a user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// Users is the slice of the user store the auth flows need.
type Users interface {
	CreateUser(ctx context.Context, u model.User) error
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// Service runs signup and login.
type Service struct {
	users  Users
	hasher *PasswordHasher
	tokens *TokenService
	now    func() time.Time
}

// NewService wires the auth flows.
func NewService(users Users, hasher *PasswordHasher, tokens *TokenService) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

// Tokens exposes the token service for request authentication.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an account and returns it with a fresh token. Duplicate
// emails surface the store's error unchanged.
func (s *Service) Signup(ctx context.Context, name, email, password string) (model.User, string, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, "", fmt.Errorf("%w: invalid email", model.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.User{}, "", fmt.Errorf("%w: name must not be empty", model.ErrInvalidInput)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrWeakPassword) {
			return model.User{}, "", fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
		}
		return model.User{}, "", err
	}

	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return model.User{}, "", err
	}
	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return model.User{}, "", err
	}
	return u, token, nil
}

// Login verifies credentials. Unknown emails and wrong passwords both return
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, string, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return model.User{}, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return model.User{}, "", err
	}
	return u, token, nil
}

// Authenticate validates a bearer token and returns the user ID it names.
func (s *Service) Authenticate(token string) (string, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
