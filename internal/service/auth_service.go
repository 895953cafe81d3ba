package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/flags"
	"brinleneuro/internal/security"
	"brinleneuro/internal/validation"
)

var ErrInvalidCredentials = errors.New("invalid username or passphrase")

// AuthService checks the single app login and records it on the device
type AuthService struct {
	username string
	hash     string
}

// NewAuthService hashes the configured passphrase once at startup
func NewAuthService(username, passphrase string) (*AuthService, error) {
	hash, err := security.HashPassword(passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to hash passphrase: %w", err)
	}
	return &AuthService{username: strings.TrimSpace(username), hash: hash}, nil
}

// Login verifies the credentials and marks the device as logged in
func (s *AuthService) Login(ctx context.Context, store flags.Store, username, passphrase string) error {
	if err := validation.ValidateCredentials(username, passphrase); err != nil {
		return ErrInvalidCredentials
	}
	username = strings.TrimSpace(username)
	if username != s.username || !security.CheckPassword(passphrase, s.hash) {
		log.Info().Str("username", username).Msg("login rejected")
		return ErrInvalidCredentials
	}
	if err := flags.SetAuthenticated(ctx, store, username); err != nil {
		return fmt.Errorf("failed to save login: %w", err)
	}
	log.Info().Str("username", username).Msg("login")
	return nil
}

// Logout forgets the device's login
func (s *AuthService) Logout(ctx context.Context, store flags.Store) error {
	if err := flags.ClearAuth(ctx, store); err != nil {
		return fmt.Errorf("failed to clear login: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether the device is logged in
func (s *AuthService) IsAuthenticated(ctx context.Context, store flags.Store) bool {
	return flags.Authenticated(ctx, store)
}
