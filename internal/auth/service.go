// Package auth implements the login gate. The application serves a single
// merchant, so authentication checks one configured credential instead of a
// user table.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Arekyus/Sistema-comerciantes/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	username     string
	passwordHash []byte
}

// NewService hashes the configured password once at startup so login
// attempts always go through a bcrypt comparison.
func NewService(username, password string) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash credential: %w", err)
	}
	return &Service{username: username, passwordHash: hash}, nil
}

// Authenticate validates username/password against the merchant credential.
func (s *Service) Authenticate(ctx context.Context, username, password string) error {
	// Compare the password first so a wrong username costs the same time
	// as a wrong password.
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	userMatch := subtle.ConstantTimeCompare([]byte(s.username), []byte(username)) == 1
	if passErr != nil || !userMatch {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// Username returns the merchant login name.
func (s *Service) Username() string {
	return s.username
}
