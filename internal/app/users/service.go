// Package users handles operator accounts and login tokens.
package users

import (
	"context"
	"errors"
	"fmt"

	"lineupboard/internal/auth"
)

// ErrInvalidCredentials indicates a login failure.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Accounts is the store surface the user service needs.
type Accounts interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	Credentials(ctx context.Context, username string) (int64, string, error)
}

// Service provides operator signup and login.
type Service struct {
	accounts Accounts
	tokens   *auth.TokenManager
}

// New constructs a user Service.
func New(accounts Accounts, tokens *auth.TokenManager) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Signup registers a new operator account.
func (s *Service) Signup(ctx context.Context, username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.accounts.CreateUser(ctx, username, hash); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login validates credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	id, hash, err := s.accounts.Credentials(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(hash, password) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate(id, username)
}
