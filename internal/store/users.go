package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates a credentials lookup miss.
	ErrUserNotFound = errors.New("user not found")
)

// CreateUser registers an operator account with a pre-hashed password.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return 0, fmt.Errorf("username and password hash are required")
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, username, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// Credentials returns the id and password hash for a username.
func (s *Store) Credentials(ctx context.Context, username string) (int64, string, error) {
	var (
		id   int64
		hash string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM users
		WHERE username = $1
	`, username).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrUserNotFound
		}
		return 0, "", fmt.Errorf("lookup user: %w", err)
	}
	return id, hash, nil
}
