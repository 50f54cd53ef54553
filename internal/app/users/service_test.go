package users

import (
	"context"
	"errors"
	"testing"

	"lineupboard/internal/auth"
	"lineupboard/internal/store"
)

type fakeAccounts struct {
	users map[string]string // username -> hash
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: make(map[string]string)}
}

func (f *fakeAccounts) CreateUser(_ context.Context, username, passwordHash string) (int64, error) {
	if _, ok := f.users[username]; ok {
		return 0, store.ErrUserExists
	}
	f.users[username] = passwordHash
	return int64(len(f.users)), nil
}

func (f *fakeAccounts) Credentials(_ context.Context, username string) (int64, string, error) {
	hash, ok := f.users[username]
	if !ok {
		return 0, "", store.ErrUserNotFound
	}
	return 1, hash, nil
}

func TestSignupAndLogin(t *testing.T) {
	accounts := newFakeAccounts()
	svc := New(accounts, auth.NewTokenManager("test-secret"))

	if err := svc.Signup(context.Background(), "operator", "hunter2"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if accounts.users["operator"] == "hunter2" {
		t.Fatal("password must be stored hashed")
	}

	token, err := svc.Login(context.Background(), "operator", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("login must return a token")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	accounts := newFakeAccounts()
	svc := New(accounts, auth.NewTokenManager("test-secret"))

	if err := svc.Signup(context.Background(), "operator", "hunter2"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.Login(context.Background(), "operator", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	accounts := newFakeAccounts()
	svc := New(accounts, auth.NewTokenManager("test-secret"))

	if err := svc.Signup(context.Background(), "operator", "hunter2"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if err := svc.Signup(context.Background(), "operator", "hunter2"); err == nil {
		t.Fatal("duplicate signup must fail")
	}
}
