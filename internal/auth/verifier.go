// Package auth verifies learner credentials and issues API tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong
// password. The two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks an email/password pair and returns the account.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (model.User, error)
}

// UserLookup finds accounts by email. *store.SQLiteStore implements it.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// HashPassword returns a bcrypt hash suitable for model.User.PasswordHash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

// StoreVerifier checks passwords against the bcrypt hashes in the users table.
type StoreVerifier struct {
	users UserLookup
}

// NewStoreVerifier creates a verifier backed by users.
func NewStoreVerifier(users UserLookup) *StoreVerifier {
	return &StoreVerifier{users: users}
}

func (v *StoreVerifier) Verify(ctx context.Context, email, password string) (model.User, error) {
	user, err := lookup(ctx, v.users, email)
	if err != nil {
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// StaticVerifier checks passwords against a fixed email → password table
// and then loads the matching account. Meant for development setups.
type StaticVerifier struct {
	passwords map[string]string
	users     UserLookup
}

// NewStaticVerifier creates a verifier over passwords. Emails are matched
// case-insensitively.
func NewStaticVerifier(passwords map[string]string, users UserLookup) *StaticVerifier {
	norm := make(map[string]string, len(passwords))
	for email, pw := range passwords {
		norm[strings.ToLower(strings.TrimSpace(email))] = pw
	}
	return &StaticVerifier{passwords: norm, users: users}
}

func (v *StaticVerifier) Verify(ctx context.Context, email, password string) (model.User, error) {
	want, ok := v.passwords[strings.ToLower(strings.TrimSpace(email))]
	if !ok || password == "" || want != password {
		return model.User{}, ErrInvalidCredentials
	}
	return lookup(ctx, v.users, email)
}

func lookup(ctx context.Context, users UserLookup, email string) (model.User, error) {
	if strings.TrimSpace(email) == "" {
		return model.User{}, ErrInvalidCredentials
	}
	user, err := users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("looking up %s: %w", email, err)
	}
	return user, nil
}
