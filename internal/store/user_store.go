package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// CreateUser inserts an account. PasswordHash must already be hashed.
func (s *SQLiteStore) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	user.Email = strings.TrimSpace(user.Email)
	if user.Email == "" {
		return model.User{}, fmt.Errorf("user email must not be empty: %w", ErrInvalid)
	}
	if user.PasswordHash == "" {
		return model.User{}, fmt.Errorf("user password hash must not be empty: %w", ErrInvalid)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("creating user %s: %w", user.Email, err)
	}
	return user, nil
}

// GetUserByEmail looks an account up case-insensitively.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?",
		strings.TrimSpace(email))
	if err != nil {
		return model.User{}, fmt.Errorf("getting user %s: %w", email, notFound("user", email, err))
	}
	return user, nil
}

// GetUserByID looks an account up by id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id)
	if err != nil {
		return model.User{}, fmt.Errorf("getting user %s: %w", id, notFound("user", id, err))
	}
	return user, nil
}

// UpdatePasswordHash replaces an account's password hash.
func (s *SQLiteStore) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("updating password for user %s: %w", id, err)
	}
	return checkAffected(result, "user", id)
}
