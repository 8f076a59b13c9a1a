package testutil

import (
	"context"
	"testing"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestUser inserts an account with a placeholder hash and returns it.
func NewTestUser(t *testing.T, s *store.SQLiteStore, email string) model.User {
	t.Helper()

	user, err := s.CreateUser(context.Background(), model.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
	})
	if err != nil {
		t.Fatalf("creating test user %s: %v", email, err)
	}
	return user
}

// NewUserStore returns a fresh in-memory database and a store scoped to a
// new user in it.
func NewUserStore(t *testing.T) (*store.SQLiteStore, *store.UserStore) {
	t.Helper()

	s := NewTestStore(t)
	user := NewTestUser(t, s, "learner@example.com")
	return s, s.ForUser(user.ID)
}
