package credential

import (
	"errors"
	"testing"
	"time"

	"github.com/99designs/keyring"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

func TestSessionRoundTrip(t *testing.T) {
	v := NewVault(keyring.NewArrayKeyring(nil))

	if _, err := v.Session("http://localhost:8080"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty vault: got %v", err)
	}

	exp := time.Date(2024, 6, 19, 9, 0, 0, 0, time.UTC)
	in := Session{
		Server:    "http://localhost:8080",
		Token:     "tok",
		ExpiresAt: exp,
		User:      model.User{ID: "u1", Email: "a@example.com"},
	}
	if err := v.SaveSession(in); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	// A trailing slash addresses the same server.
	got, err := v.Session("http://localhost:8080/")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if got.Token != "tok" || got.User.ID != "u1" || !got.ExpiresAt.Equal(exp) {
		t.Errorf("session: %+v", got)
	}
	if got.Expired(exp.Add(-time.Minute)) || !got.Expired(exp) {
		t.Error("Expired boundary wrong")
	}

	if err := v.DeleteSession(in.Server); err != nil {
		t.Fatal(err)
	}
	if err := v.DeleteSession(in.Server); err != nil {
		t.Errorf("deleting twice: %v", err)
	}
	if _, err := v.Session(in.Server); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: %v", err)
	}
}

func TestPasswords(t *testing.T) {
	v := NewVault(keyring.NewArrayKeyring(nil))

	if err := v.SetPassword("Learner@Example.com", "abc123"); err != nil {
		t.Fatal(err)
	}
	got, err := v.Password("learner@example.com")
	if err != nil || got != "abc123" {
		t.Errorf("Password: %q %v", got, err)
	}
	if err := v.SaveSession(Session{Server: "x"}); err == nil {
		t.Error("session without token accepted")
	}
}
