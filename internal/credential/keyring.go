// Package credential keeps API sessions and passwords in the OS keyring.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

const serviceName = "learnboard"

// ErrNotFound is returned when no credential is stored under a key.
var ErrNotFound = errors.New("credential not found")

// Session is a logged-in API session for one server.
type Session struct {
	Server    string     `json:"server"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

// Expired reports whether the token is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Vault reads and writes learnboard secrets.
type Vault struct {
	ring keyring.Keyring
}

// Open returns a vault on the system keyring. configDir holds the
// encrypted file backend used when no system keyring is available.
func Open(configDir string) (*Vault, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(configDir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("learnboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Vault{ring: ring}, nil
}

// NewVault wraps an existing keyring, e.g. keyring.NewArrayKeyring in tests.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

func sessionKey(server string) string {
	return "session:" + strings.TrimRight(server, "/")
}

func passwordKey(email string) string {
	return "password:" + strings.ToLower(strings.TrimSpace(email))
}

// Session returns the stored session for server.
func (v *Vault) Session(server string) (Session, error) {
	data, err := v.get(sessionKey(server))
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decoding session for %s: %w", server, err)
	}
	return s, nil
}

// SaveSession stores s under its server.
func (v *Vault) SaveSession(s Session) error {
	if s.Server == "" || s.Token == "" {
		return fmt.Errorf("session needs a server and a token")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return v.set(sessionKey(s.Server), data)
}

// DeleteSession forgets the session for server. Missing sessions are ignored.
func (v *Vault) DeleteSession(server string) error {
	return v.remove(sessionKey(server))
}

// Password returns the password remembered for email.
func (v *Vault) Password(email string) (string, error) {
	data, err := v.get(passwordKey(email))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetPassword remembers a password for email.
func (v *Vault) SetPassword(email, password string) error {
	return v.set(passwordKey(email), []byte(password))
}

// DeletePassword forgets the password for email. Missing entries are ignored.
func (v *Vault) DeletePassword(email string) error {
	return v.remove(passwordKey(email))
}

func (v *Vault) get(key string) ([]byte, error) {
	item, err := v.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting credential %q: %w", key, err)
	}
	return item.Data, nil
}

func (v *Vault) set(key string, data []byte) error {
	err := v.ring.Set(keyring.Item{
		Key:   key,
		Data:  data,
		Label: "learnboard " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

func (v *Vault) remove(key string) error {
	err := v.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
