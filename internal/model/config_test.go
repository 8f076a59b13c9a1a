package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store.Mode != StoreModeLocal {
		t.Errorf("store mode: got %q, want %q", cfg.Store.Mode, StoreModeLocal)
	}
	if cfg.Timer.TickInterval != time.Second {
		t.Errorf("tick interval: got %v, want 1s", cfg.Timer.TickInterval)
	}
	if cfg.Server.Address != ":3001" {
		t.Errorf("server address: got %q", cfg.Server.Address)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`store:
  mode: remote
  server_url: http://board.example:9000
user:
  email: me@example.com
timer:
  tick_interval: 250ms
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store.Mode != StoreModeRemote {
		t.Errorf("store mode: got %q", cfg.Store.Mode)
	}
	if cfg.Store.ServerURL != "http://board.example:9000" {
		t.Errorf("server url: got %q", cfg.Store.ServerURL)
	}
	if cfg.User.Email != "me@example.com" {
		t.Errorf("email: got %q", cfg.User.Email)
	}
	if cfg.Timer.TickInterval != 250*time.Millisecond {
		t.Errorf("tick interval: got %v", cfg.Timer.TickInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level: got %q", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  mode: carrier-pigeon\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown store mode")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.User.Email = "saved@example.com"
	cfg.Server.JWTSecret = "do-not-write"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(raw); strings.Contains(got, "do-not-write") {
		t.Errorf("secret leaked into config file:\n%s", got)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.User.Email != "saved@example.com" {
		t.Errorf("email: got %q", loaded.User.Email)
	}
}

func TestCardPatchApply(t *testing.T) {
	cat := "c1"
	c := Card{ID: "x", Title: "old", CategoryID: &cat}
	title := "new"
	none := ""
	archived := true
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	got := CardPatch{Title: &title, CategoryID: &none, Archived: &archived}.Apply(c, at)
	if got.Title != "new" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.CategoryID != nil {
		t.Errorf("category should be cleared, got %q", *got.CategoryID)
	}
	if !got.Archived || got.ArchivedAt == nil || !got.ArchivedAt.Equal(at) {
		t.Errorf("archive stamp: got %v %v", got.Archived, got.ArchivedAt)
	}
	if c.Title != "old" {
		t.Errorf("Apply mutated its input")
	}
}

func TestLoadConfigStaticAuth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`server:
  auth: static
  static_users:
    - email: kala@example.com
      password: abc123
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Auth != ServerAuthStatic {
		t.Errorf("server auth: got %q", cfg.Server.Auth)
	}
	want := StaticUser{Email: "kala@example.com", Password: "abc123"}
	if len(cfg.Server.StaticUsers) != 1 || cfg.Server.StaticUsers[0] != want {
		t.Errorf("static users: got %+v", cfg.Server.StaticUsers)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("server:\n  auth: ldap\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected an error for an unknown server auth")
	}
}
