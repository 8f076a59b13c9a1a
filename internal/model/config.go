package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store modes.
const (
	StoreModeLocal  = "local"
	StoreModeRemote = "remote"
)

// StoreConfig selects where board data lives.
type StoreConfig struct {
	// Mode is "local" (SQLite file) or "remote" (HTTP API).
	Mode string `mapstructure:"mode" yaml:"mode"`

	// Path is the SQLite database file used in local mode and by `serve`.
	Path string `mapstructure:"path" yaml:"path"`

	// ServerURL is the API root used in remote mode.
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
}

// UserConfig identifies the signed-in account.
type UserConfig struct {
	Email string `mapstructure:"email" yaml:"email"`
}

// Server auth modes.
const (
	ServerAuthStore  = "store"
	ServerAuthStatic = "static"
)

// StaticUser is a fixed login for ServerAuthStatic. The account itself
// must still exist in the users table.
type StaticUser struct {
	Email    string `mapstructure:"email" yaml:"email"`
	Password string `mapstructure:"password" yaml:"password"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	Address        string        `mapstructure:"address" yaml:"address"`
	JWTSecret      string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// Auth is "store" (bcrypt hashes in the users table) or "static"
	// (passwords from StaticUsers).
	Auth        string       `mapstructure:"auth" yaml:"auth"`
	StaticUsers []StaticUser `mapstructure:"static_users" yaml:"static_users"`
}

// TimerConfig holds stopwatch display settings.
type TimerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`

	// File receives logs while the TUI owns the terminal. Empty means
	// logs are discarded in TUI mode.
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	User   UserConfig   `mapstructure:"user" yaml:"user"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Timer  TimerConfig  `mapstructure:"timer" yaml:"timer"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// EnvPrefix prefixes environment overrides, e.g. LEARNBOARD_SERVER_JWT_SECRET.
const EnvPrefix = "LEARNBOARD"

// ConfigDir returns ~/.config/learnboard.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "learnboard")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/learnboard/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Store: StoreConfig{
			Mode:      StoreModeLocal,
			Path:      filepath.Join(ConfigDir(), "board.db"),
			ServerURL: "http://localhost:3001",
		},
		Server: ServerConfig{
			Address:        ":3001",
			TokenTTL:       7 * 24 * time.Hour,
			AllowedOrigins: []string{"*"},
			Auth:           ServerAuthStore,
		},
		Timer: TimerConfig{TickInterval: time.Second},
		Log:   LogConfig{Level: "info"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables prefixed with LEARNBOARD_ override file values.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.mode", def.Store.Mode)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("store.server_url", def.Store.ServerURL)
	v.SetDefault("user.email", "")
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", def.Server.TokenTTL)
	v.SetDefault("server.allowed_origins", def.Server.AllowedOrigins)
	v.SetDefault("server.auth", def.Server.Auth)
	v.SetDefault("timer.tick_interval", def.Timer.TickInterval)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", "")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enum-like fields and fills zero durations.
func (c *AppConfig) Validate() error {
	switch c.Store.Mode {
	case StoreModeLocal, StoreModeRemote:
	case "":
		c.Store.Mode = StoreModeLocal
	default:
		return fmt.Errorf("unknown store mode %q", c.Store.Mode)
	}
	if c.Store.Mode == StoreModeRemote && strings.TrimSpace(c.Store.ServerURL) == "" {
		return fmt.Errorf("store.server_url is required in remote mode")
	}
	switch c.Server.Auth {
	case ServerAuthStore, ServerAuthStatic:
	case "":
		c.Server.Auth = ServerAuthStore
	default:
		return fmt.Errorf("unknown server auth %q", c.Server.Auth)
	}
	if c.Timer.TickInterval <= 0 {
		c.Timer.TickInterval = time.Second
	}
	if c.Server.TokenTTL <= 0 {
		c.Server.TokenTTL = 7 * 24 * time.Hour
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed. The JWT secret is never written.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("store", map[string]any{
		"mode":       cfg.Store.Mode,
		"path":       cfg.Store.Path,
		"server_url": cfg.Store.ServerURL,
	})
	v.Set("user", map[string]any{"email": cfg.User.Email})
	v.Set("server", map[string]any{
		"address":         cfg.Server.Address,
		"token_ttl":       cfg.Server.TokenTTL.String(),
		"allowed_origins": cfg.Server.AllowedOrigins,
		"auth":            cfg.Server.Auth,
		"static_users":    staticUsers(cfg.Server.StaticUsers),
	})
	v.Set("timer", map[string]any{"tick_interval": cfg.Timer.TickInterval.String()})
	v.Set("log", map[string]any{"level": cfg.Log.Level, "file": cfg.Log.File})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

func staticUsers(users []StaticUser) []map[string]any {
	out := make([]map[string]any, len(users))
	for i, u := range users {
		out[i] = map[string]any{"email": u.Email, "password": u.Password}
	}
	return out
}
