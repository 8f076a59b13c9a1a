// Package cli is the learnboard command line: the interactive board by
// default, plus scriptable subcommands and the API server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/app"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/auth"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/credential"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/remote"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

// localEmail owns the board in local mode when no user is configured.
const localEmail = "me@localhost"

// App carries the persistent flags and the loaded configuration.
type App struct {
	ConfigPath string
	Format     string

	cfg *model.AppConfig
	log *slog.Logger

	// logFile is closed after the command ran.
	logFile io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "learnboard",
		Short:        "Kanban board for learning tasks with per-card timers",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the interactive board
  learnboard

  # Scriptable commands
  learnboard card add --title "Read chapter 3" --category Go --hours 1
  learnboard timer start <card-id>

  # Serve the board over HTTP for remote clients
  LEARNBOARD_SERVER_JWT_SECRET=... learnboard serve
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := model.LoadConfig(app.ConfigPath)
		if err != nil {
			return err
		}
		app.cfg = cfg
		// The TUI owns the terminal, so it logs to a file or not at all.
		return app.setupLogger(cmd.CommandPath() == "learnboard", cmd.ErrOrStderr())
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logFile != nil {
			return app.logFile.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("LEARNBOARD_CONFIG", model.DefaultConfigPath()), "Path to the config file")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "text", "Output format (text|json|yaml)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newUserCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newColumnCmd(app))
	cmd.AddCommand(newCardCmd(app))
	cmd.AddCommand(newCategoryCmd(app))
	cmd.AddCommand(newTimerCmd(app))
	cmd.AddCommand(newReportCmd(app))

	return cmd
}

func runTUI(ctx context.Context, a *App) error {
	relay := &app.TickRelay{}
	b, closeFn, err := openBoard(ctx, a, board.WithTickFunc(relay.Func()))
	if err != nil {
		return err
	}
	defer closeFn()
	return app.Run(b, relay)
}

// setupLogger builds the slog logger from config. quiet sends logs to
// log.file, or discards them when no file is configured.
func (a *App) setupLogger(quiet bool, stderr io.Writer) error {
	level, err := parseLevel(a.cfg.Log.Level)
	if err != nil {
		return err
	}

	var w io.Writer = stderr
	switch {
	case a.cfg.Log.File != "":
		if err := os.MkdirAll(filepath.Dir(a.cfg.Log.File), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(a.cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", a.cfg.Log.File, err)
		}
		a.logFile = f
		w = f
	case quiet:
		w = io.Discard
	}

	a.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.log)
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// openBoard connects the configured store, resolves the user and loads
// the board. The returned func releases everything.
func openBoard(ctx context.Context, a *App, opts ...board.Option) (*board.Board, func(), error) {
	st, user, closeStore, err := openStore(ctx, a)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]board.Option{
		board.WithClock(func() time.Time { return timeNow() }),
		board.WithLogger(a.log),
		board.WithTickInterval(a.cfg.Timer.TickInterval),
	}, opts...)
	b := board.New(st, user, opts...)

	if err := b.LoadAll(ctx); err != nil {
		b.Close()
		closeStore()
		return nil, nil, fmt.Errorf("loading board: %w", err)
	}

	return b, func() {
		b.Close()
		closeStore()
	}, nil
}

func openStore(ctx context.Context, a *App) (store.Store, model.User, func(), error) {
	if a.cfg.Store.Mode == model.StoreModeRemote {
		return openRemote(ctx, a)
	}

	db, err := openDB(a)
	if err != nil {
		return nil, model.User{}, nil, err
	}
	user, err := localUser(ctx, db, a.cfg.User.Email)
	if err != nil {
		db.Close()
		return nil, model.User{}, nil, err
	}
	return db.ForUser(user.ID), user, func() { db.Close() }, nil
}

func openDB(a *App) (*store.SQLiteStore, error) {
	path := a.cfg.Store.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	return store.NewSQLiteStore(path)
}

// localUser returns the account for email, creating it on first use. An
// account created here has a random password; `user passwd` sets a real
// one before it can sign in through the server.
func localUser(ctx context.Context, db *store.SQLiteStore, email string) (model.User, error) {
	if email == "" {
		email = localEmail
	}
	user, err := db.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return model.User{}, err
	}
	return db.CreateUser(ctx, model.User{Email: email, PasswordHash: hash})
}

// openRemote uses the stored session for the configured server, renewing
// it with a remembered password when it is missing or expired.
func openRemote(ctx context.Context, a *App) (store.Store, model.User, func(), error) {
	vault, err := credential.Open(model.ConfigDir())
	if err != nil {
		return nil, model.User{}, nil, err
	}
	server := a.cfg.Store.ServerURL
	sess, err := vault.Session(server)
	switch {
	case errors.Is(err, credential.ErrNotFound), err == nil && sess.Expired(timeNow()):
		a.log.Info("renewing session", "server", server)
		sess, err = renewSession(ctx, vault, server, a.cfg.User.Email)
		if err != nil {
			return nil, model.User{}, nil, err
		}
	case err != nil:
		return nil, model.User{}, nil, err
	}
	return remote.NewClient(server, sess.Token), sess.User, func() {}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
