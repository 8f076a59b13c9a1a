package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/api"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/auth"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board HTTP API",
		Long: "Serve the board over HTTP for remote clients. The JWT secret comes from " +
			"server.jwt_secret or LEARNBOARD_SERVER_JWT_SECRET. server.auth selects how " +
			"logins are checked: store (password hashes set with `learnboard user`) or " +
			"static (server.static_users).",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.cfg.Server.Address
			}
			tokens, err := auth.NewTokenIssuer(app.cfg.Server.JWTSecret, app.cfg.Server.TokenTTL)
			if err != nil {
				return err
			}

			db, err := openDB(app)
			if err != nil {
				return err
			}
			defer db.Close()

			verifier, err := newVerifier(app.cfg.Server, db)
			if err != nil {
				return err
			}

			handler := api.NewHandler(api.Deps{
				Log:      app.log,
				Verifier: verifier,
				Tokens:   tokens,
				Scope:    func(userID string) store.Store { return db.ForUser(userID) },
			}, app.cfg.Server.AllowedOrigins)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, app, api.NewServer(addr, handler))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.address)")
	return cmd
}

// newVerifier picks the login check named by server.auth.
func newVerifier(cfg model.ServerConfig, users auth.UserLookup) (auth.Verifier, error) {
	if cfg.Auth != model.ServerAuthStatic {
		return auth.NewStoreVerifier(users), nil
	}
	if len(cfg.StaticUsers) == 0 {
		return nil, fmt.Errorf("server.auth is static but server.static_users is empty")
	}
	passwords := make(map[string]string, len(cfg.StaticUsers))
	for _, u := range cfg.StaticUsers {
		passwords[u.Email] = u.Password
	}
	return auth.NewStaticVerifier(passwords, users), nil
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, app *App, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		app.log.Info("api server listening", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		app.log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}
