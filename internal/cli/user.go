package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/auth"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/credential"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/remote"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts in the local database",
	}
	cmd.AddCommand(newUserAddCmd(app))
	cmd.AddCommand(newUserPasswdCmd(app))
	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := askPassword("Password for " + email)
				if err != nil {
					return err
				}
				password = p
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			db, err := openDB(app)
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := db.CreateUser(cmd.Context(), model.User{Email: email, PasswordHash: hash})
			if err != nil {
				return err
			}
			app.log.Info("user created", "id", user.ID, "email", user.Email)
			return writeOut(cmd, app, userRow{ID: user.ID, Email: user.Email})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserPasswdCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Set an account's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = app.cfg.User.Email
			}
			if email == "" {
				email = localEmail
			}
			if password == "" {
				p, err := askPassword("New password for " + email)
				if err != nil {
					return err
				}
				password = p
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			db, err := openDB(app)
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := db.GetUserByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if err := db.UpdatePasswordHash(cmd.Context(), user.ID, hash); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (default user.email)")
	cmd.Flags().StringVar(&password, "password", "", "New password (prompted when empty)")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var server, email, password string
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a learnboard server and switch to remote mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = app.cfg.Store.ServerURL
			}
			if email == "" {
				email = app.cfg.User.Email
			}
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			vault, err := credential.Open(model.ConfigDir())
			if err != nil {
				return err
			}
			if password == "" {
				password, _ = vault.Password(email)
			}
			if password == "" {
				if password, err = askPassword("Password for " + email); err != nil {
					return err
				}
			}

			sess, err := signIn(cmd.Context(), vault, server, email, password)
			if err != nil {
				return err
			}
			if remember {
				if err := vault.SetPassword(email, password); err != nil {
					return err
				}
			}

			app.cfg.Store.Mode = model.StoreModeRemote
			app.cfg.Store.ServerURL = server
			app.cfg.User.Email = sess.User.Email
			if err := model.SaveConfig(app.ConfigPath, app.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in to %s as %s (token expires %s)\n",
				server, sess.User.Email, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (default store.server_url)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (default user.email)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	cmd.Flags().BoolVar(&remember, "remember", false, "Keep the password in the keyring to renew expired sessions")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the server session",
		RunE: func(cmd *cobra.Command, args []string) error {
			vault, err := credential.Open(model.ConfigDir())
			if err != nil {
				return err
			}
			if err := vault.DeleteSession(app.cfg.Store.ServerURL); err != nil {
				return err
			}
			if app.cfg.User.Email != "" {
				if err := vault.DeletePassword(app.cfg.User.Email); err != nil {
					return err
				}
			}
			if local {
				app.cfg.Store.Mode = model.StoreModeLocal
				return model.SaveConfig(app.ConfigPath, app.cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Switch back to the local database")
	return cmd
}

// signIn exchanges credentials for a token and stores the session.
func signIn(ctx context.Context, vault *credential.Vault, server, email, password string) (credential.Session, error) {
	resp, err := remote.Login(ctx, server, email, password)
	if err != nil {
		return credential.Session{}, fmt.Errorf("signing in to %s: %w", server, err)
	}
	sess := credential.Session{
		Server:    server,
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		User:      resp.User,
	}
	if err := vault.SaveSession(sess); err != nil {
		return credential.Session{}, err
	}
	return sess, nil
}

// renewSession signs in again with the remembered password.
func renewSession(ctx context.Context, vault *credential.Vault, server, email string) (credential.Session, error) {
	password, err := vault.Password(email)
	if errors.Is(err, credential.ErrNotFound) {
		return credential.Session{}, fmt.Errorf("not signed in to %s: run `learnboard login`", server)
	}
	if err != nil {
		return credential.Session{}, err
	}
	return signIn(ctx, vault, server, email, password)
}

func askPassword(title string) (string, error) {
	var password string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}
