package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the account it belongs to.
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

func newLoginHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in LoginRequest
		if err := decode(r, &in); err != nil {
			WriteErr(w, err)
			return
		}
		in.Email = strings.TrimSpace(in.Email)
		if in.Email == "" || in.Password == "" {
			writeError(w, "email and password are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), d.Timeout)
		defer cancel()

		user, err := d.Verifier.Verify(ctx, in.Email, in.Password)
		if err != nil {
			d.Log.Info("login rejected", "email", in.Email, "error", err)
			WriteErr(w, err)
			return
		}

		token, exp, err := d.Tokens.Issue(user)
		if err != nil {
			d.Log.Error("issuing token", "user", user.ID, "error", err)
			WriteErr(w, err)
			return
		}
		d.Log.Info("login", "user", user.ID)
		writeJSON(w, LoginResponse{Token: token, ExpiresAt: exp, User: user}, http.StatusOK)
	}
}
