package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/auth"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, ErrorBody{Error: msg}, status)
}

// WriteErr maps a store or auth error to its HTTP status.
func WriteErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalid):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, err.Error(), http.StatusUnauthorized)
	default:
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}
