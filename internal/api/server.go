// Package api exposes the per-user board store over HTTP with JWT auth.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/auth"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

// ScopeFunc returns the store for one authenticated user.
type ScopeFunc func(userID string) store.Store

// Deps are the collaborators the handlers need.
type Deps struct {
	Log      *slog.Logger
	Verifier auth.Verifier
	Tokens   *auth.TokenIssuer
	Scope    ScopeFunc

	// Timeout bounds each store call. Zero means 10s.
	Timeout time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
	return d
}

// NewRouter registers every route on a gorilla/mux router.
func NewRouter(d Deps) *mux.Router {
	d = d.withDefaults()
	r := mux.NewRouter()
	r.Use(requestLogger(d.Log))

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/api/auth/login", newLoginHandler(d)).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(requireToken(d.Tokens))

	// columns
	api.Handle("/columns", newListColumnsHandler(d)).Methods(http.MethodGet)
	api.Handle("/columns", newCreateColumnHandler(d)).Methods(http.MethodPost)
	api.Handle("/columns/{id}", newUpdateColumnHandler(d)).Methods(http.MethodPatch)
	api.Handle("/columns/{id}", newDeleteColumnHandler(d)).Methods(http.MethodDelete)

	// categories
	api.Handle("/categories", newListCategoriesHandler(d)).Methods(http.MethodGet)
	api.Handle("/categories", newCreateCategoryHandler(d)).Methods(http.MethodPost)
	api.Handle("/categories/{id}", newUpdateCategoryHandler(d)).Methods(http.MethodPatch)
	api.Handle("/categories/{id}", newDeleteCategoryHandler(d)).Methods(http.MethodDelete)

	// cards
	api.Handle("/cards", newListCardsHandler(d)).Methods(http.MethodGet)
	api.Handle("/cards", newCreateCardHandler(d)).Methods(http.MethodPost)
	api.Handle("/cards/{id}", newUpdateCardHandler(d)).Methods(http.MethodPatch)
	api.Handle("/cards/{id}", newDeleteCardHandler(d)).Methods(http.MethodDelete)

	// settings
	api.Handle("/settings/dashboard", newGetDashboardSettingsHandler(d)).Methods(http.MethodGet)
	api.Handle("/settings/dashboard", newPutDashboardSettingsHandler(d)).Methods(http.MethodPut)
	api.Handle("/settings/columns", newListColumnSettingsHandler(d)).Methods(http.MethodGet)
	api.Handle("/settings/columns/{id}", newGetColumnSettingsHandler(d)).Methods(http.MethodGet)
	api.Handle("/settings/columns/{id}", newPutColumnSettingsHandler(d)).Methods(http.MethodPut)
	api.Handle("/settings/columns/{id}", newDeleteColumnSettingsHandler(d)).Methods(http.MethodDelete)

	return r
}

// NewHandler wraps the router with CORS for the given origins.
// An empty list allows any origin.
func NewHandler(d Deps, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(NewRouter(d))
}

// NewServer builds an http.Server for addr.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
