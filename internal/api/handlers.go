package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

// storeFunc is a handler body run against the caller's store. It returns
// the response payload and status.
type storeFunc func(ctx context.Context, st store.Store, r *http.Request) (any, int, error)

func handle(d Deps, op string, fn storeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d.Timeout)
		defer cancel()

		userID := UserID(r.Context())
		out, status, err := fn(ctx, d.Scope(userID), r)
		if err != nil {
			if !errors.Is(err, store.ErrInvalid) && !errors.Is(err, store.ErrNotFound) {
				d.Log.Error("request failed", "op", op, "user", userID, "error", err)
			}
			WriteErr(w, err)
			return
		}
		writeJSON(w, out, status)
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json: %v", store.ErrInvalid, err)
	}
	return nil
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

var deleted = map[string]bool{"ok": true}

// === Columns ===

func newListColumnsHandler(d Deps) http.HandlerFunc {
	return handle(d, "list columns", func(ctx context.Context, st store.Store, _ *http.Request) (any, int, error) {
		cols, err := st.ListColumns(ctx)
		return map[string]any{"columns": nonNil(cols)}, http.StatusOK, err
	})
}

func newCreateColumnHandler(d Deps) http.HandlerFunc {
	return handle(d, "create column", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var in model.Column
		if err := decode(r, &in); err != nil {
			return nil, 0, err
		}
		col, err := st.CreateColumn(ctx, model.Column{Name: in.Name, Position: in.Position})
		return col, http.StatusCreated, err
	})
}

func newUpdateColumnHandler(d Deps) http.HandlerFunc {
	return handle(d, "update column", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var patch model.ColumnPatch
		if err := decode(r, &patch); err != nil {
			return nil, 0, err
		}
		col, err := st.UpdateColumn(ctx, pathID(r), patch)
		return col, http.StatusOK, err
	})
}

func newDeleteColumnHandler(d Deps) http.HandlerFunc {
	return handle(d, "delete column", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		return deleted, http.StatusOK, st.DeleteColumn(ctx, pathID(r))
	})
}

// === Categories ===

func newListCategoriesHandler(d Deps) http.HandlerFunc {
	return handle(d, "list categories", func(ctx context.Context, st store.Store, _ *http.Request) (any, int, error) {
		cats, err := st.ListCategories(ctx)
		return map[string]any{"categories": nonNil(cats)}, http.StatusOK, err
	})
}

func newCreateCategoryHandler(d Deps) http.HandlerFunc {
	return handle(d, "create category", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var in model.Category
		if err := decode(r, &in); err != nil {
			return nil, 0, err
		}
		cat, err := st.CreateCategory(ctx, model.Category{Name: in.Name, Color: in.Color})
		return cat, http.StatusCreated, err
	})
}

func newUpdateCategoryHandler(d Deps) http.HandlerFunc {
	return handle(d, "update category", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var patch model.CategoryPatch
		if err := decode(r, &patch); err != nil {
			return nil, 0, err
		}
		cat, err := st.UpdateCategory(ctx, pathID(r), patch)
		return cat, http.StatusOK, err
	})
}

func newDeleteCategoryHandler(d Deps) http.HandlerFunc {
	return handle(d, "delete category", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		return deleted, http.StatusOK, st.DeleteCategory(ctx, pathID(r))
	})
}

// === Cards ===

func newListCardsHandler(d Deps) http.HandlerFunc {
	return handle(d, "list cards", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var filter store.CardFilter
		if raw := r.URL.Query().Get("archived"); raw != "" {
			archived, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, 0, fmt.Errorf("%w: archived must be true or false", store.ErrInvalid)
			}
			filter.Archived = &archived
		}
		cards, err := st.ListCards(ctx, filter)
		return map[string]any{"cards": nonNil(cards)}, http.StatusOK, err
	})
}

func newCreateCardHandler(d Deps) http.HandlerFunc {
	return handle(d, "create card", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var in model.Card
		if err := decode(r, &in); err != nil {
			return nil, 0, err
		}
		// Identity is the store's to assign.
		in.ID, in.UserID = "", ""
		card, err := st.CreateCard(ctx, in)
		return card, http.StatusCreated, err
	})
}

func newUpdateCardHandler(d Deps) http.HandlerFunc {
	return handle(d, "update card", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var patch model.CardPatch
		if err := decode(r, &patch); err != nil {
			return nil, 0, err
		}
		card, err := st.UpdateCard(ctx, pathID(r), patch)
		return card, http.StatusOK, err
	})
}

func newDeleteCardHandler(d Deps) http.HandlerFunc {
	return handle(d, "delete card", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		return deleted, http.StatusOK, st.DeleteCard(ctx, pathID(r))
	})
}

// === Settings ===

func newGetDashboardSettingsHandler(d Deps) http.HandlerFunc {
	return handle(d, "get dashboard settings", func(ctx context.Context, st store.Store, _ *http.Request) (any, int, error) {
		s, err := st.GetDashboardSettings(ctx)
		return s, http.StatusOK, err
	})
}

func newPutDashboardSettingsHandler(d Deps) http.HandlerFunc {
	return handle(d, "put dashboard settings", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var in model.DashboardSettings
		if err := decode(r, &in); err != nil {
			return nil, 0, err
		}
		s, err := st.UpdateDashboardSettings(ctx, in)
		return s, http.StatusOK, err
	})
}

func newListColumnSettingsHandler(d Deps) http.HandlerFunc {
	return handle(d, "list column settings", func(ctx context.Context, st store.Store, _ *http.Request) (any, int, error) {
		rows, err := st.ListColumnSettings(ctx)
		return map[string]any{"column_settings": nonNil(rows)}, http.StatusOK, err
	})
}

func newGetColumnSettingsHandler(d Deps) http.HandlerFunc {
	return handle(d, "get column settings", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		rows, err := st.ListColumnSettings(ctx)
		if err != nil {
			return nil, 0, err
		}
		id := pathID(r)
		for _, s := range rows {
			if s.ColumnID == id {
				return s, http.StatusOK, nil
			}
		}
		return model.DefaultColumnSettings(UserID(r.Context()), id), http.StatusOK, nil
	})
}

func newPutColumnSettingsHandler(d Deps) http.HandlerFunc {
	return handle(d, "put column settings", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		var in model.ColumnSettings
		if err := decode(r, &in); err != nil {
			return nil, 0, err
		}
		in.ColumnID = pathID(r)
		s, err := st.UpsertColumnSettings(ctx, in.Normalize())
		return s, http.StatusOK, err
	})
}

func newDeleteColumnSettingsHandler(d Deps) http.HandlerFunc {
	return handle(d, "delete column settings", func(ctx context.Context, st store.Store, r *http.Request) (any, int, error) {
		return deleted, http.StatusOK, st.DeleteColumnSettings(ctx, pathID(r))
	})
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
