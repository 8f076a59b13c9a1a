package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/auth"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
	"github.com/oodarncairodepil-spec/learning-dashboard/tests/testutil"
)

type testServer struct {
	url    string
	db     *store.SQLiteStore
	tokens *auth.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestStore(t)
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	handler := NewHandler(Deps{
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Verifier: auth.NewStoreVerifier(db),
		Tokens:   tokens,
		Scope:    func(id string) store.Store { return db.ForUser(id) },
	}, nil)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testServer{url: srv.URL, db: db, tokens: tokens}
}

// addUser creates an account with a real password and returns a token for it.
func (s *testServer) addUser(t *testing.T, email, password string) (model.User, string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	user, err := s.db.CreateUser(context.Background(), model.User{Email: email, PasswordHash: hash})
	if err != nil {
		t.Fatal(err)
	}
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		t.Fatal(err)
	}
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url+path, rdr)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var body map[string]string
	if code := s.do(t, http.MethodGet, "/health", "", nil, &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health: %d %v", code, body)
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	user, _ := s.addUser(t, "learner@example.com", "abc123")

	var resp LoginResponse
	code := s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "learner@example.com", Password: "abc123"}, &resp)
	if code != http.StatusOK {
		t.Fatalf("login status: %d", code)
	}
	if resp.User.ID != user.ID || resp.Token == "" {
		t.Errorf("login response: %+v", resp)
	}

	var cols map[string][]model.Column
	if code := s.do(t, http.MethodGet, "/api/columns", resp.Token, nil, &cols); code != http.StatusOK {
		t.Errorf("token from login rejected: %d", code)
	}

	var e ErrorBody
	code = s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "learner@example.com", Password: "nope"}, &e)
	if code != http.StatusUnauthorized || e.Error == "" {
		t.Errorf("bad password: %d %+v", code, e)
	}
	if code := s.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "learner@example.com"}, nil); code != http.StatusBadRequest {
		t.Errorf("missing password: %d", code)
	}
}

func TestRequiresToken(t *testing.T) {
	s := newTestServer(t)
	for _, token := range []string{"", "garbage"} {
		if code := s.do(t, http.MethodGet, "/api/cards", token, nil, nil); code != http.StatusUnauthorized {
			t.Errorf("token %q: got %d, want 401", token, code)
		}
	}
}

func TestColumnAndCardLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, token := s.addUser(t, "learner@example.com", "pw")

	var col model.Column
	if code := s.do(t, http.MethodPost, "/api/columns", token, model.Column{Name: "In Progress", Position: 0}, &col); code != http.StatusCreated {
		t.Fatalf("create column: %d", code)
	}

	var card model.Card
	code := s.do(t, http.MethodPost, "/api/cards", token, model.Card{Title: "Channels", ColumnID: col.ID, DurationMinutes: 45}, &card)
	if code != http.StatusCreated {
		t.Fatalf("create card: %d", code)
	}
	if card.TimerState != model.TimerNone || card.Archived {
		t.Errorf("new card: %+v", card)
	}

	running := model.TimerRunning
	var spent int64 = 1500
	var updated model.Card
	code = s.do(t, http.MethodPatch, "/api/cards/"+card.ID, token, model.CardPatch{TimerState: &running, TimeSpentMs: &spent}, &updated)
	if code != http.StatusOK || updated.TimerState != model.TimerRunning || updated.TimeSpentMs != 1500 {
		t.Errorf("patch card: %d %+v", code, updated)
	}

	archived := true
	s.do(t, http.MethodPatch, "/api/cards/"+card.ID, token, model.CardPatch{Archived: &archived}, &updated)

	var list map[string][]model.Card
	s.do(t, http.MethodGet, "/api/cards?archived=false", token, nil, &list)
	if len(list["cards"]) != 0 {
		t.Errorf("active cards: %d", len(list["cards"]))
	}
	s.do(t, http.MethodGet, "/api/cards?archived=true", token, nil, &list)
	if len(list["cards"]) != 1 {
		t.Errorf("archived cards: %d", len(list["cards"]))
	}
	if code := s.do(t, http.MethodGet, "/api/cards?archived=maybe", token, nil, nil); code != http.StatusBadRequest {
		t.Errorf("bad filter: %d", code)
	}

	if code := s.do(t, http.MethodDelete, "/api/columns/"+col.ID, token, nil, nil); code != http.StatusConflict {
		t.Errorf("delete column holding a card: %d, want 409", code)
	}
	if code := s.do(t, http.MethodDelete, "/api/cards/"+card.ID, token, nil, nil); code != http.StatusOK {
		t.Errorf("delete card: %d", code)
	}
	if code := s.do(t, http.MethodDelete, "/api/cards/"+card.ID, token, nil, nil); code != http.StatusNotFound {
		t.Errorf("delete card twice: %d", code)
	}
	if code := s.do(t, http.MethodDelete, "/api/columns/"+col.ID, token, nil, nil); code != http.StatusOK {
		t.Errorf("delete empty column: %d", code)
	}
}

func TestValidationIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	_, token := s.addUser(t, "learner@example.com", "pw")

	if code := s.do(t, http.MethodPost, "/api/columns", token, model.Column{Name: " "}, nil); code != http.StatusBadRequest {
		t.Errorf("blank column: %d", code)
	}
	if code := s.do(t, http.MethodPost, "/api/categories", token, "not an object", nil); code != http.StatusBadRequest {
		t.Errorf("bad json: %d", code)
	}
}

func TestUsersCannotSeeEachOther(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.addUser(t, "alice@example.com", "pw")
	_, bob := s.addUser(t, "bob@example.com", "pw")

	var cat model.Category
	s.do(t, http.MethodPost, "/api/categories", alice, model.Category{Name: "Go", Color: "#00ADD8"}, &cat)

	var list map[string][]model.Category
	s.do(t, http.MethodGet, "/api/categories", bob, nil, &list)
	if len(list["categories"]) != 0 {
		t.Errorf("bob sees %d categories", len(list["categories"]))
	}
	name := "Stolen"
	if code := s.do(t, http.MethodPatch, "/api/categories/"+cat.ID, bob, model.CategoryPatch{Name: &name}, nil); code != http.StatusNotFound {
		t.Errorf("cross-user patch: %d, want 404", code)
	}

	var col model.Column
	s.do(t, http.MethodPost, "/api/columns", alice, model.Column{Name: "Backlog"}, &col)
	if code := s.do(t, http.MethodPost, "/api/cards", bob, model.Card{Title: "Sneaky", ColumnID: col.ID}, nil); code != http.StatusConflict {
		t.Errorf("card in another user's column: %d, want 409", code)
	}
	if code := s.do(t, http.MethodPut, "/api/settings/columns/"+col.ID, bob, model.ColumnSettings{DisplayMode: model.ColumnByDate}, nil); code != http.StatusConflict {
		t.Errorf("settings for another user's column: %d, want 409", code)
	}
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t)
	_, token := s.addUser(t, "learner@example.com", "pw")

	var ds model.DashboardSettings
	s.do(t, http.MethodGet, "/api/settings/dashboard", token, nil, &ds)
	if ds.SectionDisplayMode != model.DisplayCardsOnly {
		t.Errorf("default mode: %q", ds.SectionDisplayMode)
	}
	code := s.do(t, http.MethodPut, "/api/settings/dashboard", token,
		model.DashboardSettings{SectionDisplayMode: model.DisplayCardsAndDuration}, &ds)
	if code != http.StatusOK || ds.SectionDisplayMode != model.DisplayCardsAndDuration {
		t.Errorf("put dashboard: %d %+v", code, ds)
	}
	if code := s.do(t, http.MethodPut, "/api/settings/dashboard", token, model.DashboardSettings{SectionDisplayMode: "loud"}, nil); code != http.StatusBadRequest {
		t.Errorf("bad mode: %d", code)
	}

	var col model.Column
	s.do(t, http.MethodPost, "/api/columns", token, model.Column{Name: "Done"}, &col)

	var cs model.ColumnSettings
	s.do(t, http.MethodGet, "/api/settings/columns/"+col.ID, token, nil, &cs)
	if cs.DisplayMode != model.ColumnByCategory || !cs.ShowCardDuration {
		t.Errorf("default column settings: %+v", cs)
	}

	cs.DisplayMode = model.ColumnByDate
	if code := s.do(t, http.MethodPut, "/api/settings/columns/"+col.ID, token, cs, &cs); code != http.StatusOK {
		t.Fatalf("put column settings: %d", code)
	}
	var rows map[string][]model.ColumnSettings
	s.do(t, http.MethodGet, "/api/settings/columns", token, nil, &rows)
	if len(rows["column_settings"]) != 1 || rows["column_settings"][0].DisplayMode != model.ColumnByDate {
		t.Errorf("column settings list: %+v", rows)
	}
	if code := s.do(t, http.MethodDelete, "/api/settings/columns/"+col.ID, token, nil, nil); code != http.StatusOK {
		t.Errorf("delete column settings: %d", code)
	}
}
