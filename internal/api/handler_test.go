package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/service"
	"github.com/amterp/kanpad/internal/store"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// testAPI provides a complete test environment for API handler tests.
type testAPI struct {
	handler *Handler
	mux     *http.ServeMux
	board   *service.BoardService
	theme   *service.ThemeService
	kv      store.Store
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return setupTestAPIWithStore(t, store.NewMemoryStore())
}

func setupTestAPIWithStore(t *testing.T, kv store.Store) *testAPI {
	t.Helper()

	n := 0
	logger := log.New(io.Discard)
	board := service.NewBoardService(kv,
		service.WithClock(func() time.Time { return testNow }),
		service.WithIDGenerator(func(func(string) bool) string {
			n++
			return fmt.Sprintf("card-%d", n)
		}),
		service.WithLogger(logger),
	)
	board.Load(context.Background())
	theme := service.NewThemeService(kv, func() bool { return false }, logger)
	theme.Load(context.Background())

	handler := NewHandler(board, theme, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &testAPI{handler: handler, mux: mux, board: board, theme: theme, kv: kv}
}

func (api *testAPI) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, req)
	return rec
}

func decodeMutation(t *testing.T, rec *httptest.ResponseRecorder) service.Mutation {
	t.Helper()
	var m service.Mutation
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode mutation: %v\n%s", err, rec.Body.String())
	}
	return m
}

func (api *testAPI) addCard(t *testing.T, listID string) model.Card {
	t.Helper()
	m, err := api.board.AddCard(context.Background(), listID)
	if err != nil || !m.Changed {
		t.Fatalf("AddCard(%q) failed: changed=%v err=%v", listID, m.Changed, err)
	}
	return *m.Card
}

func TestGetBoard(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, http.MethodGet, "/api/v1/board", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	var board model.Board
	if err := json.Unmarshal(rec.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(board.Lists) != 3 {
		t.Errorf("got %d lists, want 3", len(board.Lists))
	}
}

func TestAddCard(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, http.MethodPost, "/api/v1/lists/todo/cards", "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("Status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	m := decodeMutation(t, rec)
	if !m.Changed || m.Card == nil {
		t.Fatalf("expected a changed mutation with a card: %+v", m)
	}
	if m.Card.Title != model.DefaultCardTitle || m.Card.Weight != 0 {
		t.Errorf("unexpected new card: %+v", m.Card)
	}
	if !m.Card.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", m.Card.CreatedAt, testNow)
	}
	if got := len(api.board.Snapshot().Lists[0].Cards); got != 1 {
		t.Errorf("todo has %d cards, want 1", got)
	}
}

func TestAddCard_UnknownList(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, http.MethodPost, "/api/v1/lists/nope/cards", "")

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if m := decodeMutation(t, rec); m.Changed || m.Card != nil {
		t.Errorf("unknown list should report changed=false without a card: %+v", m)
	}
	if api.board.Snapshot().CardCount() != 0 {
		t.Error("board should be unchanged")
	}
}

func TestUpdateCard(t *testing.T) {
	api := setupTestAPI(t)
	card := api.addCard(t, model.ListTodo)

	body := `{"id":"ignored","title":"Ship it","weight":7,"labels":["release"],"createdAt":"2000-01-01T00:00:00Z"}`
	rec := api.request(t, http.MethodPut, "/api/v1/cards/"+card.ID, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	m := decodeMutation(t, rec)
	if m.Card == nil || m.Card.ID != card.ID {
		t.Fatalf("Card = %+v, want ID %q", m.Card, card.ID)
	}

	got := api.board.Snapshot().Lists[0].Cards[0]
	if got.Title != "Ship it" || got.Weight != 7 {
		t.Errorf("card not updated: %+v", got)
	}
	if !got.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, should be preserved as %v", got.CreatedAt, testNow)
	}
}

func TestUpdateCard_InvalidWeight(t *testing.T) {
	api := setupTestAPI(t)
	card := api.addCard(t, model.ListTodo)

	tests := []struct {
		name string
		body string
	}{
		{"negative", `{"title":"x","weight":-1}`},
		{"too heavy", `{"title":"x","weight":11}`},
		{"null", `{"title":"x","weight":null}`},
		{"missing", `{"title":"x"}`},
		{"not a number", `{"title":"x","weight":"heavy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			rec := api.request(t, http.MethodPut, "/api/v1/cards/"+card.ID, body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if got := api.board.Snapshot().Lists[0].Cards[0]; got.Title != model.DefaultCardTitle {
				t.Errorf("card should be unchanged, got %+v", got)
			}
		})
	}
}

func TestUpdateCard_Errors(t *testing.T) {
	api := setupTestAPI(t)
	card := api.addCard(t, model.ListTodo)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"unknown card", "/api/v1/cards/missing", `{"title":"x","weight":1}`, http.StatusOK},
		{"bad json", "/api/v1/cards/" + card.ID, `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.request(t, http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestUpdateCard_IdenticalIsUnchanged(t *testing.T) {
	api := setupTestAPI(t)
	card := api.addCard(t, model.ListTodo)

	body, _ := json.Marshal(card)
	rec := api.request(t, http.MethodPut, "/api/v1/cards/"+card.ID, string(body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if m := decodeMutation(t, rec); m.Changed {
		t.Error("identical update should report changed=false")
	}
}

func TestDeleteCard(t *testing.T) {
	api := setupTestAPI(t)
	card := api.addCard(t, model.ListTodo)

	rec := api.request(t, http.MethodDelete, "/api/v1/cards/"+card.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if api.board.Snapshot().HasCard(card.ID) {
		t.Error("card should be deleted")
	}

	rec = api.request(t, http.MethodDelete, "/api/v1/cards/"+card.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("second delete Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if m := decodeMutation(t, rec); m.Changed {
		t.Error("second delete should report changed=false")
	}
}

func TestMoveCard(t *testing.T) {
	api := setupTestAPI(t)
	first := api.addCard(t, model.ListTodo)
	api.addCard(t, model.ListTodo)

	body := `{"sourceList":"todo","sourceIndex":0,"destList":"done","destIndex":0}`
	rec := api.request(t, http.MethodPost, "/api/v1/moves", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	m := decodeMutation(t, rec)
	if !m.Changed || m.Card == nil || m.Card.ID != first.ID {
		t.Fatalf("unexpected mutation: %+v", m)
	}
	board := api.board.Snapshot()
	if len(board.Lists[0].Cards) != 1 || len(board.Lists[2].Cards) != 1 {
		t.Errorf("unexpected board after move: %+v", board)
	}
	if board.Lists[2].Cards[0].ID != first.ID {
		t.Errorf("done[0] = %q, want %q", board.Lists[2].Cards[0].ID, first.ID)
	}
}

func TestMoveCard_NoOpAndValidation(t *testing.T) {
	api := setupTestAPI(t)
	api.addCard(t, model.ListTodo)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantChanged bool
	}{
		{"source index out of range", `{"sourceList":"todo","sourceIndex":5,"destList":"done","destIndex":0}`, http.StatusOK, false},
		{"unknown list", `{"sourceList":"todo","sourceIndex":0,"destList":"nope","destIndex":0}`, http.StatusOK, false},
		{"same position", `{"sourceList":"todo","sourceIndex":0,"destList":"todo","destIndex":0}`, http.StatusOK, false},
		{"missing list", `{"sourceIndex":0,"destList":"done","destIndex":0}`, http.StatusBadRequest, false},
		{"missing index", `{"sourceList":"todo","destList":"done","destIndex":0}`, http.StatusBadRequest, false},
		{"bad json", `nope`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.request(t, http.MethodPost, "/api/v1/moves", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Code == http.StatusOK {
				if m := decodeMutation(t, rec); m.Changed != tt.wantChanged {
					t.Errorf("Changed = %v, want %v", m.Changed, tt.wantChanged)
				}
			}
		})
	}

	if len(api.board.Snapshot().Lists[0].Cards) != 1 {
		t.Error("board should be unchanged")
	}
}

// failingStore rejects every write.
type failingStore struct {
	*store.MemoryStore
}

func (f *failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestMutation_PersistFailureReturns500(t *testing.T) {
	api := setupTestAPIWithStore(t, &failingStore{store.NewMemoryStore()})

	rec := api.request(t, http.MethodPost, "/api/v1/lists/todo/cards", "")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if api.board.Snapshot().CardCount() != 1 {
		t.Error("in-memory board should still advance")
	}
}

func TestTheme(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, http.MethodGet, "/api/v1/theme", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"dark":false`) {
		t.Fatalf("GET theme = %d %s", rec.Code, rec.Body.String())
	}

	rec = api.request(t, http.MethodPut, "/api/v1/theme", `{"dark":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT theme Status = %d", rec.Code)
	}
	if !api.theme.Dark() {
		t.Error("theme should be dark")
	}
	stored, err := api.kv.Get(context.Background(), service.ThemeKey)
	if err != nil || string(bytes.TrimSpace(stored)) != "true" {
		t.Errorf("stored theme = %q, %v", stored, err)
	}

	rec = api.request(t, http.MethodPost, "/api/v1/theme/toggle", "")
	if rec.Code != http.StatusOK || api.theme.Dark() {
		t.Errorf("toggle: Status = %d, dark = %v", rec.Code, api.theme.Dark())
	}
}

func TestSetTheme_Validation(t *testing.T) {
	api := setupTestAPI(t)

	for _, body := range []string{`{}`, `{"dark":"yes"}`, `[`} {
		rec := api.request(t, http.MethodPut, "/api/v1/theme", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: Status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestFavicon(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, http.MethodGet, "/favicon.svg", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), faviconLight) {
		t.Errorf("light favicon expected, got %s", rec.Body.String())
	}
}

func TestStaticHandler_ServesIndex(t *testing.T) {
	api := setupTestAPI(t)

	for _, path := range []string{"/", "/some/route"} {
		rec := api.request(t, http.MethodGet, path, "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<title>kanpad</title>") {
			t.Errorf("%s: Status = %d", path, rec.Code)
		}
	}
}

func TestServer_BroadcastsMutations(t *testing.T) {
	api := setupTestAPI(t)
	srv := NewServer(api.handler, 0, "", log.New(io.Discard))

	client := newTestClient(srv.wsHub, 10)
	srv.wsHub.addClient(client)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/lists/done/cards", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Status = %d", rec.Code)
	}

	if msg := receive(t, client); msg.Type != MessageBoard {
		t.Errorf("Type = %q, want %q", msg.Type, MessageBoard)
	}

	api.theme.Set(context.Background(), true)
	if msg := receive(t, client); msg.Type != MessageTheme {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTheme)
	}
}

func TestCors_Preflight(t *testing.T) {
	api := setupTestAPI(t)
	srv := NewServer(api.handler, 0, "", log.New(io.Discard))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/board", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
