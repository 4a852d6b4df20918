package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"lifelog/internal/app"
	"lifelog/internal/domain"
	"lifelog/internal/engine"
)

const testAPIKey = "test-secret"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	URL    string
	Engine engine.Engine
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	workspace := t.TempDir()
	e, closeDB, err := app.Open(context.Background(), workspace)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	e.Now = func() time.Time { return fixedNow }
	handler, err := New(Config{
		Engine: e,
		Auth:   AuthConfig{APIKey: testAPIKey, Logger: zerolog.Nop()},
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		Engine: e,
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			closeDB()
		},
	}
	return testSrv, func() { testSrv.Close() }
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", testAPIKey)
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func createType(t *testing.T, srv *testServer, body map[string]any) int64 {
	t.Helper()
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/activity-types", body)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create type status %d: %s", res.StatusCode, string(data))
	}
	var created CreatedResponse
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}
	return created.NewID
}

func TestMenuEndToEnd(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	catRes, catData := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/categories", map[string]any{"name": "Work"})
	if catRes.StatusCode != http.StatusCreated {
		t.Fatalf("create category status %d: %s", catRes.StatusCode, string(catData))
	}
	var cat CreatedResponse
	if err := json.Unmarshal(catData, &cat); err != nil {
		t.Fatalf("unmarshal created category: %v", err)
	}

	workID := createType(t, srv, map[string]any{
		"name":        "Work",
		"toggle":      true,
		"start_label": "Start work",
		"end_label":   "End work",
		"category_id": cat.NewID,
	})
	createType(t, srv, map[string]any{"name": "Read"})

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/menu-items", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("menu status %d: %s", res.StatusCode, string(data))
	}
	var menu struct {
		Started       []string `json:"started"`
		Work          []string `json:"Work"`
		Uncategorized []string `json:"uncategorized"`
		IDs           []struct {
			ID     int64  `json:"id"`
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"ids"`
	}
	if err := json.Unmarshal(data, &menu); err != nil {
		t.Fatalf("unmarshal menu: %v", err)
	}
	if len(menu.Started) != 0 {
		t.Fatalf("expected empty started, got %v", menu.Started)
	}
	if len(menu.Work) != 1 || menu.Work[0] != "Start work (N/A)" {
		t.Fatalf("expected Work [Start work (N/A)], got %v", menu.Work)
	}
	if len(menu.Uncategorized) != 1 || menu.Uncategorized[0] != "Read (N/A)" {
		t.Fatalf("expected uncategorized [Read (N/A)], got %v", menu.Uncategorized)
	}
	if len(menu.IDs) != 2 {
		t.Fatalf("expected 2 id entries, got %d", len(menu.IDs))
	}

	logRes, logData := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/activities", map[string]any{
		"type_id":   workID,
		"status":    domain.StatusStarted,
		"timestamp": fixedNow.Add(-10 * time.Minute).Format(time.RFC3339),
	})
	if logRes.StatusCode != http.StatusCreated {
		t.Fatalf("log activity status %d: %s", logRes.StatusCode, string(logData))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/menu-items", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("menu status %d: %s", res.StatusCode, string(data))
	}
	menu.Started, menu.Work, menu.Uncategorized = nil, nil, nil
	if err := json.Unmarshal(data, &menu); err != nil {
		t.Fatalf("unmarshal menu: %v", err)
	}
	if len(menu.Started) != 1 || menu.Started[0] != "End work (10 minutes ago)" {
		t.Fatalf("expected started [End work (10 minutes ago)], got %v", menu.Started)
	}
	if menu.Work == nil || len(menu.Work) != 0 {
		t.Fatalf("expected empty Work bucket, got %v", menu.Work)
	}
	if len(menu.Uncategorized) != 1 || menu.Uncategorized[0] != "Read (N/A)" {
		t.Fatalf("expected uncategorized [Read (N/A)], got %v", menu.Uncategorized)
	}
}

func TestMenuAnnotationSubstitution(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	gamingID := createType(t, srv, map[string]any{
		"name":        "gaming",
		"toggle":      true,
		"start_label": "Start gaming",
		"end_label":   "End gaming",
	})
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/activities", map[string]any{
		"type_id":     gamingID,
		"status":      domain.StatusStarted,
		"description": "Game: Hades",
		"timestamp":   fixedNow.Add(-90 * time.Second).Format(time.RFC3339),
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("log activity status %d: %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/menu-items", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("menu status %d: %s", res.StatusCode, string(data))
	}
	var menu struct {
		Started []string `json:"started"`
	}
	if err := json.Unmarshal(data, &menu); err != nil {
		t.Fatalf("unmarshal menu: %v", err)
	}
	if len(menu.Started) != 1 || menu.Started[0] != "End Hades (1 minute ago)" {
		t.Fatalf("expected started [End Hades (1 minute ago)], got %v", menu.Started)
	}
}

func TestMenuStructuredAndShortcuts(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	createType(t, srv, map[string]any{"name": "Read", "emoji": "📖"})

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/menu-items/v2", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("v2 status %d: %s", res.StatusCode, string(data))
	}
	var v2 struct {
		Uncategorized []struct {
			TypeID  int64  `json:"type_id"`
			Name    string `json:"name"`
			Elapsed string `json:"time_elapsed"`
			Status  string `json:"status"`
			Emoji   string `json:"emoji"`
		} `json:"uncategorized"`
	}
	if err := json.Unmarshal(data, &v2); err != nil {
		t.Fatalf("unmarshal v2: %v", err)
	}
	if len(v2.Uncategorized) != 1 {
		t.Fatalf("expected 1 uncategorized record, got %d", len(v2.Uncategorized))
	}
	rec := v2.Uncategorized[0]
	if rec.Name != "Read" || rec.Elapsed != "N/A" || rec.Status != domain.StatusNone || rec.Emoji != "📖" {
		t.Fatalf("unexpected record %+v", rec)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/menu-items/shortcuts", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("shortcuts status %d: %s", res.StatusCode, string(data))
	}
	var shortcuts struct {
		Labels string         `json:"labels"`
		Data   map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &shortcuts); err != nil {
		t.Fatalf("unmarshal shortcuts: %v", err)
	}
	if !strings.Contains(shortcuts.Labels, "title: Read\nsub: N/A\nicon: 📖\n") {
		t.Fatalf("unexpected labels %q", shortcuts.Labels)
	}
	leaf, ok := shortcuts.Data["Read"].(map[string]any)
	if !ok {
		t.Fatalf("missing Read leaf in %v", shortcuts.Data)
	}
	if leaf["isCategory"] != false {
		t.Fatalf("expected leaf isCategory false, got %v", leaf["isCategory"])
	}
}

func TestMenuForbiddenWithoutKey(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, err := srv.Client().Get(srv.URL + "/menu-items")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.StatusCode)
	}
	data, _ := io.ReadAll(res.Body)
	var body map[string]string
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["message"] != "Forbidden" {
		t.Fatalf("expected Forbidden message, got %q", body["message"])
	}
}

func TestDocsOpenWithoutKey(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	for _, path := range []string{"/health", "/docs", "/openapi.json"} {
		res, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s without key: expected 200, got %d", path, res.StatusCode)
		}
	}
}

func TestBearerTokenAccepted(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	claims := jwt.RegisteredClaims{
		Subject:   "cli",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAPIKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/menu-items", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d", res.StatusCode)
	}
}

func TestActivityCRUD(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	typeID := createType(t, srv, map[string]any{"name": "Meditate"})

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/activities", map[string]any{
		"type_id": typeID,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("log status %d: %s", res.StatusCode, string(data))
	}
	var created CreatedResponse
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+fmt.Sprintf("/activities/%d", created.NewID), nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get status %d: %s", res.StatusCode, string(data))
	}
	var got domain.Activity
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal activity: %v", err)
	}
	if got.TypeID != typeID || got.Status != domain.StatusNone {
		t.Fatalf("unexpected activity %+v", got)
	}
	if got.Timestamp != fixedNow.Unix() {
		t.Fatalf("expected timestamp %d, got %d", fixedNow.Unix(), got.Timestamp)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPut, srv.URL+fmt.Sprintf("/activities/%d", created.NewID), map[string]any{
		"description": "morning session",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status %d: %s", res.StatusCode, string(data))
	}
	var changed ChangesResponse
	if err := json.Unmarshal(data, &changed); err != nil {
		t.Fatalf("unmarshal changes: %v", err)
	}
	if changed.Changes != 1 {
		t.Fatalf("expected 1 change, got %d", changed.Changes)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/activities?limit=10&page=1", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list status %d: %s", res.StatusCode, string(data))
	}
	var history []ActivityHistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(history) != 1 || history[0].Description != "morning session" {
		t.Fatalf("unexpected history %+v", history)
	}

	res, data = doJSON(t, srv.Client(), http.MethodDelete, srv.URL+fmt.Sprintf("/activities/%d", created.NewID), nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d: %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+fmt.Sprintf("/activities/%d", created.NewID), nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d: %s", res.StatusCode, string(data))
	}
}

func TestLogActivityUnknownType(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/activities", map[string]any{
		"type_id": 9999,
	})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", res.StatusCode, string(data))
	}
}

func TestGameConflict(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/games", map[string]any{"name": "Hades"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d: %s", res.StatusCode, string(data))
	}
	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/games", map[string]any{"name": "Hades"})
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", res.StatusCode, string(data))
	}
	if !strings.Contains(string(data), `Game \"Hades\" already exists`) {
		t.Fatalf("unexpected conflict body %s", string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/games/by-name/Hades", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("lookup status %d: %s", res.StatusCode, string(data))
	}
	var game domain.Game
	if err := json.Unmarshal(data, &game); err != nil {
		t.Fatalf("unmarshal game: %v", err)
	}
	if game.Name != "Hades" {
		t.Fatalf("unexpected game %+v", game)
	}
}

func TestEventsJournal(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	typeID := createType(t, srv, map[string]any{"name": "Run"})
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/activities", map[string]any{"type_id": typeID})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("log status %d: %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/events?type=activity.logged", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("events status %d: %s", res.StatusCode, string(data))
	}
	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		t.Fatalf("unmarshal events: %v", err)
	}
	if len(events) != 1 || events[0].Type != "activity.logged" {
		t.Fatalf("unexpected events %+v", events)
	}
}
