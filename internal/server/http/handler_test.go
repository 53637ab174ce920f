// FILE: internal/server/http/handler_test.go
package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"notation/action"
	"notation/internal/server/core"
	"notation/internal/server/processor"
	"notation/internal/server/service"
	"notation/internal/server/storage"

	serverhttp "notation/internal/server/http"
)

const testSecret = "test-secret-minimum-32-characters-xx"

// Each test builds its own app so rate limiter buckets never leak between
// tests.
func newTestApp(t *testing.T) (*fiber.App, *service.Service) {
	t.Helper()
	svc := service.New(nil, []byte(testSecret))
	proc := processor.New(svc)
	app := serverhttp.NewFiberApp(proc, svc, true)
	t.Cleanup(func() {
		proc.Close()
		svc.Shutdown(time.Second)
	})
	return app, svc
}

func newTestAppWithStore(t *testing.T) *fiber.App {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "notation.db"), true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		store.Close()
		t.Fatalf("InitDB: %v", err)
	}
	svc := service.New(store, []byte(testSecret))
	proc := processor.New(svc)
	app := serverhttp.NewFiberApp(proc, svc, true)
	t.Cleanup(func() {
		proc.Close()
		svc.Shutdown(time.Second)
	})
	return app
}

func request(t *testing.T, app *fiber.App, method, target, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantStatus(t *testing.T, resp *http.Response, status int) {
	t.Helper()
	if resp.StatusCode != status {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, status, body)
	}
}

func wantErrorCode(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d", resp.StatusCode, status)
	}
	var e core.ErrorResponse
	decodeJSON(t, resp, &e)
	if e.Code != code {
		t.Errorf("error code = %q, want %q (error: %s)", e.Code, code, e.Error)
	}
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp := request(t, app, "GET", "/health", "", nil)
	wantStatus(t, resp, fiber.StatusOK)

	var body map[string]any
	decodeJSON(t, resp, &body)
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
	if body["storage"] != "disabled" {
		t.Errorf("storage = %v, want disabled without a store", body["storage"])
	}
}

func TestParseEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := request(t, app, "POST", "/api/v1/parse", "", core.ParseRequest{Text: "e2-e4;P*d5"})
	wantStatus(t, resp, fiber.StatusOK)

	var parsed core.ParseResponse
	decodeJSON(t, resp, &parsed)
	if parsed.Text != "e2-e4;P*d5" {
		t.Errorf("text = %q", parsed.Text)
	}
	if len(parsed.Actions) != 2 || parsed.Actions[0].Kind != "move" || parsed.Actions[1].Kind != "drop" {
		t.Errorf("actions = %+v", parsed.Actions)
	}

	resp = request(t, app, "POST", "/api/v1/parse", "", core.ParseRequest{Text: "e2e4"})
	wantErrorCode(t, resp, fiber.StatusBadRequest, core.ErrInvalidAction)

	// Missing text fails request validation before the parser runs.
	resp = request(t, app, "POST", "/api/v1/parse", "", map[string]any{})
	wantErrorCode(t, resp, fiber.StatusBadRequest, core.ErrInvalidRequest)
}

func TestContentTypeEnforced(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/parse", strings.NewReader("text=e2-e4"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	wantErrorCode(t, resp, fiber.StatusUnsupportedMediaType, core.ErrInvalidContent)
}

func TestRenderEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	body := core.RenderRequest{Actions: []core.ActionPayload{
		{Kind: "move", Source: "e2", Destination: "e4"},
		{Kind: "pass"},
	}}
	resp := request(t, app, "POST", "/api/v1/render", "", body)
	wantStatus(t, resp, fiber.StatusOK)

	var rendered core.RenderResponse
	decodeJSON(t, resp, &rendered)
	if rendered.Text != "e2-e4;..." {
		t.Errorf("text = %q", rendered.Text)
	}

	bad := core.RenderRequest{Actions: []core.ActionPayload{{Kind: "teleport"}}}
	resp = request(t, app, "POST", "/api/v1/render", "", bad)
	wantErrorCode(t, resp, fiber.StatusBadRequest, core.ErrInvalidAction)
}

func TestBatchEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := request(t, app, "POST", "/api/v1/parse/batch", "", core.BatchParseRequest{Texts: []string{"e2-e4", "zzz"}})
	wantStatus(t, resp, fiber.StatusOK)

	var batch core.BatchParseResponse
	decodeJSON(t, resp, &batch)
	if len(batch.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(batch.Results))
	}
	if !batch.Results[0].Valid || batch.Results[1].Valid {
		t.Errorf("results = %+v", batch.Results)
	}
	if batch.Results[1].Error == nil || batch.Results[1].Error.Code != core.ErrInvalidAction {
		t.Errorf("invalid result error = %+v", batch.Results[1].Error)
	}
}

func TestRecordFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp := request(t, app, "POST", "/api/v1/records", "", core.CreateRecordRequest{Title: "Flow", Game: "chess"})
	wantStatus(t, resp, fiber.StatusCreated)
	var created core.RecordResponse
	decodeJSON(t, resp, &created)
	if created.RecordID == "" || created.Status != "open" {
		t.Fatalf("created = %+v", created)
	}
	base := "/api/v1/records/" + created.RecordID

	resp = request(t, app, "GET", base, "", nil)
	wantStatus(t, resp, fiber.StatusOK)

	resp = request(t, app, "POST", base+"/turns", "", core.AppendTurnRequest{Text: "e2-e4"})
	wantStatus(t, resp, fiber.StatusOK)
	var state core.RecordResponse
	decodeJSON(t, resp, &state)
	if len(state.Turns) != 1 || state.LastTurn == nil || state.LastTurn.Text != "e2-e4" {
		t.Fatalf("after append: %+v", state)
	}

	resp = request(t, app, "POST", base+"/undo", "", core.UndoRequest{Count: 1})
	wantStatus(t, resp, fiber.StatusOK)
	decodeJSON(t, resp, &state)
	if len(state.Turns) != 0 {
		t.Fatalf("after undo: %+v", state)
	}

	resp = request(t, app, "POST", base+"/finalize", "", core.FinalizeRequest{Result: "1-0"})
	wantStatus(t, resp, fiber.StatusOK)
	decodeJSON(t, resp, &state)
	if state.Status != "final" || state.Result != "1-0" {
		t.Fatalf("after finalize: %+v", state)
	}

	resp = request(t, app, "POST", base+"/turns", "", core.AppendTurnRequest{Text: "d2-d4"})
	wantErrorCode(t, resp, fiber.StatusConflict, core.ErrRecordFinal)

	resp = request(t, app, "DELETE", base, "", nil)
	wantStatus(t, resp, fiber.StatusNoContent)

	resp = request(t, app, "GET", base, "", nil)
	wantErrorCode(t, resp, fiber.StatusNotFound, core.ErrRecordNotFound)
}

func TestRecordIDFormat(t *testing.T) {
	app, _ := newTestApp(t)

	resp := request(t, app, "GET", "/api/v1/records/not-a-uuid", "", nil)
	wantErrorCode(t, resp, fiber.StatusBadRequest, core.ErrInvalidRequest)
}

func TestListFilterQuery(t *testing.T) {
	app, _ := newTestApp(t)

	request(t, app, "POST", "/api/v1/records", "", core.CreateRecordRequest{Game: "chess"})
	request(t, app, "POST", "/api/v1/records", "", core.CreateRecordRequest{Game: "shogi"})

	var list core.RecordListResponse

	resp := request(t, app, "GET", "/api/v1/records", "", nil)
	wantStatus(t, resp, fiber.StatusOK)
	decodeJSON(t, resp, &list)
	if len(list.Records) != 2 {
		t.Errorf("unfiltered list has %d records", len(list.Records))
	}

	resp = request(t, app, "GET", "/api/v1/records?game=chess", "", nil)
	wantStatus(t, resp, fiber.StatusOK)
	decodeJSON(t, resp, &list)
	if len(list.Records) != 1 || list.Records[0].Game != "chess" {
		t.Errorf("game filter = %+v", list.Records)
	}

	resp = request(t, app, "GET", "/api/v1/records?owner=nobody", "", nil)
	wantStatus(t, resp, fiber.StatusOK)
	decodeJSON(t, resp, &list)
	if len(list.Records) != 0 {
		t.Errorf("owner filter matched %d records", len(list.Records))
	}
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t)

	resp := request(t, app, "GET", "/api/v1/nothing-here", "", nil)
	wantErrorCode(t, resp, fiber.StatusNotFound, core.ErrRecordNotFound)
}

func TestLongPoll(t *testing.T) {
	app, svc := newTestApp(t)

	resp := request(t, app, "POST", "/api/v1/records", "", core.CreateRecordRequest{})
	wantStatus(t, resp, fiber.StatusCreated)
	var created core.RecordResponse
	decodeJSON(t, resp, &created)

	go func() {
		time.Sleep(200 * time.Millisecond)
		seq, err := action.ParseSequence("e2-e4")
		if err != nil {
			return
		}
		svc.AppendTurn(created.RecordID, seq)
	}()

	resp = request(t, app, "GET", "/api/v1/records/"+created.RecordID+"?wait=true&turnCount=0", "", nil)
	wantStatus(t, resp, fiber.StatusOK)
	var state core.RecordResponse
	decodeJSON(t, resp, &state)
	if len(state.Turns) != 1 {
		t.Errorf("long poll returned %d turns, want 1", len(state.Turns))
	}
}

func TestLongPollStaleCount(t *testing.T) {
	app, _ := newTestApp(t)

	resp := request(t, app, "POST", "/api/v1/records", "", core.CreateRecordRequest{})
	wantStatus(t, resp, fiber.StatusCreated)
	var created core.RecordResponse
	decodeJSON(t, resp, &created)

	// A stale known count returns immediately instead of waiting.
	start := time.Now()
	resp = request(t, app, "GET", "/api/v1/records/"+created.RecordID+"?wait=true&turnCount=5", "", nil)
	wantStatus(t, resp, fiber.StatusOK)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("stale long poll took %v", elapsed)
	}
}

func TestAuthFlow(t *testing.T) {
	app := newTestAppWithStore(t)

	reg := map[string]string{"username": "alice", "email": "alice@example.com", "password": "password1"}
	resp := request(t, app, "POST", "/api/v1/auth/register", "", reg)
	wantStatus(t, resp, fiber.StatusCreated)
	var authResp serverhttp.AuthResponse
	decodeJSON(t, resp, &authResp)
	if authResp.Token == "" || authResp.UserID == "" || authResp.Username != "alice" {
		t.Fatalf("register response = %+v", authResp)
	}

	resp = request(t, app, "POST", "/api/v1/auth/register", "", reg)
	wantStatus(t, resp, fiber.StatusConflict)
	resp.Body.Close()

	login := map[string]string{"identifier": "ALICE", "password": "password1"}
	resp = request(t, app, "POST", "/api/v1/auth/login", "", login)
	wantStatus(t, resp, fiber.StatusOK)
	decodeJSON(t, resp, &authResp)
	if authResp.Token == "" {
		t.Fatal("login returned no token")
	}
	token := authResp.Token

	badLogin := map[string]string{"identifier": "alice", "password": "wrongpass1"}
	resp = request(t, app, "POST", "/api/v1/auth/login", "", badLogin)
	wantErrorCode(t, resp, fiber.StatusUnauthorized, core.ErrUnauthorized)

	resp = request(t, app, "GET", "/api/v1/auth/me", token, nil)
	wantStatus(t, resp, fiber.StatusOK)
	var me serverhttp.UserResponse
	decodeJSON(t, resp, &me)
	if me.Username != "alice" || me.UserID != authResp.UserID {
		t.Errorf("me = %+v", me)
	}

	resp = request(t, app, "GET", "/api/v1/auth/me", "", nil)
	wantErrorCode(t, resp, fiber.StatusUnauthorized, core.ErrUnauthorized)
}

func TestOwnedRecordAuthorization(t *testing.T) {
	app := newTestAppWithStore(t)

	reg := map[string]string{"username": "bob", "password": "password1"}
	resp := request(t, app, "POST", "/api/v1/auth/register", "", reg)
	wantStatus(t, resp, fiber.StatusCreated)
	var authResp serverhttp.AuthResponse
	decodeJSON(t, resp, &authResp)
	token := authResp.Token

	resp = request(t, app, "POST", "/api/v1/records", token, core.CreateRecordRequest{Title: "Owned"})
	wantStatus(t, resp, fiber.StatusCreated)
	var created core.RecordResponse
	decodeJSON(t, resp, &created)
	base := "/api/v1/records/" + created.RecordID

	// Anonymous writes to an owned record are forbidden; reads are not.
	resp = request(t, app, "POST", base+"/turns", "", core.AppendTurnRequest{Text: "e2-e4"})
	wantErrorCode(t, resp, fiber.StatusForbidden, core.ErrUnauthorized)

	resp = request(t, app, "GET", base, "", nil)
	wantStatus(t, resp, fiber.StatusOK)

	resp = request(t, app, "POST", base+"/turns", token, core.AppendTurnRequest{Text: "e2-e4"})
	wantStatus(t, resp, fiber.StatusOK)

	resp = request(t, app, "DELETE", base, "", nil)
	wantErrorCode(t, resp, fiber.StatusForbidden, core.ErrUnauthorized)
}
