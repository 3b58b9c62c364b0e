package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/riskibarqy/gameday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/gameday/internal/platform/id"
	"github.com/riskibarqy/gameday/internal/platform/logging"
	"github.com/riskibarqy/gameday/internal/usecase"
)

const hawksVsNets = `{"title":"Hawks vs Nets","league":"NBA","date":"2025-01-10","time":"19:30","venue":"State Farm Arena","city":"Atlanta, GA","price":75,"img":"/images/a.jpg","summary":"Conference matchup night."}`

type testPinger struct{ err error }

func (p testPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, repo game.Repository, pinger game.Pinger) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	svc := usecase.NewGameService(repo, game.NewValidator(game.ImageFieldsImg), id.NewSequentialAssigner(), logger)
	handler := NewHandler(svc, logger, HandlerOptions{Pinger: pinger, ServiceName: "gameday", Version: "test"})
	return NewRouter(handler, logger, RouterOptions{ServiceName: "gameday", CORSAllowedOrigins: []string{"*"}})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestRouter_CreateThenGetReturnsIdenticalFields(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), nil)

	rec, body := doRequest(t, router, http.MethodPost, "/games", hawksVsNets)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	created, _ := body["game"].(map[string]any)
	gameID, _ := created["id"].(string)
	if gameID == "" {
		t.Fatalf("expected assigned id, got %v", created)
	}
	if created["_id"] != gameID {
		t.Fatalf("expected _id to mirror id, got %v", created["_id"])
	}

	rec, got := doRequest(t, router, http.MethodGet, "/games/"+gameID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, field := range []string{"id", "title", "league", "date", "time", "venue", "city", "price", "img", "summary", "createdAt", "updatedAt"} {
		if got[field] != created[field] {
			t.Fatalf("field %s differs: created=%v got=%v", field, created[field], got[field])
		}
	}
	if _, ok := got["imageUrl"]; ok {
		t.Fatalf("expected imageUrl to be omitted in img mode")
	}
}

func TestRouter_FullLifecycleEndsInNotFound(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), nil)

	_, body := doRequest(t, router, http.MethodPost, "/api/games", hawksVsNets)
	created := body["game"].(map[string]any)
	gameID := created["id"].(string)

	updatedBody := strings.Replace(hawksVsNets, `"price":75`, `"price":"80"`, 1)
	rec, body := doRequest(t, router, http.MethodPut, "/api/games/"+gameID, updatedBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := body["game"].(map[string]any)
	if updated["id"] != gameID {
		t.Fatalf("expected id preserved, got %v", updated["id"])
	}
	if price, _ := updated["price"].(float64); price != 80 {
		t.Fatalf("expected coerced price 80, got %v", updated["price"])
	}

	rec, got := doRequest(t, router, http.MethodGet, "/games/"+gameID, "")
	if rec.Code != http.StatusOK || got["price"] != updated["price"] {
		t.Fatalf("expected updated record, got %d %v", rec.Code, got)
	}

	rec, body = doRequest(t, router, http.MethodDelete, "/games/"+gameID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}
	if removed := body["game"].(map[string]any); removed["id"] != gameID {
		t.Fatalf("expected removed game in body, got %v", body)
	}

	rec, body = doRequest(t, router, http.MethodGet, "/games/"+gameID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	if body["ok"] != false || body["error"] != "Game not found" {
		t.Fatalf("unexpected not found body: %v", body)
	}
}

func TestRouter_DuplicateTitleAndDateConflicts(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), nil)

	first := `{"title":"Lakers vs Celtics","league":"NBA","date":"2025-12-14","time":"20:00","venue":"Crypto.com Arena","city":"Los Angeles, CA","price":210,"img":"/images/lakers-vs-celtics.png","summary":"Classic NBA rivalry."}`
	second := `{"title":"LAKERS vs celtics","league":"NBA","date":"2025-12-14","time":"17:00","venue":"TD Garden","city":"Boston, MA","price":150,"img":"/images/lakers-vs-celtics.png","summary":"Classic NBA rivalry."}`

	if rec, _ := doRequest(t, router, http.MethodPost, "/games", first); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	rec, body := doRequest(t, router, http.MethodPost, "/games", second)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["ok"] != false || body["error"] == "" {
		t.Fatalf("unexpected conflict body: %v", body)
	}
}

func TestRouter_NegativePriceIsValidationFailure(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), nil)

	rec, body := doRequest(t, router, http.MethodPost, "/games", strings.Replace(hawksVsNets, `"price":75`, `"price":-5`, 1))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["message"] != "Validation failed" || body["ok"] != false {
		t.Fatalf("unexpected validation body: %v", body)
	}
	details, _ := body["details"].([]any)
	if len(details) != 1 || !strings.Contains(details[0].(string), `"price"`) {
		t.Fatalf("expected a single price violation, got %v", details)
	}

	rec, _ = doRequest(t, router, http.MethodGet, "/games", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected no game stored, got %s", rec.Body.String())
	}
}

func TestRouter_UnknownIDsAreNotFound(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), nil)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		if rec, _ := doRequest(t, router, method, "/games/never-issued", ""); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", method, rec.Code)
		}
	}
	if rec, _ := doRequest(t, router, http.MethodPut, "/games/404", hawksVsNets); rec.Code != http.StatusNotFound {
		t.Fatalf("PUT: expected 404, got %d", rec.Code)
	}
}

func TestRouter_MalformedBody(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), nil)

	for _, body := range []string{`{"title":`, `[1,2,3]`, ``} {
		rec, decoded := doRequest(t, router, http.MethodPost, "/games", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
		if decoded["ok"] != false || decoded["error"] != "Invalid JSON payload" {
			t.Fatalf("body %q: unexpected response %v", body, decoded)
		}
	}
}

func TestRouter_OversizedBodyIs413(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), nil)

	body := `{"summary":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec, decoded := doRequest(t, router, http.MethodPost, "/api/games", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if decoded["error"] != "Request body too large" {
		t.Fatalf("unexpected response %v", decoded)
	}
}

func TestRouter_ListPreservesOrderAndShape(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), nil)

	for _, p := range memory.SeedPayloads() {
		encoded, err := sonic.Marshal(p.Fields())
		if err != nil {
			t.Fatalf("marshal seed payload: %v", err)
		}
		if rec, _ := doRequest(t, router, http.MethodPost, "/games", string(encoded)); rec.Code != http.StatusCreated {
			t.Fatalf("seed create: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec, _ := doRequest(t, router, http.MethodGet, "/api/games", "")
	var items []map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 games, got %d", len(items))
	}
	if items[0]["title"] != "USC vs Clemson" || items[2]["title"] != "Saints vs Falcons" {
		t.Fatalf("unexpected order: %v, %v", items[0]["title"], items[2]["title"])
	}
	if _, ok := items[0]["imageUrl"]; ok {
		t.Fatalf("expected imageUrl stripped in img mode")
	}
}

type unavailableRepository struct{ game.Repository }

func (unavailableRepository) List(context.Context) ([]game.Game, error) {
	return nil, errors.Join(game.ErrStoreUnavailable, errors.New("dial tcp: connection refused"))
}

func TestRouter_StoreUnavailableIs503(t *testing.T) {
	router := newTestRouter(t, unavailableRepository{}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/games", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body["error"] != "Database unavailable" {
		t.Fatalf("unexpected body: %v", body)
	}
	if strings.Contains(rec.Body.String(), "dial tcp") {
		t.Fatalf("store details leaked into response: %s", rec.Body.String())
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/games", hawksVsNets)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on create, got %d", rec.Code)
	}
}

func TestRouter_SystemRoutes(t *testing.T) {
	router := newTestRouter(t, memory.NewGameRepository(nil), testPinger{err: errors.New("down")})

	rec, body := doRequest(t, router, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || body["endpoints"] == nil {
		t.Fatalf("unexpected index response: %d %v", rec.Code, body)
	}

	rec, body = doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected healthz response: %d %v", rec.Code, body)
	}

	rec, body = doRequest(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || body["database"] != "disconnected" {
		t.Fatalf("unexpected health response: %d %v", rec.Code, body)
	}

	router = newTestRouter(t, memory.NewGameRepository(nil), testPinger{})
	if _, body = doRequest(t, router, http.MethodGet, "/health", ""); body["database"] != "connected" {
		t.Fatalf("expected connected database, got %v", body)
	}

	if rec, _ = doRequest(t, router, http.MethodGet, "/unknown", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rec.Code)
	}
}

type panickingRepository struct{ game.Repository }

func (panickingRepository) List(context.Context) ([]game.Game, error) {
	panic("boom")
}

func TestRouter_RecoversPanics(t *testing.T) {
	router := newTestRouter(t, panickingRepository{}, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/games", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["ok"] != false {
		t.Fatalf("unexpected body: %v", body)
	}
}
