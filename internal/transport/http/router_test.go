package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-poker/internal/config"
	"pixel-poker/internal/game"
	"pixel-poker/internal/gateway"
	"pixel-poker/internal/mcpserver"
	"pixel-poker/internal/policy"
	"pixel-poker/internal/session"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	decider, err := policy.NewService(nil, policy.Config{})
	require.NoError(t, err)
	engine := game.NewEngine(game.NewScorerChain(game.PureScorer{}), quartz.NewMock(t))
	mgr := session.NewManager(session.Config{SmallBlind: 1, BigBlind: 2, StartingStack: 200, LiveFeedLimit: 80, MaxPolicyCallsPerRequest: 1}, engine, decider, nil)
	gw, err := gateway.NewServer(mgr, gateway.Options{})
	require.NoError(t, err)
	return NewRouter(Deps{
		Sessions: mgr,
		Gateway:  gw,
		MCP:      mcpserver.New(mgr, "test"),
		Server:   config.ServerConfig{CORSAllowOrigins: []string{"*"}},
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(rec.Body.Bytes()), &out), rec.Body.String())
	}
	return rec.Code, out
}

func TestSessionRoutesFlow(t *testing.T) {
	h := newTestRouter(t)

	code, body := do(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, created := do(t, h, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, code)
	id, _ := created["sessionId"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "hand-001", created["handId"])
	base := "/api/sessions/" + id

	code, got := do(t, h, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, got["sessionId"])

	code, body = do(t, h, http.MethodPost, base+"/next-hand", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "hand_not_complete", body["error"])

	code, body = do(t, h, http.MethodPost, base+"/rebuy", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "session_not_complete", body["error"])

	code, res := do(t, h, http.MethodPost, base+"/actions", `{"actionType":"fold"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, res["handComplete"])

	code, body = do(t, h, http.MethodPost, base+"/actions", `{"actionType":"check"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "hand_complete", body["error"])

	code, next := do(t, h, http.MethodPost, base+"/next-hand", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hand-002", next["handId"])

	code, hands := do(t, h, http.MethodGet, base+"/hands", "")
	require.Equal(t, http.StatusOK, code)
	items, _ := hands["items"].([]any)
	require.Len(t, items, 2)
	first, _ := items[0].(map[string]any)
	assert.Equal(t, "hand-002", first["handId"])

	code, replay := do(t, h, http.MethodGet, base+"/hands/hand-001/replay", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id+":1", replay["seed"])
	events, _ := replay["events"].([]any)
	assert.NotEmpty(t, events)

	code, body = do(t, h, http.MethodGet, base+"/hands/hand-404/replay", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "hand_not_found", body["error"])
}

func TestSessionRoutesErrors(t *testing.T) {
	h := newTestRouter(t)

	code, body := do(t, h, http.MethodGet, "/api/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "session_not_found", body["error"])

	_, created := do(t, h, http.MethodPost, "/api/sessions", "")
	base := "/api/sessions/" + created["sessionId"].(string)

	code, body = do(t, h, http.MethodPost, base+"/actions", `{"actionType":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_json", body["error"])

	code, body = do(t, h, http.MethodPost, base+"/actions", `{"actionType":"bet","amount":10}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "illegal_action", body["error"])
	assert.Equal(t, game.ConstraintNotLegal, body["constraint"])
	legal, _ := body["legalActions"].([]any)
	assert.NotEmpty(t, legal)

	code, before := do(t, h, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created["pot"], before["pot"], "rejected action leaves the hand untouched")
}

func TestCORSAndDebugVars(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	do(t, h, http.MethodPost, "/api/sessions", "")
	code, vars := do(t, h, http.MethodGet, "/api/debug/vars", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, vars, "session_create_total")
	assert.Contains(t, vars, "gateway_requests_total")
}

func TestCORSRestrictedOrigins(t *testing.T) {
	h := CORSMiddleware([]string{"https://poker.example"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://poker.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://poker.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
