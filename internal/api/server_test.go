package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/chaos-zero-companion/internal/catalog"
	"github.com/ramonehamilton/chaos-zero-companion/internal/deck"
	"github.com/ramonehamilton/chaos-zero-companion/internal/decklist"
	"github.com/ramonehamilton/chaos-zero-companion/internal/events"
	"github.com/ramonehamilton/chaos-zero-companion/internal/session"
	"github.com/ramonehamilton/chaos-zero-companion/internal/storage"
)

const testSeed = `
[[characters]]
id = 1
name = "Renoa"

[[cards]]
id = 10
character_id = 1
name = "Quick Draw"
modifiers = ["START_CARD"]

[[cards]]
id = 30
name = "Bandage"

[[cards]]
id = 31
name = "Abyssal Maw"
category = "MONSTER"
modifiers = ["DIVINE_GLIMMER"]
`

type testEnv struct {
	server     *Server
	http       *httptest.Server
	manager    *session.Manager
	dispatcher *events.EventDispatcher
}

func newTestEnv(t *testing.T, cfg *Config) *testEnv {
	t.Helper()
	return newTestEnvWithAdmin(t, cfg, true)
}

func newTestEnvWithAdmin(t *testing.T, cfg *Config, admin bool) *testEnv {
	t.Helper()

	dbCfg := storage.DefaultConfig(":memory:")
	dbCfg.AutoMigrate = true
	db, err := storage.Open(dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cat := catalog.NewService(storage.NewService(db))
	seed, err := catalog.ParseSeed([]byte(testSeed))
	require.NoError(t, err)
	require.NoError(t, cat.Import(context.Background(), seed))

	dispatcher := events.NewEventDispatcher()
	mgr := session.NewManager(cat, dispatcher, session.Config{Rules: deck.DefaultRules(), DefaultTier: 1})

	deps := Dependencies{
		Catalog:      cat,
		Sessions:     mgr,
		DB:           db.Conn(),
		SessionCount: mgr.Count,
	}
	if admin {
		deps.CatalogAdmin = cat
	}
	srv := NewServer(cfg, deps)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{server: srv, http: ts, manager: mgr, dispatcher: dispatcher}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.http.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Data
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/health", "/api/v1/health"} {
		resp := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "chaos-zero-companion-api", body["service"])
		assert.EqualValues(t, 0, body["sessions"])
	}
}

func TestServer_CatalogRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/api/v1/characters", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, readData[[]catalog.Character](t, resp), 1)

	resp = env.do(t, http.MethodGet, "/api/v1/cards/neutral", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, readData[[]deck.Card](t, resp), 2)

	resp = env.do(t, http.MethodGet, "/api/v1/cards/31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	maw := readData[deck.Card](t, resp)
	assert.Equal(t, deck.CategoryMonster, maw.Category)
	assert.True(t, maw.IsDivineGlimmer())
}

func TestServer_CatalogAdminRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodPost, "/api/v1/characters", catalog.CharacterInput{Name: "Selena"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	selena := readData[catalog.Character](t, resp)
	assert.Equal(t, int64(2), selena.ID)

	resp = env.do(t, http.MethodPost, "/api/v1/cards", map[string]any{
		"characterId": selena.ID,
		"name":        "Ice Lance",
		"modifiers":   []string{"GLIMMER"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lance := readData[deck.Card](t, resp)
	assert.True(t, lance.IsGlimmer())

	resp = env.do(t, http.MethodGet, "/api/v1/cards/character/2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, readData[[]deck.Card](t, resp), 1)

	resp = env.do(t, http.MethodPut, "/api/v1/cards/30", map[string]any{"name": "Bandage+", "category": "MONSTER"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, deck.CategoryMonster, readData[deck.Card](t, resp).Category)

	resp = env.do(t, http.MethodPost, "/api/v1/cards", map[string]any{"characterId": 99, "name": "Orphan"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A running session keeps the pool it started with.
	resp = env.do(t, http.MethodPost, "/api/v1/decks", map[string]any{"characterId": selena.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	snap := readData[session.Snapshot](t, resp)

	resp = env.do(t, http.MethodDelete, "/api/v1/characters/2", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/cards/"+strconv.FormatInt(lance.ID, 10), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "cards go with their character")

	resp = env.do(t, http.MethodPost, "/api/v1/decks/"+snap.ID+"/cards", map[string]any{"cardId": lance.ID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ReadOnlyCatalog(t *testing.T) {
	env := newTestEnvWithAdmin(t, nil, false)

	resp := env.do(t, http.MethodPost, "/api/v1/characters", catalog.CharacterInput{Name: "Selena"})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/v1/cards/30", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/cards/30", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_DeckSessionEndToEnd(t *testing.T) {
	env := newTestEnv(t, nil)

	var (
		mu      sync.Mutex
		updates []events.Event
	)
	env.dispatcher.Register(&events.FuncObserver{
		Name:  "capture",
		Types: []string{events.TypeDeckUpdated},
		Fn: func(e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			updates = append(updates, e)
			return nil
		},
	})

	resp := env.do(t, http.MethodPost, "/api/v1/decks", map[string]int64{"characterId": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	snap := readData[session.Snapshot](t, resp)
	assert.Equal(t, 3, snap.AvailableCards)
	base := "/api/v1/decks/" + snap.ID

	// MONSTER + DIVINE_GLIMMER is 100 PT; the duplicate adds a 20 PT surcharge.
	env.do(t, http.MethodPost, base+"/cards", map[string]int64{"cardId": 31})
	resp = env.do(t, http.MethodPost, base+"/cards", map[string]int64{"cardId": 31})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := readData[deck.Summary](t, resp)
	assert.Equal(t, 200, sum.AcquisitionPT)
	assert.Equal(t, 20, sum.DuplicationPT)
	assert.Equal(t, 220, sum.TotalPT)
	assert.True(t, sum.OverBudget)

	resp = env.do(t, http.MethodPut, base+"/tier", map[string]int{"tier": 15})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum = readData[deck.Summary](t, resp)
	assert.Equal(t, 170, sum.TierCeiling)
	assert.Equal(t, 50, sum.OverBudgetBy)

	resp = env.do(t, http.MethodGet, base+"/export?format=detailed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	export := readData[decklist.DeckExport](t, resp)
	assert.True(t, strings.HasPrefix(export.Content, "// Renoa\n"))
	assert.Contains(t, export.Content, "2x Abyssal Maw [MONSTER, DIVINE_GLIMMER] 200 PT (100 each)")

	resp = env.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, env.manager.Count())

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, updates, 3)
}

func TestServer_ContentTypeEnforced(t *testing.T) {
	env := newTestEnv(t, nil)

	req, err := http.NewRequest(http.MethodPost, env.http.URL+"/api/v1/decks", strings.NewReader(`{"characterId":1}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestServer_RateLimitsDeckCommands(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	env := newTestEnv(t, cfg)

	resp := env.do(t, http.MethodPost, "/api/v1/decks", map[string]int64{"characterId": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	base := "/api/v1/decks/" + readData[session.Snapshot](t, resp).ID

	resp = env.do(t, http.MethodPost, base+"/cards", map[string]int64{"cardId": 30})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, base+"/cards", map[string]int64{"cardId": 30})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// Reads are never limited.
	resp = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, readData[session.Snapshot](t, resp).Entries, 1)
}

func TestServer_NoRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	env := newTestEnv(t, cfg)
	assert.Nil(t, env.server.limiter)

	resp := env.do(t, http.MethodPost, "/api/v1/decks", map[string]int64{"characterId": 1})
	base := "/api/v1/decks/" + readData[session.Snapshot](t, resp).ID
	for i := 0; i < 50; i++ {
		resp = env.do(t, http.MethodPost, base+"/removals", map[string]int64{"cardId": 10})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	srv := NewServer(nil, Dependencies{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
	assert.Equal(t, 8080, srv.Port())
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	l := newIPRateLimiter(1, 1)
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }

	for i := 0; i < limiterSweepAbove; i++ {
		l.get(strings.Repeat("x", i+1))
	}
	require.Equal(t, limiterSweepAbove, l.size())

	now = now.Add(limiterIdleTTL + time.Second)
	l.get("fresh")
	assert.Equal(t, 1, l.size())
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", clientKey(r))

	r.RemoteAddr = "10.0.0.7"
	assert.Equal(t, "10.0.0.7", clientKey(r))
}
