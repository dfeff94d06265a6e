package serverapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tapforge/internal/config"
	"tapforge/internal/engine"
	"tapforge/internal/telemetry"
)

func newTestServer(t *testing.T) (*httptest.Server, *engine.FakeClock) {
	t.Helper()

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Storage.Driver = "memory"

	clock := engine.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h, err := NewHandler(Options{
		Config:  cfg,
		Logger:  log.New(io.Discard, "", 0),
		Clock:   clock,
		Context: ctx,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, clock
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(bytes.TrimSpace(raw)) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "tapforge", body["service"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestServer_FullProgressionFlow(t *testing.T) {
	srv, clock := newTestServer(t)
	base := srv.URL

	// A state request creates the player lazily and anchors the tick.
	resp, body := getJSON(t, base+"/api/player/state?player=alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	playerBody := body["player"].(map[string]any)
	assert.Equal(t, "alice", playerBody["id"])
	assert.Equal(t, float64(1), playerBody["level"])
	assert.Equal(t, float64(0), playerBody["currency"])

	// One tap earns the per-tap yield.
	resp, body = postJSON(t, base+"/api/player/tap", `{"playerId":"alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["gain"])

	// Two days away fund the wallet through passive yield.
	clock.Advance(48 * time.Hour)

	resp, body = postJSON(t, base+"/api/shop/buy", `{"playerId":"alice","upgradeId":"side_hustle"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	receipt := body["receipt"].(map[string]any)
	assert.Equal(t, float64(1), receipt["newLevel"])
	assert.Equal(t, float64(100), receipt["cost"])

	// Level 2 wants every owned hourly upgrade at 2; side_hustle is at 1.
	resp, body = postJSON(t, base+"/api/level/advance", `{"playerId":"alice"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "requirements_not_met", body["code"])
	assert.Equal(t, float64(2), body["level"])

	resp, body = postJSON(t, base+"/api/shop/buy", `{"playerId":"alice","upgradeId":"side_hustle"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = postJSON(t, base+"/api/level/advance", `{"playerId":"alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	outcome := body["outcome"].(map[string]any)
	gained := outcome["levelsGained"].([]any)
	assert.Equal(t, []any{float64(2)}, gained)

	// The level-2 reward unlocks more shop inventory.
	resp, body = getJSON(t, base+"/api/shop?player=alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	quotes := body["upgrades"].([]any)
	assert.Len(t, quotes, 6)

	// Purchases landed in the event stream.
	resp, body = getJSON(t, base+"/api/events?type=upgrade_purchased")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := body["events"].([]any)
	assert.Len(t, events, 2)
}

func TestServer_CatalogEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/api/catalog/upgrades")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	upgrades := body["upgrades"].([]any)
	assert.Len(t, upgrades, 7)

	resp, body = getJSON(t, srv.URL+"/api/catalog/requirements")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	levels := body["levels"].([]any)
	assert.Len(t, levels, 4)
}

func TestServer_FeedAndLogAgreeOnEventIdentity(t *testing.T) {
	srv, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if wsResp != nil {
		defer wsResp.Body.Close()
	}
	defer conn.Close()

	// Let the hub register the subscriber before the event fires.
	time.Sleep(50 * time.Millisecond)

	resp, _ := postJSON(t, srv.URL+"/api/player/tap", `{"playerId":"alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var pushed telemetry.Event
	require.NoError(t, json.Unmarshal(msg, &pushed))
	require.Equal(t, telemetry.EventTapApplied, pushed.Type)

	resp, body := getJSON(t, srv.URL+"/api/events?type=tap_applied")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := body["events"].([]any)
	require.Len(t, events, 1)
	stored := events[0].(map[string]any)
	assert.Equal(t, stored["id"], pushed.ID, "feed and event log must share one event identity")
}

func TestServer_RejectsUnknownStorageDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Storage.Driver = "etcd"

	_, err := NewHandler(Options{Config: cfg, Logger: log.New(io.Discard, "", 0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}
