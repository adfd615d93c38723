package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/mangagraph/am"
	"github.com/teranos/mangagraph/explorer"
	"github.com/teranos/mangagraph/graph"
	mgtest "github.com/teranos/mangagraph/internal/testing"
	"github.com/teranos/mangagraph/version"
)

type testEnv struct {
	srv        *Server
	http       *httptest.Server
	loop       *explorer.Loop
	configPath string
}

func testConfig() *am.Config {
	cfg := am.Default()
	cfg.Graph.LoadMinScore = 0
	cfg.Filter.MinScore = 0
	cfg.Filter.MinStrength = 0
	cfg.Layout.Seed = 1
	cfg.Server.FramePushRate = 0
	cfg.Discovery.MinScore = 8
	cfg.Discovery.MinScoredBy = 100000
	return cfg
}

func newTestEnv(t *testing.T, cfg *am.Config) *testEnv {
	t.Helper()
	return newTestEnvEvery(t, cfg, 20*time.Millisecond)
}

// newTestEnvEvery runs the explorer loop with the given frame interval
func newTestEnvEvery(t *testing.T, cfg *am.Config, interval time.Duration) *testEnv {
	t.Helper()
	x := explorer.New(cfg, nil)
	require.NoError(t, x.Load(mgtest.ScenarioNodes(), mgtest.ScenarioEdges()))

	loop := explorer.NewLoop(context.Background(), x, interval)
	loop.Start()
	t.Cleanup(loop.Stop)

	srv := New(context.Background(), cfg, loop)
	env := &testEnv{srv: srv, loop: loop, configPath: filepath.Join(t.TempDir(), am.ConfigFileName)}
	srv.SetConfigPath(env.configPath)
	srv.Start()

	env.http = httptest.NewServer(srv.Handler())
	t.Cleanup(env.http.Close)
	t.Cleanup(func() { _ = srv.Stop() })
	return env
}

func (e *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(e.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until one of msgType arrives and decodes it into out
func readUntil(t *testing.T, conn *websocket.Conn, msgType string, out interface{}) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", msgType)

		var envelope struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(data, &envelope))
		if envelope.Type == msgType {
			if out != nil {
				require.NoError(t, json.Unmarshal(data, out))
			}
			return
		}
	}
}

type viewEnvelope struct {
	Graph graph.Graph `json:"graph"`
}

func (e *testEnv) get(t *testing.T, path string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.http.URL+path, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, testConfig())

	resp := env.get(t, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 3, health.Nodes)
	assert.Equal(t, 2, health.Edges)
	assert.Equal(t, version.ProtocolVersion, health.Protocol)
	assert.Equal(t, "running", health.State)
	assert.Positive(t, health.System.Goroutines)
	assert.Positive(t, health.System.MemoryTotalGB)
	assert.Positive(t, health.System.ProcessRSSMB)
}

func TestCollectSystemMetrics(t *testing.T) {
	m, err := collectSystemMetrics()
	require.NoError(t, err)

	assert.Greater(t, m.MemoryTotalGB, m.MemoryUsedGB)
	assert.InDelta(t, m.MemoryUsedGB/m.MemoryTotalGB*100, m.MemoryPercent, 1e-9)
	assert.Positive(t, m.ProcessRSSMB)
	assert.GreaterOrEqual(t, m.ProcessCPUPercent, 0.0)
}

func TestHandleHealth_Degraded(t *testing.T) {
	cfg := testConfig()
	x := explorer.New(cfg, nil)
	_ = x.Load(nil, nil)
	loop := explorer.NewLoop(context.Background(), x, 20*time.Millisecond)
	loop.Start()
	defer loop.Stop()
	srv := New(context.Background(), cfg, loop)
	srv.Start()
	defer srv.Stop()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var health HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "degraded", health.Status)
	assert.NotEmpty(t, health.LoadError)
	assert.Zero(t, health.Nodes)
}

func TestHandleGraph(t *testing.T) {
	env := newTestEnv(t, testConfig())

	resp := env.get(t, "/api/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var g graph.Graph
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
	assert.Len(t, g.Nodes, 3)
	assert.Equal(t, 3, g.Meta.Stats.ActiveNodes)
}

func TestHandleGraph_TracksRunningLayout(t *testing.T) {
	// Frames are driven by hand so nothing moves between the two reads
	env := newTestEnvEvery(t, testConfig(), time.Hour)
	cached := env.srv.LastView()
	require.NotNil(t, cached)

	var live []graph.Position
	require.NoError(t, env.loop.Do(context.Background(), func(x *explorer.Explorer) {
		for i := 0; i < 30; i++ {
			x.Frame(time.Now())
		}
		live = x.Store().Positions()
	}))

	resp := env.get(t, "/api/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var g graph.Graph
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))

	served := make(map[string]graph.ViewNode, len(g.Nodes))
	for _, n := range g.Nodes {
		served[n.ID] = n
	}
	stale := make(map[string]graph.ViewNode, len(cached.Nodes))
	for _, n := range cached.Nodes {
		stale[n.ID] = n
	}

	moved := false
	for _, p := range live {
		n, ok := served[p.ID]
		require.True(t, ok, p.ID)
		assert.InDelta(t, p.X, n.X, 1e-9, "x of %s", p.ID)
		assert.InDelta(t, p.Y, n.Y, 1e-9, "y of %s", p.ID)
		if stale[p.ID].X != p.X || stale[p.ID].Y != p.Y {
			moved = true
		}
	}
	assert.True(t, moved, "layout kept running after the last resolve")
}

func TestHandleGraph_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, testConfig())

	resp, err := http.Post(env.http.URL+"/api/graph", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodGet, resp.Header.Get("Allow"))
}

func TestHandleSearch(t *testing.T) {
	env := newTestEnv(t, testConfig())

	resp := env.get(t, "/api/search?q=vaga", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Matches []struct {
			ID string `json:"id"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Matches, 1)
	assert.Equal(t, "X", body.Matches[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.get(t, "/api/search", nil).StatusCode)
}

func TestHandleDiscovery(t *testing.T) {
	env := newTestEnv(t, testConfig())

	resp := env.get(t, "/api/discovery", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Candidates []struct {
			ID string `json:"id"`
		} `json:"candidates"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Candidates, 1, "only X meets score 8 with 100k votes")
	assert.Equal(t, "X", body.Candidates[0].ID)
}

func TestHandleSnapshot(t *testing.T) {
	env := newTestEnv(t, testConfig())

	resp := env.get(t, "/api/snapshot.svg?width=400&height=300", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `width="400"`)
	assert.Equal(t, 3, strings.Count(buf.String(), "<circle"))
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, testConfig())

	allowed := env.get(t, "/health", http.Header{"Origin": {"http://localhost:5173"}})
	assert.Equal(t, "http://localhost:5173", allowed.Header.Get("Access-Control-Allow-Origin"))

	denied := env.get(t, "/health", http.Header{"Origin": {"https://evil.example"}})
	assert.Empty(t, denied.Header.Get("Access-Control-Allow-Origin"))
}

func TestHandleWebSocket_RejectsForeignOrigin(t *testing.T) {
	env := newTestEnv(t, testConfig())

	wsURL := "ws" + strings.TrimPrefix(env.http.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStop_TransitionsState(t *testing.T) {
	env := newTestEnv(t, testConfig())
	require.NoError(t, env.srv.Stop())
	assert.Equal(t, ServerStateStopped, env.srv.getState())

	resp := env.get(t, "/ws", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
