package server

// This file contains HTTP handler methods for Server:
// - WebSocket connections (HandleWebSocket)
// - Current view (HandleGraph)
// - Curated candidates and title search (HandleDiscovery, HandleSearch)
// - SVG snapshot (HandleSnapshot)
// - Health checks (HandleHealth)

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/teranos/mangagraph/am"
	"github.com/teranos/mangagraph/discovery"
	"github.com/teranos/mangagraph/explorer"
	"github.com/teranos/mangagraph/graph"
	grapherr "github.com/teranos/mangagraph/graph/error"
	"github.com/teranos/mangagraph/logger"
	"github.com/teranos/mangagraph/snapshot"
	"github.com/teranos/mangagraph/version"
)

// HandleWebSocket upgrades a shell connection and starts its pumps
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.getState() != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		graphErr := grapherr.New(
			grapherr.CategoryWebSocket,
			err,
			"Failed to upgrade WebSocket connection",
		).WithSubcategory(grapherr.SubcategoryWSUpgrade)

		s.logger.Errorw("WebSocket upgrade failed", graphErr.ToLogFields()...)
		return
	}

	client := newClient(s, conn, uuid.New().String())

	// Send hello BEFORE starting writePump (avoid concurrent writes)
	info := version.Get()
	hello := HelloMessage{
		Type:     MsgHello,
		ClientID: client.id,
		Version:  info.Version,
		Commit:   info.Short(),
		Protocol: info.Protocol,
	}
	if err := conn.WriteJSON(hello); err != nil {
		s.logger.Debugw("Failed to send hello", logger.FieldClientID, client.id, logger.FieldError, err)
	}

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		conn.Close()
		return
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		client.readPump()
	}()
	go func() {
		defer s.wg.Done()
		client.writePump()
	}()
}

// HandleGraph serves the current styled view
func (s *Server) HandleGraph(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.liveView(r.Context()))
}

// liveView builds the view on the loop so positions match the running
// layout; the cached view only changes on resolve.
func (s *Server) liveView(ctx context.Context) *graph.Graph {
	if s.loop == nil {
		return s.currentView()
	}
	var view *graph.Graph
	if err := s.loop.Do(ctx, func(x *explorer.Explorer) { view = x.View() }); err != nil {
		s.logger.Debugw("Explorer loop unavailable, serving cached view", logger.FieldError, err)
		return s.currentView()
	}
	return view
}

// currentView returns the cached view, asking the loop when nothing is cached yet
func (s *Server) currentView() *graph.Graph {
	if view := s.LastView(); view != nil {
		return view
	}
	if s.loop != nil {
		if view := s.loop.LastView(); view != nil {
			return view
		}
	}
	return graph.Empty(nil)
}

// HandleDiscovery lists curated starting nodes
func (s *Server) HandleDiscovery(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	opts := discoveryOptions(s.cfg)
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}

	var candidates []discovery.Candidate
	if err := s.loop.Do(r.Context(), func(x *explorer.Explorer) {
		candidates = discovery.Candidates(x.Store().Nodes(), opts)
	}); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": candidates})
}

// HandleSearch fuzzy-matches titles: /api/search?q=...&limit=n
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	limit := 20
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}

	var matches []discovery.Match
	if err := s.loop.Do(r.Context(), func(x *explorer.Explorer) {
		matches = discovery.Search(x.Store().Nodes(), q, limit)
	}); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"query": q, "matches": matches})
}

// HandleSnapshot renders the current view as SVG: /api/snapshot.svg?width=&height=
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	opts := snapshot.DefaultOptions()
	if n, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil {
		opts.Width = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("height")); err == nil {
		opts.Height = n
	}
	if r.URL.Query().Get("labels") == "false" {
		opts.Labels = false
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := snapshot.Render(w, s.liveView(r.Context()), opts); err != nil {
		s.logger.Warnw("Snapshot render failed", logger.FieldError, err)
	}
}

// HandleHealth reports liveness and load status
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	view := s.currentView()
	info := version.Get()
	resp := HealthResponse{
		Status:    "ok",
		Version:   info.Version,
		Commit:    info.Short(),
		Protocol:  info.Protocol,
		Clients:   s.ClientCount(),
		Nodes:     view.Meta.Stats.TotalNodes,
		Edges:     view.Meta.Stats.TotalEdges,
		LoadError: view.Meta.Config["error"],
		State:     stateString(s.getState()),
	}
	if resp.LoadError != "" {
		resp.Status = "degraded"
	}
	system, err := collectSystemMetrics()
	if err != nil {
		s.logger.Debugw("Partial system metrics", logger.FieldError, err)
	}
	resp.System = system
	writeJSON(w, http.StatusOK, resp)
}

func discoveryOptions(cfg *am.Config) discovery.Options {
	return discovery.Options{
		MinScore:    cfg.Discovery.MinScore,
		MinScoredBy: cfg.Discovery.MinScoredBy,
		Limit:       cfg.Discovery.Limit,
	}
}

// saveFilterPath resolves the file save_filter writes to
func (s *Server) saveFilterPath() string {
	if s.configPath != "" {
		return s.configPath
	}
	if active := am.ActiveConfigPath(); active != "" {
		return active
	}
	return filepath.Join(".", am.ConfigFileName)
}
