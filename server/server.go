// Package server bridges the exploration loop to browser presentation shells
// over HTTP and WebSocket.
//
// Every client receives the full styled view whenever visibility changes and
// a rate-limited stream of position frames. Inbound gestures and filter
// changes are posted onto the explorer loop, so all clients observe one
// shared session.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/mangagraph/am"
	"github.com/teranos/mangagraph/explorer"
	"github.com/teranos/mangagraph/graph"
	"github.com/teranos/mangagraph/logger"
)

// Server serves the shell bridge for one explorer loop
type Server struct {
	cfg        *am.Config
	loop       *explorer.Loop
	configPath string // target of save_filter; "" = active config or ./am.toml

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	lastView   *graph.Graph // cached for reconnecting clients

	logger     *zap.SugaredLogger
	httpServer *http.Server
	mux        *http.ServeMux

	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     sync.Once
	unsubscribe func()
	viewDrops   atomic.Int64
	frameDrops  atomic.Int64
	state       atomic.Int32
}

// New creates a server for loop. The loop must be started separately.
func New(ctx context.Context, cfg *am.Config, loop *explorer.Loop) *Server {
	if cfg == nil {
		cfg = am.Default()
	}
	serverCtx, cancel := context.WithCancel(ctx)
	s := &Server{
		cfg:        cfg,
		loop:       loop,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.ComponentLogger("server"),
		ctx:        serverCtx,
		cancel:     cancel,
	}
	s.setupHTTPRoutes()
	return s
}

// SetConfigPath sets where save_filter writes
func (s *Server) SetConfigPath(path string) {
	s.configPath = path
}

// Handler returns the HTTP handler with every route registered
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) maxClients() int {
	if s.cfg.Server.MaxClients > 0 {
		return s.cfg.Server.MaxClients
	}
	return DefaultMaxClients
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// handleClientRegister admits a client and sends it the cached view
func (s *Server) handleClientRegister(client *Client) {
	s.mu.Lock()
	if len(s.clients) >= s.maxClients() {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			logger.FieldClientID, client.id,
			"max_clients", s.maxClients(),
		)
		client.close()
		return
	}
	s.clients[client] = true
	total := len(s.clients)
	cached := s.lastView
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		logger.FieldClientID, client.id,
		"total_clients", total,
	)

	if cached != nil {
		client.queue(ViewMessage{Type: MsgView, Graph: cached})
	}
}

// handleClientUnregister drops a client and closes its queues
func (s *Server) handleClientUnregister(client *Client) {
	s.mu.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	total := len(s.clients)
	s.mu.Unlock()

	client.close()
	if ok {
		s.logger.Infow("Client disconnected",
			logger.FieldClientID, client.id,
			"total_clients", total,
		)
	}
}

// Run is the hub loop serializing client registration
func (s *Server) Run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		}
	}
}

// OnView implements explorer.Listener: cache and fan out a new view
func (s *Server) OnView(view *graph.Graph) {
	s.mu.Lock()
	s.lastView = view
	clients := s.snapshotClientsLocked()
	s.mu.Unlock()

	msg := ViewMessage{Type: MsgView, Graph: view}
	for _, c := range clients {
		if !c.queue(msg) {
			s.viewDrops.Add(1)
			s.logger.Warnw("Client queue full, dropping view", logger.FieldClientID, c.id)
		}
	}
}

// OnFrame implements explorer.Listener: offer a frame to each client's limiter
func (s *Server) OnFrame(frame explorer.FrameUpdate) {
	s.mu.RLock()
	clients := s.snapshotClientsLocked()
	s.mu.RUnlock()

	for _, c := range clients {
		if !c.offerFrame(frame) {
			s.frameDrops.Add(1)
		}
	}
}

func (s *Server) snapshotClientsLocked() []*Client {
	out := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		out = append(out, c)
	}
	return out
}

// LastView returns the most recently broadcast view
func (s *Server) LastView() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastView
}
