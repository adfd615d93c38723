package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/teranos/mangagraph/errors"
)

// getState returns the current server state
func (s *Server) getState() ServerState {
	return ServerState(s.state.Load())
}

// setState atomically updates the server state
func (s *Server) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", stateString(newState))
}

// stateString returns human-readable state name
func stateString(state ServerState) string {
	switch state {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Start runs the hub and subscribes to the explorer loop. Safe to call twice.
func (s *Server) Start() {
	s.started.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.Run()
		}()
		if s.loop != nil {
			s.unsubscribe = s.loop.Subscribe(s)
		}
	})
}

// ListenAndServe starts the hub and serves HTTP on port until Stop.
// A clean shutdown returns nil.
func (s *Server) ListenAndServe(port int) error {
	s.Start()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "failed to listen on port %d", port),
			"set server.port in am.toml or MANGAGRAPH_SERVER_PORT",
		)
	}

	s.mu.Lock()
	if s.getState() != ServerStateRunning {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	s.logger.Infow("Server ready",
		"url", fmt.Sprintf("http://localhost:%d", port),
		"port", port,
	)

	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Stop gracefully shuts down the server and closes every client
func (s *Server) Stop() error {
	s.logger.Infow("Initiating server shutdown")
	s.setState(ServerStateDraining)

	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	var shutdownErr error
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		shutdownErr = httpServer.Shutdown(ctx)
	}

	// Close connections before cancelling so read pumps unblock
	s.mu.Lock()
	clientsToClose := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clientsToClose = append(clientsToClose, client)
		delete(s.clients, client)
	}
	s.mu.Unlock()

	if len(clientsToClose) > 0 {
		s.logger.Infow("Closing client connections", "count", len(clientsToClose))
		for _, client := range clientsToClose {
			client.close()
			if client.conn != nil {
				client.conn.Close()
			}
		}
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infow("All goroutines stopped cleanly")
	case <-time.After(ShutdownTimeout):
		s.logger.Warnw("Goroutine shutdown timed out, forcing exit",
			"timeout", ShutdownTimeout,
		)
	}

	s.setState(ServerStateStopped)
	s.logger.Infow("Server shutdown complete",
		"view_drops", s.viewDrops.Load(),
		"frame_drops", s.frameDrops.Load(),
	)
	return shutdownErr
}
