package server

import (
	"net/http"
)

// setupHTTPRoutes configures all HTTP handlers on the server's own mux
func (s *Server) setupHTTPRoutes() {
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket))              // Shell bridge (views, frames, gestures)
	s.mux.HandleFunc("/api/graph", s.corsMiddleware(s.HandleGraph))           // Current styled view (GET)
	s.mux.HandleFunc("/api/discovery", s.corsMiddleware(s.HandleDiscovery))   // Curated starting nodes (GET)
	s.mux.HandleFunc("/api/search", s.corsMiddleware(s.HandleSearch))         // Fuzzy title search (GET ?q=)
	s.mux.HandleFunc("/api/snapshot.svg", s.corsMiddleware(s.HandleSnapshot)) // SVG render of the current view
	s.mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
}

// corsMiddleware adds CORS headers to HTTP responses using configured allowed origins.
// Uses the same origin validation as WebSocket connections (server.allowed_origins config).
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
