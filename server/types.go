package server

import (
	"time"

	"github.com/teranos/mangagraph/discovery"
	"github.com/teranos/mangagraph/explorer"
	"github.com/teranos/mangagraph/graph"
	"github.com/teranos/mangagraph/interaction"
)

const (
	// DefaultMaxClients caps concurrent shell connections when server.max_clients is 0
	DefaultMaxClients = 100
	// MaxClientMessageQueueSize is the size of per-client message queues
	MaxClientMessageQueueSize = 256
	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// ServerState represents the server lifecycle state
type ServerState int

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// Inbound message types
const (
	MsgHello       = "hello"
	MsgToggle      = "toggle"
	MsgClear       = "clear"
	MsgFilter      = "filter"
	MsgQuery       = "query"
	MsgFocus       = "focus"
	MsgFit         = "fit"
	MsgZoom        = "zoom"
	MsgDiscover    = "discover"
	MsgPointerDown = "pointer_down"
	MsgPointerMove = "pointer_move"
	MsgPointerUp   = "pointer_up"
	MsgHoverEnter  = "hover_enter"
	MsgHoverLeave  = "hover_leave"
	MsgResize      = "resize"
	MsgSaveFilter  = "save_filter"
	MsgPing        = "ping"
)

// Outbound message types
const (
	MsgView      = "view"
	MsgFrame     = "frame"
	MsgError     = "error"
	MsgPong      = "pong"
	MsgGesture   = "gesture"
	MsgDiscovery = "discovery"
	MsgSaved     = "saved"
)

// ClientMessage is a message from the presentation shell
type ClientMessage struct {
	Type     string         `json:"type"`
	Protocol string         `json:"protocol,omitempty"` // hello: client protocol version
	NodeID   string         `json:"node_id,omitempty"`  // toggle, focus, pointer_down, hover_enter
	X        float64        `json:"x"`                  // viewport pixels for pointer and zoom messages
	Y        float64        `json:"y"`
	Button   int            `json:"button"`           // pointer_down: 0 primary, 1 middle, 2 secondary
	Factor   float64        `json:"factor,omitempty"` // zoom: ratio multiplier
	Width    float64        `json:"width,omitempty"`  // resize
	Height   float64        `json:"height,omitempty"`
	Query    string         `json:"query,omitempty"` // query: filter command line
	Filter   *FilterMessage `json:"filter,omitempty"`
}

// FilterMessage updates any subset of the filter state
type FilterMessage struct {
	MinStrength *float64  `json:"min_strength,omitempty"`
	MinScore    *float64  `json:"min_score,omitempty"`
	Genres      *[]string `json:"genres,omitempty"`
	AwardOnly   *bool     `json:"award_only,omitempty"`
}

// HelloMessage is sent to every client on connect
type HelloMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id"`
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Protocol string `json:"protocol"`
}

// ViewMessage carries a full styled graph document
type ViewMessage struct {
	Type  string       `json:"type"`
	Graph *graph.Graph `json:"graph"`
}

// FrameMessage carries node positions and camera state for one frame
type FrameMessage struct {
	Type string `json:"type"`
	explorer.FrameUpdate
}

// ErrorMessage reports a failed request to the shell
type ErrorMessage struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Message     string `json:"message"`
	Detail      string `json:"detail,omitempty"`
	Retry       bool   `json:"retry,omitempty"`
}

// GestureMessage reports how a pointer-up resolved
type GestureMessage struct {
	Type     string   `json:"type"`
	Outcome  string   `json:"outcome"`
	NodeID   string   `json:"node_id,omitempty"`
	Selected []string `json:"selected"`
}

// DiscoveryMessage answers a discover request
type DiscoveryMessage struct {
	Type      string               `json:"type"`
	Candidate *discovery.Candidate `json:"candidate,omitempty"`
}

// SavedMessage confirms a persisted filter
type SavedMessage struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// HealthResponse is served at /health
type HealthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Commit    string        `json:"commit"`
	Protocol  string        `json:"protocol"`
	Clients   int           `json:"clients"`
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	LoadError string        `json:"load_error,omitempty"`
	State     string        `json:"state"`
	System    SystemMetrics `json:"system"`
}

func buttonOf(b int) interaction.Button {
	switch b {
	case 1:
		return interaction.ButtonMiddle
	case 2:
		return interaction.ButtonSecondary
	default:
		return interaction.ButtonPrimary
	}
}
