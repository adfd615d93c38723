package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/mangagraph/am"
	"github.com/teranos/mangagraph/discovery"
	"github.com/teranos/mangagraph/errors"
	"github.com/teranos/mangagraph/explorer"
	grapherr "github.com/teranos/mangagraph/graph/error"
	"github.com/teranos/mangagraph/interaction"
	"github.com/teranos/mangagraph/logger"
	"github.com/teranos/mangagraph/version"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Client represents one presentation shell connection
type Client struct {
	server    *Server
	conn      *websocket.Conn
	id        string
	send      chan interface{}
	frames    chan explorer.FrameUpdate // latest frame only
	limiter   *rate.Limiter
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.SugaredLogger
}

func newClient(s *Server, conn *websocket.Conn, id string) *Client {
	limit := rate.Inf
	if s.cfg.Server.FramePushRate > 0 {
		limit = rate.Limit(s.cfg.Server.FramePushRate)
	}
	return &Client{
		server:  s,
		conn:    conn,
		id:      id,
		send:    make(chan interface{}, MaxClientMessageQueueSize),
		frames:  make(chan explorer.FrameUpdate, 1),
		limiter: rate.NewLimiter(limit, 1),
		done:    make(chan struct{}),
		logger:  logger.ChildLogger(s.logger, logger.FieldClientID, id),
	}
}

// queue enqueues a message without blocking; false if the client is gone or full
func (c *Client) queue(msg interface{}) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// offerFrame passes a frame through the client's rate limiter, replacing any
// frame the write pump has not picked up yet
func (c *Client) offerFrame(frame explorer.FrameUpdate) bool {
	if !c.limiter.Allow() {
		return false
	}
	for i := 0; i < 2; i++ {
		select {
		case <-c.done:
			return false
		case c.frames <- frame:
			return true
		default:
		}
		select {
		case <-c.frames:
		default:
		}
	}
	return false
}

// close signals the pumps to stop; safe to call more than once
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
			c.close()
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.logger.Debugw("Read pump started")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(grapherr.New(grapherr.CategoryWebSocket, errors.Wrap(err, "malformed message"), "").
				WithSubcategory(grapherr.SubcategoryWSProtocol))
			continue
		}

		c.logger.Debugw("Received message", logger.FieldMessage, msg.Type)
		if !c.routeMessage(&msg) {
			return
		}
	}
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes (going away, abnormal, no status) are silently ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
		websocket.CloseNormalClosure,
	) {
		graphErr := grapherr.New(
			grapherr.CategoryWebSocket,
			err,
			"WebSocket connection closed unexpectedly",
		).WithSubcategory(grapherr.SubcategoryWSRead)

		c.logger.Warnw("WebSocket read error", graphErr.ToLogFields()...)
	}
}

// do runs fn on the explorer loop on behalf of this client
func (c *Client) do(fn func(*explorer.Explorer)) bool {
	if err := c.server.loop.Do(c.server.ctx, fn); err != nil {
		c.logger.Debugw("Explorer loop unavailable", logger.FieldError, err)
		return false
	}
	return true
}

// routeMessage dispatches one inbound message. Returns false to drop the connection.
func (c *Client) routeMessage(msg *ClientMessage) bool {
	switch msg.Type {
	case MsgHello:
		return c.handleHello(msg.Protocol)
	case MsgToggle:
		c.do(func(x *explorer.Explorer) { x.Toggle(msg.NodeID) })
	case MsgClear:
		c.do(func(x *explorer.Explorer) { x.ClearSelection() })
	case MsgFilter:
		c.handleFilter(msg.Filter)
	case MsgQuery:
		c.handleQuery(msg.Query)
	case MsgFocus:
		c.do(func(x *explorer.Explorer) { x.RequestFocus(msg.NodeID) })
	case MsgFit:
		c.do(func(x *explorer.Explorer) { x.RequestFitView() })
	case MsgZoom:
		c.do(func(x *explorer.Explorer) { x.Zoom(msg.X, msg.Y, msg.Factor) })
	case MsgResize:
		c.do(func(x *explorer.Explorer) { x.Resize(msg.Width, msg.Height) })
	case MsgDiscover:
		c.handleDiscover()
	case MsgPointerDown:
		c.do(func(x *explorer.Explorer) { x.PointerDown(msg.NodeID, msg.X, msg.Y, buttonOf(msg.Button)) })
	case MsgPointerMove:
		c.do(func(x *explorer.Explorer) { x.Interaction().PointerMove(msg.X, msg.Y) })
	case MsgPointerUp:
		c.handlePointerUp(msg.X, msg.Y)
	case MsgHoverEnter:
		c.do(func(x *explorer.Explorer) { x.Interaction().HoverEnter(msg.NodeID) })
	case MsgHoverLeave:
		c.do(func(x *explorer.Explorer) { x.Interaction().HoverLeave() })
	case MsgSaveFilter:
		c.handleSaveFilter()
	case MsgPing:
		c.queue(map[string]string{"type": MsgPong})
	default:
		c.sendError(grapherr.Newf(grapherr.CategoryWebSocket, "", "unknown message type %q", msg.Type).
			WithSubcategory(grapherr.SubcategoryWSProtocol))
	}
	return true
}

// handleHello checks the client's protocol version; incompatible clients are dropped
func (c *Client) handleHello(protocol string) bool {
	if protocol == "" {
		return true
	}
	if err := version.CheckProtocol(protocol); err != nil {
		ge := grapherr.New(grapherr.CategoryWebSocket, err, "Incompatible client - please reload the page").
			WithSubcategory(grapherr.SubcategoryWSVersion).
			WithContext("client_protocol", protocol).
			WithContext("server_protocol", version.ProtocolVersion)
		c.logger.Warnw("Rejecting client protocol", ge.ToLogFields()...)
		c.writeNow(c.errorMessage(ge))
		return false
	}
	return true
}

func (c *Client) handleFilter(f *FilterMessage) {
	if f == nil {
		return
	}
	c.do(func(x *explorer.Explorer) {
		next := x.Filter()
		if f.MinStrength != nil {
			next.MinStrength = *f.MinStrength
		}
		if f.MinScore != nil {
			next.MinScore = *f.MinScore
		}
		if f.Genres != nil {
			next.SelectedGenres = *f.Genres
		}
		if f.AwardOnly != nil {
			next.AwardWinningOnly = *f.AwardOnly
		}
		x.SetFilter(next)
	})
}

func (c *Client) handleQuery(input string) {
	q, err := explorer.ParseQuery(input)
	if err != nil {
		c.sendError(err)
		return
	}
	c.logger.Debugw("Applying query", logger.FieldQuery, input)
	c.do(q.Apply)
}

func (c *Client) handlePointerUp(vx, vy float64) {
	var msg *GestureMessage
	release := func(x *explorer.Explorer) {
		nodeID := x.Interaction().ActiveNode()
		outcome := x.Interaction().PointerUp(vx, vy)
		if outcome == interaction.OutcomeNone {
			return
		}
		msg = &GestureMessage{
			Type:     MsgGesture,
			Outcome:  outcome.String(),
			NodeID:   nodeID,
			Selected: x.Selection(),
		}
	}
	// msg is only safe to read once the loop has run the closure
	if !c.do(release) {
		return
	}
	if msg != nil {
		c.queue(*msg)
	}
}

// handleDiscover picks a curated candidate and selects it
func (c *Client) handleDiscover() {
	opts := discoveryOptions(c.server.cfg)
	var picked *discovery.Candidate
	pick := func(x *explorer.Explorer) {
		cand, ok := discovery.Pick(discovery.Candidates(x.Store().Nodes(), opts), nil)
		if !ok {
			return
		}
		picked = &cand
		x.ClearSelection()
		x.Toggle(cand.ID)
		x.RequestFocus(cand.ID)
	}
	if !c.do(pick) {
		return
	}
	c.queue(DiscoveryMessage{Type: MsgDiscovery, Candidate: picked})
}

// handleSaveFilter persists the live filter as the configured default
func (c *Client) handleSaveFilter() {
	var cfg am.FilterConfig
	if !c.do(func(x *explorer.Explorer) { cfg = explorer.FilterToConfig(x.Filter()) }) {
		return
	}

	path := c.server.saveFilterPath()
	if err := am.SaveFilter(path, cfg); err != nil {
		c.sendError(grapherr.New(grapherr.CategoryInternal, err, "Could not save the filter").
			WithSubcategory(grapherr.SubcategoryInternalConfig).
			WithContext("path", path))
		return
	}
	c.logger.Infow("Saved filter defaults", logger.FieldPath, path)
	c.queue(SavedMessage{Type: MsgSaved, Path: path})
}

func (c *Client) errorMessage(err error) ErrorMessage {
	ge := grapherr.From(grapherr.CategoryInternal, err)
	return ErrorMessage{
		Type:        MsgError,
		Category:    ge.Category.String(),
		Subcategory: ge.Subcategory,
		Message:     ge.ToUIMessage(),
		Detail:      ge.Error(),
		Retry:       ge.Retryable(),
	}
}

func (c *Client) sendError(err error) {
	c.logger.Debugw("Request failed", logger.FieldError, err)
	c.queue(c.errorMessage(err))
}

// writeNow queues msg and yields so the write pump can flush it before the
// connection is dropped
func (c *Client) writeNow(msg interface{}) {
	select {
	case c.send <- msg:
		time.Sleep(50 * time.Millisecond)
	default:
	}
}

// writePump writes queued messages and frames to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.logger.Debugw("Write pump started")

	for {
		select {
		case <-c.server.ctx.Done():
			return
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				graphErr := grapherr.New(
					grapherr.CategoryWebSocket,
					err,
					"Failed to send message to client",
				).WithSubcategory(grapherr.SubcategoryWSWrite)
				c.logger.Warnw("Message write error", graphErr.ToLogFields()...)
				return
			}
		case frame := <-c.frames:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(FrameMessage{Type: MsgFrame, FrameUpdate: frame}); err != nil {
				c.logger.Debugw("Frame write error", logger.FieldError, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
