// Package interaction turns pointer gestures on nodes into clicks and drags.
//
// A gesture starts armed on a node; moving past the drag threshold makes it a
// drag (the node is pinned and follows the pointer), releasing before that
// makes it a click (selection toggle plus camera focus).
package interaction

import (
	"math"

	"github.com/teranos/mangagraph/graph"
)

// Phase is the gesture state
type Phase int

const (
	Idle Phase = iota
	ArmedOnNode
	Dragging
)

func (p Phase) String() string {
	switch p {
	case ArmedOnNode:
		return "armed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Button identifies a pointer button
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Outcome is what a pointer-up resolved to
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeClick
	OutcomeDragEnd
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClick:
		return "click"
	case OutcomeDragEnd:
		return "drag_end"
	default:
		return "none"
	}
}

// Cursor values reported to the shell
const (
	CursorDefault  = "default"
	CursorPointer  = "pointer"
	CursorGrabbing = "grabbing"
)

// DefaultDragThreshold is the pointer travel in pixels that turns a press into a drag
const DefaultDragThreshold = 5.0

// NodeHandle is the store surface the controller mutates
type NodeHandle interface {
	Node(id string) (*graph.Node, bool)
	Pin(id string) bool
	Unpin(id string) bool
	SetPosition(id string, x, y float64) bool
}

// Selector toggles selection membership
type Selector interface {
	Toggle(id string)
}

// Focuser centers the camera on a node
type Focuser interface {
	FocusNode(id string)
}

// Projector converts between viewport pixels and graph space
type Projector interface {
	ViewportToGraph(vx, vy float64) (x, y float64)
	GraphToViewport(x, y float64) (vx, vy float64)
}

// Tooltip is the hover tooltip, anchored at the node's viewport position
type Tooltip struct {
	NodeID  string  `json:"node_id,omitempty"`
	Title   string  `json:"title,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Visible bool    `json:"visible"`
}

// Controller is the per-surface gesture state machine. Not safe for concurrent use.
type Controller struct {
	nodes     NodeHandle
	selector  Selector
	focuser   Focuser
	projector Projector
	threshold float64

	phase          Phase
	nodeID         string
	startX, startY float64
	hoverID        string
}

// New creates a controller; threshold <= 0 uses DefaultDragThreshold
func New(nodes NodeHandle, selector Selector, focuser Focuser, projector Projector, threshold float64) *Controller {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return &Controller{
		nodes:     nodes,
		selector:  selector,
		focuser:   focuser,
		projector: projector,
		threshold: threshold,
	}
}

// SetThreshold changes the drag threshold for future gestures
func (c *Controller) SetThreshold(px float64) {
	if px > 0 {
		c.threshold = px
	}
}

// Phase returns the current gesture phase
func (c *Controller) Phase() Phase { return c.phase }

// ActiveNode returns the node of the current gesture, "" when idle
func (c *Controller) ActiveNode() string { return c.nodeID }

// PointerDown arms a gesture on nodeID. Non-primary buttons and presses
// outside any node are ignored. Returns true if a gesture was armed.
func (c *Controller) PointerDown(nodeID string, x, y float64, button Button) bool {
	if button != ButtonPrimary || nodeID == "" {
		return false
	}
	if _, ok := c.nodes.Node(nodeID); !ok {
		return false
	}
	// A press without a release for the previous gesture abandons it
	if c.phase != Idle {
		c.Cancel()
	}
	c.phase = ArmedOnNode
	c.nodeID = nodeID
	c.startX, c.startY = x, y
	return true
}

// PointerMove promotes an armed gesture to a drag once past the threshold and
// moves the dragged node. Returns true when a node position was written.
func (c *Controller) PointerMove(x, y float64) bool {
	switch c.phase {
	case ArmedOnNode:
		if math.Hypot(x-c.startX, y-c.startY) <= c.threshold {
			return false
		}
		c.phase = Dragging
		c.hoverID = ""
		c.nodes.Pin(c.nodeID)
		return c.drag(x, y)
	case Dragging:
		return c.drag(x, y)
	default:
		return false
	}
}

// drag writes the projected pointer position; removed nodes are skipped
func (c *Controller) drag(x, y float64) bool {
	gx, gy := c.projector.ViewportToGraph(x, y)
	return c.nodes.SetPosition(c.nodeID, gx, gy)
}

// PointerUp resolves the gesture: a click toggles selection and focuses the
// node, a drag end releases the node to the layout. Stale ups are no-ops.
func (c *Controller) PointerUp(x, y float64) Outcome {
	defer c.reset()

	switch c.phase {
	case ArmedOnNode:
		if _, ok := c.nodes.Node(c.nodeID); !ok {
			return OutcomeNone
		}
		c.selector.Toggle(c.nodeID)
		c.focuser.FocusNode(c.nodeID)
		return OutcomeClick
	case Dragging:
		c.nodes.Unpin(c.nodeID)
		return OutcomeDragEnd
	default:
		return OutcomeNone
	}
}

// Cancel abandons the current gesture without a click; a dragged node is unpinned
func (c *Controller) Cancel() {
	if c.phase == Dragging {
		c.nodes.Unpin(c.nodeID)
	}
	c.reset()
}

func (c *Controller) reset() {
	c.phase = Idle
	c.nodeID = ""
}

// HoverEnter records the hovered node; ignored while dragging
func (c *Controller) HoverEnter(nodeID string) {
	if c.phase == Dragging {
		return
	}
	c.hoverID = nodeID
}

// HoverLeave clears the hovered node
func (c *Controller) HoverLeave() {
	c.hoverID = ""
}

// Tooltip returns the hover tooltip at the node's current viewport position.
// Hidden while dragging or when the hovered node is gone.
func (c *Controller) Tooltip() Tooltip {
	if c.hoverID == "" || c.phase == Dragging {
		return Tooltip{}
	}
	n, ok := c.nodes.Node(c.hoverID)
	if !ok {
		return Tooltip{}
	}
	vx, vy := c.projector.GraphToViewport(n.X, n.Y)
	return Tooltip{
		NodeID:  n.ID,
		Title:   n.DisplayTitle(),
		X:       vx,
		Y:       vy,
		Visible: true,
	}
}

// Cursor returns the pointer cursor for the current state
func (c *Controller) Cursor() string {
	if c.phase == Dragging {
		return CursorGrabbing
	}
	if c.hoverID != "" || c.phase == ArmedOnNode {
		return CursorPointer
	}
	return CursorDefault
}
