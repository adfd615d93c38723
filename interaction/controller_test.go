package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/mangagraph/graph"
	mgtest "github.com/teranos/mangagraph/internal/testing"
)

// recorder captures selection toggles and focus requests
type recorder struct {
	toggled []string
	focused []string
}

func (r *recorder) Toggle(id string)    { r.toggled = append(r.toggled, id) }
func (r *recorder) FocusNode(id string) { r.focused = append(r.focused, id) }

// offsetProjector maps viewport pixels to graph units at ratio 1, shifted by 100
type offsetProjector struct{}

func (offsetProjector) ViewportToGraph(vx, vy float64) (float64, float64) { return vx - 100, vy - 100 }
func (offsetProjector) GraphToViewport(x, y float64) (float64, float64)   { return x + 100, y + 100 }

func setup(t *testing.T) (*Controller, *graph.Store, *recorder) {
	t.Helper()
	store := mgtest.ScenarioStore(t)
	rec := &recorder{}
	return New(store, rec, rec, offsetProjector{}, 5), store, rec
}

func TestClick_TogglesAndFocuses(t *testing.T) {
	c, store, rec := setup(t)
	y, _ := store.Node("Y")
	x0, y0 := y.X, y.Y

	require.True(t, c.PointerDown("Y", 10, 10, ButtonPrimary))
	assert.Equal(t, ArmedOnNode, c.Phase())
	assert.False(t, c.PointerMove(13, 13), "4.2px is under the threshold")

	assert.Equal(t, OutcomeClick, c.PointerUp(13, 13))
	assert.Equal(t, Idle, c.Phase())
	assert.Equal(t, []string{"Y"}, rec.toggled)
	assert.Equal(t, []string{"Y"}, rec.focused)
	assert.False(t, y.Pinned)
	assert.Equal(t, x0, y.X)
	assert.Equal(t, y0, y.Y)
}

func TestDrag_PinsFollowsAndReleases(t *testing.T) {
	c, store, rec := setup(t)
	y, _ := store.Node("Y")
	y.VX, y.VY = 9, 9

	c.PointerDown("Y", 10, 10, ButtonPrimary)
	require.True(t, c.PointerMove(20, 10))
	assert.Equal(t, Dragging, c.Phase())
	assert.True(t, y.Pinned)
	assert.Equal(t, CursorGrabbing, c.Cursor())
	assert.Equal(t, -80.0, y.X)
	assert.Equal(t, -90.0, y.Y)
	assert.Zero(t, y.VX)

	require.True(t, c.PointerMove(300, 250))
	assert.Equal(t, 200.0, y.X)
	assert.Equal(t, 150.0, y.Y)

	assert.Equal(t, OutcomeDragEnd, c.PointerUp(300, 250))
	assert.False(t, y.Pinned)
	assert.Empty(t, rec.toggled, "a drag never toggles selection")
	assert.Empty(t, rec.focused)
	assert.Equal(t, CursorDefault, c.Cursor())
}

func TestPointerDown_Ignored(t *testing.T) {
	tests := []struct {
		name   string
		nodeID string
		button Button
	}{
		{"secondary button", "X", ButtonSecondary},
		{"middle button", "X", ButtonMiddle},
		{"empty space", "", ButtonPrimary},
		{"unknown node", "ghost", ButtonPrimary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, rec := setup(t)
			assert.False(t, c.PointerDown(tt.nodeID, 0, 0, tt.button))
			assert.Equal(t, Idle, c.Phase())
			assert.Equal(t, OutcomeNone, c.PointerUp(0, 0))
			assert.Empty(t, rec.toggled)
		})
	}
}

func TestStalePointerUpIsNoop(t *testing.T) {
	c, _, rec := setup(t)
	assert.Equal(t, OutcomeNone, c.PointerUp(5, 5))
	assert.False(t, c.PointerMove(50, 50))
	assert.Empty(t, rec.toggled)
}

func TestRemovedNodeMidDrag(t *testing.T) {
	c, store, rec := setup(t)

	c.PointerDown("Z", 0, 0, ButtonPrimary)
	require.True(t, c.PointerMove(10, 0))
	require.True(t, store.Remove("Z"))

	assert.NotPanics(t, func() {
		assert.False(t, c.PointerMove(20, 0), "writes are skipped")
		assert.Equal(t, OutcomeDragEnd, c.PointerUp(20, 0))
	})
	assert.Empty(t, rec.toggled)
}

func TestRemovedNodeBeforeClick(t *testing.T) {
	c, store, rec := setup(t)

	c.PointerDown("Z", 0, 0, ButtonPrimary)
	store.Remove("Z")

	assert.Equal(t, OutcomeNone, c.PointerUp(0, 0))
	assert.Empty(t, rec.toggled)
	assert.Empty(t, rec.focused)
}

func TestTooltip(t *testing.T) {
	c, store, _ := setup(t)
	x, _ := store.Node("X")
	store.SetPosition("X", 5, 6)

	c.HoverEnter("X")
	tip := c.Tooltip()
	assert.True(t, tip.Visible)
	assert.Equal(t, "Vagabond", tip.Title)
	assert.Equal(t, 105.0, tip.X)
	assert.Equal(t, 106.0, tip.Y)
	assert.Equal(t, CursorPointer, c.Cursor())

	// Tooltip follows the node as the layout moves it
	x.X = 50
	assert.Equal(t, 150.0, c.Tooltip().X)

	c.HoverLeave()
	assert.False(t, c.Tooltip().Visible)
}

func TestTooltip_SuppressedWhileDragging(t *testing.T) {
	c, _, _ := setup(t)

	c.HoverEnter("X")
	c.PointerDown("X", 0, 0, ButtonPrimary)
	c.PointerMove(50, 0)
	assert.False(t, c.Tooltip().Visible, "drag start clears the tooltip")

	c.HoverEnter("Y")
	assert.False(t, c.Tooltip().Visible, "hover during a drag is ignored")

	c.PointerUp(50, 0)
	assert.False(t, c.Tooltip().Visible)

	c.HoverEnter("Y")
	assert.True(t, c.Tooltip().Visible)
}

func TestPointerDown_WhileDraggingAbandonsPrevious(t *testing.T) {
	c, store, rec := setup(t)
	x, _ := store.Node("X")

	c.PointerDown("X", 0, 0, ButtonPrimary)
	c.PointerMove(20, 0)
	require.True(t, x.Pinned)

	require.True(t, c.PointerDown("Y", 0, 0, ButtonPrimary))
	assert.False(t, x.Pinned)
	assert.Equal(t, "Y", c.ActiveNode())
	assert.Empty(t, rec.toggled)
}

func TestCancel(t *testing.T) {
	c, store, _ := setup(t)
	y, _ := store.Node("Y")

	c.PointerDown("Y", 0, 0, ButtonPrimary)
	c.PointerMove(0, 30)
	c.Cancel()

	assert.Equal(t, Idle, c.Phase())
	assert.False(t, y.Pinned)
}

func TestPhaseAndOutcomeStrings(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "armed", ArmedOnNode.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "click", OutcomeClick.String())
	assert.Equal(t, "drag_end", OutcomeDragEnd.String())
}
