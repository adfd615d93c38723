package camera

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCamera() *Camera {
	return New(Options{
		FocusDuration: 100 * time.Millisecond,
		FitDuration:   100 * time.Millisecond,
		FitMargin:     1.2,
		MinRatio:      0.1,
		MaxRatio:      5,
		Width:         1000,
		Height:        500,
	})
}

func TestFocus_AnimatesCenterKeepsRatio(t *testing.T) {
	c := testCamera()
	c.state.Ratio = 2
	c.Focus(100, -50)
	require.True(t, c.Animating())

	t0 := time.Unix(0, 0)
	assert.True(t, c.Step(t0), "first step only anchors the start time")
	assert.Equal(t, 0.0, c.State().X)

	assert.True(t, c.Step(t0.Add(50*time.Millisecond)))
	mid := c.State()
	assert.InDelta(t, 50, mid.X, 1e-9, "ease-in-out is halfway at the midpoint")
	assert.Equal(t, 2.0, mid.Ratio)

	assert.False(t, c.Step(t0.Add(150*time.Millisecond)))
	assert.Equal(t, State{X: 100, Y: -50, Ratio: 2}, c.State())
	assert.False(t, c.Animating())
}

func TestFocus_ZeroDurationJumps(t *testing.T) {
	c := New(Options{Width: 100, Height: 100})
	c.opts.FocusDuration = 0
	c.Focus(3, 4)
	assert.False(t, c.Animating())
	assert.Equal(t, 3.0, c.State().X)
}

func TestFitTo(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   State
	}{
		{
			name:   "width bound",
			points: []Point{{-500, 0}, {500, 100}},
			want:   State{X: 0, Y: 50, Ratio: 1.2},
		},
		{
			name:   "height bound",
			points: []Point{{0, 0}, {100, 1000}},
			want:   State{X: 50, Y: 500, Ratio: 2.4},
		},
		{
			name:   "clamped to max",
			points: []Point{{0, 0}, {100000, 0}},
			want:   State{X: 50000, Y: 0, Ratio: 5},
		},
		{
			name:   "single point clamps to min",
			points: []Point{{7, 7}},
			want:   State{X: 7, Y: 7, Ratio: 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCamera()
			require.True(t, c.FitTo(tt.points))
			t0 := time.Now()
			c.Step(t0)
			c.Step(t0.Add(time.Second))
			got := c.State()
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.Ratio, got.Ratio, 1e-9)
		})
	}
}

func TestFitTo_NoPointsIsNoop(t *testing.T) {
	c := testCamera()
	before := c.State()
	assert.False(t, c.FitTo(nil))
	assert.False(t, c.Animating())
	assert.Equal(t, before, c.State())
}

func TestProjection_RoundTrip(t *testing.T) {
	c := testCamera()
	c.state = State{X: 30, Y: -20, Ratio: 0.5}

	gx, gy := c.ViewportToGraph(500, 250)
	assert.Equal(t, 30.0, gx, "viewport center maps to camera center")
	assert.Equal(t, -20.0, gy)

	vx, vy := c.GraphToViewport(c.ViewportToGraph(123, 456))
	assert.InDelta(t, 123, vx, 1e-9)
	assert.InDelta(t, 456, vy, 1e-9)

	gx, _ = c.ViewportToGraph(600, 250)
	assert.Equal(t, 80.0, gx, "100px right is 50 graph units at ratio 0.5")
}

func TestResize(t *testing.T) {
	c := testCamera()
	c.Resize(200, 100)
	w, h := c.Viewport()
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 100.0, h)

	c.Resize(0, 100)
	w, _ = c.Viewport()
	assert.Equal(t, 200.0, w)
}

func TestZoomAt_KeepsAnchor(t *testing.T) {
	c := testCamera()
	c.Focus(10, 10)
	gx, gy := c.ViewportToGraph(200, 100)

	c.ZoomAt(200, 100, 2)
	assert.False(t, c.Animating())
	assert.Equal(t, 2.0, c.State().Ratio)

	ax, ay := c.ViewportToGraph(200, 100)
	assert.InDelta(t, gx, ax, 1e-9)
	assert.InDelta(t, gy, ay, 1e-9)

	c.ZoomAt(0, 0, 100)
	assert.Equal(t, 5.0, c.State().Ratio)
}

func TestEaseInOutQuad(t *testing.T) {
	assert.Equal(t, 0.0, easeInOutQuad(0))
	assert.Equal(t, 0.5, easeInOutQuad(0.5))
	assert.Equal(t, 1.0, easeInOutQuad(1))
	assert.Less(t, easeInOutQuad(0.25), 0.25)
	assert.Greater(t, easeInOutQuad(0.75), 0.75)
}
