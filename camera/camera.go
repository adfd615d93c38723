// Package camera animates the viewport over graph space.
//
// The camera is a center point plus a ratio of graph units per viewport
// pixel; a larger ratio shows more of the graph.
package camera

import (
	"math"
	"time"

	"github.com/teranos/mangagraph/internal/util"
)

// State is a camera position
type State struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Ratio float64 `json:"ratio"`
}

// Point is a position in graph space
type Point struct {
	X, Y float64
}

// Options configures a Camera
type Options struct {
	FocusDuration time.Duration
	FitDuration   time.Duration
	FitMargin     float64
	MinRatio      float64
	MaxRatio      float64
	Width         float64 // viewport size in pixels
	Height        float64
}

// DefaultOptions returns the defaults used when none are configured
func DefaultOptions() Options {
	return Options{
		FocusDuration: 600 * time.Millisecond,
		FitDuration:   600 * time.Millisecond,
		FitMargin:     1.2,
		MinRatio:      0.05,
		MaxRatio:      10,
		Width:         1280,
		Height:        800,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FitMargin <= 0 {
		o.FitMargin = d.FitMargin
	}
	if o.MinRatio <= 0 {
		o.MinRatio = d.MinRatio
	}
	if o.MaxRatio < o.MinRatio {
		o.MaxRatio = math.Max(d.MaxRatio, o.MinRatio)
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

type animation struct {
	from, to State
	duration time.Duration
	start    time.Time // zero until the first Step
}

// Camera owns the viewport state and its single running animation.
// Not safe for concurrent use.
type Camera struct {
	opts  Options
	state State
	anim  *animation
}

// New creates a camera centered on the origin, ratio 1
func New(opts Options) *Camera {
	opts = opts.withDefaults()
	return &Camera{
		opts:  opts,
		state: State{Ratio: util.Clamp(1, opts.MinRatio, opts.MaxRatio)},
	}
}

// State returns the current camera state
func (c *Camera) State() State { return c.state }

// Viewport returns the viewport size in pixels
func (c *Camera) Viewport() (width, height float64) { return c.opts.Width, c.opts.Height }

// Animating reports whether an animation is pending or running
func (c *Camera) Animating() bool { return c.anim != nil }

// SetOptions replaces durations, margin and ratio range, keeping the viewport size
func (c *Camera) SetOptions(opts Options) {
	opts.Width, opts.Height = c.opts.Width, c.opts.Height
	c.opts = opts.withDefaults()
	c.state.Ratio = util.Clamp(c.state.Ratio, c.opts.MinRatio, c.opts.MaxRatio)
}

// Focus animates the center to (x, y), keeping the current ratio
func (c *Camera) Focus(x, y float64) {
	c.animateTo(State{X: x, Y: y, Ratio: c.state.Ratio}, c.opts.FocusDuration)
}

// FitTo animates so every point fits the viewport with the configured margin.
// Returns false and does nothing for zero points.
func (c *Camera) FitTo(points []Point) bool {
	if len(points) == 0 {
		return false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	ratio := math.Max((maxX-minX)/c.opts.Width, (maxY-minY)/c.opts.Height) * c.opts.FitMargin
	c.animateTo(State{
		X:     (minX + maxX) / 2,
		Y:     (minY + maxY) / 2,
		Ratio: util.Clamp(ratio, c.opts.MinRatio, c.opts.MaxRatio),
	}, c.opts.FitDuration)
	return true
}

// ZoomAt scales the ratio by factor keeping the graph point under (vx, vy) fixed.
// Cancels any running animation.
func (c *Camera) ZoomAt(vx, vy, factor float64) {
	if factor <= 0 {
		return
	}
	c.anim = nil
	gx, gy := c.ViewportToGraph(vx, vy)
	c.state.Ratio = util.Clamp(c.state.Ratio*factor, c.opts.MinRatio, c.opts.MaxRatio)
	c.state.X = gx - (vx-c.opts.Width/2)*c.state.Ratio
	c.state.Y = gy - (vy-c.opts.Height/2)*c.state.Ratio
}

func (c *Camera) animateTo(target State, d time.Duration) {
	if d <= 0 {
		c.state = target
		c.anim = nil
		return
	}
	c.anim = &animation{from: c.state, to: target, duration: d}
}

// Step advances the animation to now. Returns true while still animating.
func (c *Camera) Step(now time.Time) bool {
	if c.anim == nil {
		return false
	}
	if c.anim.start.IsZero() {
		c.anim.start = now
	}

	t := float64(now.Sub(c.anim.start)) / float64(c.anim.duration)
	if t >= 1 {
		c.state = c.anim.to
		c.anim = nil
		return false
	}

	e := easeInOutQuad(util.Clamp(t, 0, 1))
	c.state = State{
		X:     util.Lerp(c.anim.from.X, c.anim.to.X, e),
		Y:     util.Lerp(c.anim.from.Y, c.anim.to.Y, e),
		Ratio: util.Lerp(c.anim.from.Ratio, c.anim.to.Ratio, e),
	}
	return true
}

// Resize updates the viewport size in pixels
func (c *Camera) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.opts.Width, c.opts.Height = width, height
}

// ViewportToGraph projects viewport pixels into graph space
func (c *Camera) ViewportToGraph(vx, vy float64) (x, y float64) {
	return c.state.X + (vx-c.opts.Width/2)*c.state.Ratio,
		c.state.Y + (vy-c.opts.Height/2)*c.state.Ratio
}

// GraphToViewport projects a graph position into viewport pixels
func (c *Camera) GraphToViewport(x, y float64) (vx, vy float64) {
	return (x-c.state.X)/c.state.Ratio + c.opts.Width/2,
		(y-c.state.Y)/c.state.Ratio + c.opts.Height/2
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}
