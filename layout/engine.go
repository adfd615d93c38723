// Package layout relaxes node positions with a ForceAtlas2-style simulation:
// repulsion between all nodes, attraction along edges, gravity toward the
// origin, and per-node adaptive speed. Pinned nodes are never moved.
package layout

import (
	"math"

	"github.com/teranos/mangagraph/graph"
)

// minConvergence keeps a node that once sat at zero force from freezing forever
const minConvergence = 0.01

// Graph is the node and edge view the engine relaxes in place
type Graph interface {
	Nodes() []*graph.Node
	Edges() []*graph.Edge
}

// Engine holds per-node simulation state between iterations.
// It is not safe for concurrent use.
type Engine struct {
	settings  Settings
	repulsion RepulsionStrategy

	mass        []float64
	fx, fy      []float64
	oldFx       []float64
	oldFy       []float64
	convergence []float64
}

// New creates an engine, choosing the repulsion strategy for nodeCount nodes
func New(settings Settings, nodeCount int) *Engine {
	settings = settings.withDefaults()
	return &Engine{
		settings:  settings,
		repulsion: ChooseRepulsion(nodeCount, settings.BarnesHutThreshold, settings.BarnesHutTheta),
	}
}

// Settings returns the active settings
func (e *Engine) Settings() Settings { return e.settings }

// Repulsion returns the active repulsion strategy
func (e *Engine) Repulsion() RepulsionStrategy { return e.repulsion }

// SetSettings replaces the tuning and re-chooses repulsion for nodeCount nodes.
// Adaptive speed state is kept so a retune does not jolt the layout.
func (e *Engine) SetSettings(settings Settings, nodeCount int) {
	e.settings = settings.withDefaults()
	e.repulsion = ChooseRepulsion(nodeCount, e.settings.BarnesHutThreshold, e.settings.BarnesHutTheta)
}

// Settle runs the load-time pass and returns the iteration count
func (e *Engine) Settle(g Graph) int {
	e.Step(g, e.settings.SettleIterations)
	return e.settings.SettleIterations
}

// Frame runs the continuous pass for one animation frame
func (e *Engine) Frame(g Graph) {
	e.Step(g, e.settings.IterationsPerFrame)
}

// Step runs the given number of iterations
func (e *Engine) Step(g Graph, iterations int) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return
	}
	e.resize(len(nodes))
	for it := 0; it < iterations; it++ {
		e.iterate(nodes, g.Edges())
	}
}

// resize reallocates state when the node count changes
func (e *Engine) resize(n int) {
	if len(e.mass) == n {
		return
	}
	e.mass = make([]float64, n)
	e.fx = make([]float64, n)
	e.fy = make([]float64, n)
	e.oldFx = make([]float64, n)
	e.oldFy = make([]float64, n)
	e.convergence = make([]float64, n)
	for i := range e.convergence {
		e.convergence[i] = 1
	}
}

func (e *Engine) iterate(nodes []*graph.Node, edges []*graph.Edge) {
	s := e.settings

	for i := range nodes {
		e.mass[i] = 1
		e.oldFx[i], e.oldFy[i] = e.fx[i], e.fy[i]
		e.fx[i], e.fy[i] = 0, 0
	}
	for _, edge := range edges {
		e.mass[edge.SourceIndex]++
		e.mass[edge.TargetIndex]++
	}

	e.repulsion.Apply(nodes, e.mass, e.fx, e.fy, s.ScalingRatio)

	// Gravity: constant pull of gravity*mass toward the origin
	if s.Gravity > 0 {
		for i, n := range nodes {
			d := math.Hypot(n.X, n.Y)
			if d == 0 {
				continue
			}
			factor := s.Gravity * e.mass[i] / d
			e.fx[i] -= n.X * factor
			e.fy[i] -= n.Y * factor
		}
	}

	for _, edge := range edges {
		a, b := nodes[edge.SourceIndex], nodes[edge.TargetIndex]
		w := edge.Strength
		if s.EdgeWeightInfluence != 1 {
			w = math.Pow(w, s.EdgeWeightInfluence)
		}
		dx := a.X - b.X
		dy := a.Y - b.Y
		e.fx[edge.SourceIndex] -= dx * w
		e.fy[edge.SourceIndex] -= dy * w
		e.fx[edge.TargetIndex] += dx * w
		e.fy[edge.TargetIndex] += dy * w
	}

	for i, n := range nodes {
		if n.Pinned {
			n.VX, n.VY = 0, 0
			e.fx[i], e.fy[i] = 0, 0
			continue
		}

		fx, fy := e.fx[i], e.fy[i]
		swinging := e.mass[i] * math.Hypot(e.oldFx[i]-fx, e.oldFy[i]-fy)
		traction := math.Hypot(e.oldFx[i]+fx, e.oldFy[i]+fy) / 2
		speed := e.convergence[i] * math.Log1p(traction) / (1 + math.Sqrt(swinging))

		e.convergence[i] = math.Max(minConvergence,
			math.Min(1, math.Sqrt(speed*(fx*fx+fy*fy)/(1+math.Sqrt(swinging)))))

		n.VX = fx * speed / s.SlowDown
		n.VY = fy * speed / s.SlowDown
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) || math.IsInf(n.VX, 0) || math.IsInf(n.VY, 0) {
			n.VX, n.VY = 0, 0
			continue
		}
		n.X += n.VX
		n.Y += n.VY
	}
}
