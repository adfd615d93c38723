package layout

import "github.com/teranos/mangagraph/graph"

// RepulsionStrategy accumulates node-node repulsion into fx and fy.
// mass[i] belongs to nodes[i]. Pinned nodes still repel others.
type RepulsionStrategy interface {
	Name() string
	Apply(nodes []*graph.Node, mass, fx, fy []float64, scaling float64)
}

// ChooseRepulsion picks exact repulsion only for graphs smaller than threshold
func ChooseRepulsion(nodeCount, threshold int, theta float64) RepulsionStrategy {
	if nodeCount < threshold {
		return Exact{}
	}
	return &BarnesHut{Theta: theta}
}

// Exact is pairwise O(n²) repulsion
type Exact struct{}

// Name implements RepulsionStrategy
func (Exact) Name() string { return "exact" }

// Apply implements RepulsionStrategy
func (Exact) Apply(nodes []*graph.Node, mass, fx, fy []float64, scaling float64) {
	for i := 0; i < len(nodes); i++ {
		a := nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			dx := a.X - b.X
			dy := a.Y - b.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				continue
			}
			factor := scaling * mass[i] * mass[j] / d2
			fx[i] += dx * factor
			fy[i] += dy * factor
			fx[j] -= dx * factor
			fy[j] -= dy * factor
		}
	}
}

// BarnesHut approximates repulsion with a quadtree: a cell whose
// size/distance ratio is below Theta acts as one body at its mass center.
type BarnesHut struct {
	Theta float64
	tree  quadtree
}

// Name implements RepulsionStrategy
func (b *BarnesHut) Name() string { return "barnes-hut" }

// Apply implements RepulsionStrategy
func (b *BarnesHut) Apply(nodes []*graph.Node, mass, fx, fy []float64, scaling float64) {
	if len(nodes) < 2 {
		return
	}
	b.tree.build(nodes, mass)
	theta2 := b.Theta * b.Theta
	for i, n := range nodes {
		b.tree.accumulate(i, n.X, n.Y, mass[i], theta2, scaling, &fx[i], &fy[i])
	}
}
