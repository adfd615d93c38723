// Package visibility computes which nodes and edges are shown for the current
// filters and selection, and how each one is styled.
//
// With no selection, the active set is every filter-valid node joined by a
// strength-valid edge to another filter-valid node. With a selection, it is
// the intersection of each selected node's qualifying neighbours, in selection
// order, plus the selected nodes themselves. An empty active set is a valid
// outcome, not an error.
package visibility

import "github.com/teranos/mangagraph/graph"

// DefaultAwardTag is the genre tag that marks award-winning titles
const DefaultAwardTag = "Award Winning"

// Graph is the read-only store view the resolver needs
type Graph interface {
	Nodes() []*graph.Node
	Edges() []*graph.Edge
	Node(id string) (*graph.Node, bool)
	Incident(id string) []*graph.Edge
}

// Resolver computes Results. The zero value uses DefaultAwardTag and DefaultPalette.
type Resolver struct {
	AwardTag string
	Palette  *Palette
}

// Resolve computes the visibility result with the default resolver
func Resolve(g Graph, filter FilterState, sel *Selection) *Result {
	return (&Resolver{}).Resolve(g, filter, sel)
}

// Resolve computes the active set, render states and styles
func (r *Resolver) Resolve(g Graph, filter FilterState, sel *Selection) *Result {
	awardTag := r.AwardTag
	if awardTag == "" {
		awardTag = DefaultAwardTag
	}
	palette := DefaultPalette()
	if r.Palette != nil {
		palette = *r.Palette
	}
	v := newValidator(filter, awardTag)

	// Selected ids no longer in the store are ignored
	var selected []string
	if sel != nil {
		for _, id := range sel.IDs() {
			if _, ok := g.Node(id); ok {
				selected = append(selected, id)
			}
		}
	}

	res := newResult(filter, selected)
	if len(selected) == 0 {
		r.resolveUnselected(g, v, res)
	} else {
		r.resolveSelected(g, v, res, selected)
	}
	r.classify(g, v, res, palette)
	return res
}

// resolveUnselected activates filter-valid nodes with a qualifying edge to
// another filter-valid node
func (r *Resolver) resolveUnselected(g Graph, v *validator, res *Result) {
	valid := make(map[string]bool, len(g.Nodes()))
	for _, n := range g.Nodes() {
		valid[n.ID] = v.nodeValid(n)
	}
	for _, e := range g.Edges() {
		if v.edgeValid(e) && valid[e.Source] && valid[e.Target] {
			res.active[e.Source] = struct{}{}
			res.active[e.Target] = struct{}{}
		}
	}
}

// resolveSelected intersects qualifying neighbourhoods in selection order
func (r *Resolver) resolveSelected(g Graph, v *validator, res *Result, selected []string) {
	candidates := qualifyingNeighbors(g, v, selected[0])
	for _, id := range selected[1:] {
		if len(candidates) == 0 {
			break
		}
		next := qualifyingNeighbors(g, v, id)
		for c := range candidates {
			if _, ok := next[c]; !ok {
				delete(candidates, c)
			}
		}
	}
	for c := range candidates {
		res.active[c] = struct{}{}
	}
	for _, id := range selected {
		res.active[id] = struct{}{}
	}
}

// qualifyingNeighbors returns filter-valid neighbours over strength-valid edges
func qualifyingNeighbors(g Graph, v *validator, id string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range g.Incident(id) {
		if !v.edgeValid(e) {
			continue
		}
		other, ok := g.Node(e.Other(id))
		if ok && v.nodeValid(other) {
			out[other.ID] = struct{}{}
		}
	}
	return out
}

// classify assigns render states and styles to every node and edge
func (r *Resolver) classify(g Graph, v *validator, res *Result, palette Palette) {
	for _, n := range g.Nodes() {
		var state RenderState = Hidden{}
		if _, ok := res.active[n.ID]; ok {
			_, isSelected := res.selected[n.ID]
			state = Highlighted{Selected: isSelected}
			res.order = append(res.order, n.ID)
		}
		res.nodeStates[n.ID] = state
		res.nodeStyles[n.ID] = palette.nodeStyle(n, state)
	}

	for _, e := range g.Edges() {
		var state RenderState = Hidden{}
		_, srcActive := res.active[e.Source]
		_, dstActive := res.active[e.Target]
		if v.edgeValid(e) && srcActive && dstActive {
			_, srcSel := res.selected[e.Source]
			_, dstSel := res.selected[e.Target]
			if srcSel || dstSel {
				state = Highlighted{Selected: true}
			} else {
				state = Dimmed{}
			}
			res.visibleEdges++
		}
		key := edgeKey(e.Source, e.Target)
		res.edgeStates[key] = state
		res.edgeStyles[key] = palette.edgeStyle(e, state)
	}
}
