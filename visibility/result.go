package visibility

import "github.com/teranos/mangagraph/graph"

type pair struct{ a, b string }

func edgeKey(a, b string) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// Result is one resolve pass, consumed read-only by the renderer
type Result struct {
	filter   FilterState
	selected map[string]struct{}
	sel      []string

	active       map[string]struct{}
	order        []string // active ids in store order
	nodeStates   map[string]RenderState
	nodeStyles   map[string]NodeStyle
	edgeStates   map[pair]RenderState
	edgeStyles   map[pair]EdgeStyle
	visibleEdges int
}

func newResult(filter FilterState, selected []string) *Result {
	res := &Result{
		filter:     filter,
		selected:   make(map[string]struct{}, len(selected)),
		sel:        selected,
		active:     make(map[string]struct{}),
		nodeStates: make(map[string]RenderState),
		nodeStyles: make(map[string]NodeStyle),
		edgeStates: make(map[pair]RenderState),
		edgeStyles: make(map[pair]EdgeStyle),
	}
	for _, id := range selected {
		res.selected[id] = struct{}{}
	}
	return res
}

// Filter returns the filter state this result was computed for
func (r *Result) Filter() FilterState { return r.filter }

// IsActive reports whether id is in the active set
func (r *Result) IsActive(id string) bool {
	_, ok := r.active[id]
	return ok
}

// ActiveCount is the "showing N" figure
func (r *Result) ActiveCount() int { return len(r.active) }

// Active returns the active ids in store order
func (r *Result) Active() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Selection returns the selected ids the result honoured, in selection order
func (r *Result) Selection() []string {
	out := make([]string, len(r.sel))
	copy(out, r.sel)
	return out
}

// VisibleEdgeCount returns the number of edges not hidden
func (r *Result) VisibleEdgeCount() int { return r.visibleEdges }

// NodeState returns the render state of id; unknown ids are Hidden
func (r *Result) NodeState(id string) RenderState {
	if s, ok := r.nodeStates[id]; ok {
		return s
	}
	return Hidden{}
}

// NodeStyle returns the style of id; unknown ids are hidden
func (r *Result) NodeStyle(id string) NodeStyle {
	if s, ok := r.nodeStyles[id]; ok {
		return s
	}
	return NodeStyle{Hidden: true}
}

// EdgeState returns the render state of the edge between a and b, in either direction
func (r *Result) EdgeState(a, b string) RenderState {
	if s, ok := r.edgeStates[edgeKey(a, b)]; ok {
		return s
	}
	return Hidden{}
}

// EdgeStyle returns the style of the edge between a and b
func (r *Result) EdgeStyle(a, b string) EdgeStyle {
	if s, ok := r.edgeStyles[edgeKey(a, b)]; ok {
		return s
	}
	return EdgeStyle{Hidden: true}
}

// Apply overlays states and styles on a graph document built by Store.View
func (r *Result) Apply(g *graph.Graph) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		style := r.NodeStyle(n.ID)
		n.State = r.NodeState(n.ID).String()
		n.Visible = !style.Hidden
		n.Size = style.Size
		n.Label = style.Label
		n.Color = style.Color
		n.BorderColor = style.BorderColor
		n.Z = style.Z
	}
	for i := range g.Links {
		l := &g.Links[i]
		style := r.EdgeStyle(l.Source, l.Target)
		l.State = r.EdgeState(l.Source, l.Target).String()
		l.Hidden = style.Hidden
		l.Color = style.Color
		l.Z = style.Z
	}

	g.Meta.Stats.ActiveNodes = r.ActiveCount()
	g.Meta.Stats.VisibleEdges = r.visibleEdges
	g.Meta.Stats.Selected = r.Selection()
}
