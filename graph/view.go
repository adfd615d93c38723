package graph

import (
	"time"
)

// Graph is the JSON document handed to the presentation shell
type Graph struct {
	Nodes []ViewNode `json:"nodes"`
	Links []Link     `json:"links"`
	Meta  Meta       `json:"meta"`
}

// ViewNode is a node as the shell renders it
type ViewNode struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"` // empty while hidden
	Title      string   `json:"title"`
	TitleEN    *string  `json:"title_en,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
	Score      float64  `json:"score"`
	ScoredBy   int      `json:"scored_by"`
	Genres     []string `json:"genres"`
	Group      int      `json:"group"` // primary genre index for coloring
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Size       float64  `json:"size"` // zero while hidden
	Importance float64  `json:"importance"`
	Pinned     bool     `json:"pinned,omitempty"`

	Visible     bool   `json:"visible"`
	State       string `json:"state,omitempty"` // hidden, dimmed, highlighted, selected
	Color       string `json:"color,omitempty"`
	BorderColor string `json:"border_color,omitempty"`
	Z           int    `json:"z"`
}

// Link is an edge as the shell renders it
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"value"` // D3 uses "value"
	Hidden bool    `json:"hidden,omitempty"`
	State  string  `json:"state,omitempty"`
	Color  string  `json:"color,omitempty"`
	Z      int     `json:"z"`
}

// Meta contains metadata about the graph
type Meta struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Stats       Stats             `json:"stats"`
	Config      map[string]string `json:"config"`
	Genres      []string          `json:"genres"`
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes   int      `json:"total_nodes"`
	TotalEdges   int      `json:"total_edges"`
	ActiveNodes  int      `json:"active_nodes"`
	VisibleEdges int      `json:"visible_edges"`
	Selected     []string `json:"selected"`
}

// Position is a node's location in graph space, pushed every frame
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Empty returns a graph document with no nodes, used for load failures
func Empty(config map[string]string) *Graph {
	if config == nil {
		config = map[string]string{}
	}
	return &Graph{
		Nodes: []ViewNode{},
		Links: []Link{},
		Meta: Meta{
			GeneratedAt: time.Now(),
			Config:      config,
			Genres:      []string{},
			Stats:       Stats{Selected: []string{}},
		},
	}
}

// View snapshots the store as an unstyled document: every node visible at its
// load size and every edge shown. Visibility styling is applied on top.
func (s *Store) View() *Graph {
	g := Empty(nil)
	g.Nodes = make([]ViewNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		g.Nodes = append(g.Nodes, ViewNode{
			ID:         n.ID,
			Label:      n.DisplayTitle(),
			Title:      n.Title,
			TitleEN:    n.TitleEN,
			ImageURL:   n.ImageURL,
			Score:      n.Score,
			ScoredBy:   n.ScoredBy,
			Genres:     nonNil(n.Genres),
			Group:      n.Group,
			X:          n.X,
			Y:          n.Y,
			Size:       n.Size,
			Importance: n.Importance,
			Pinned:     n.Pinned,
			Visible:    true,
		})
	}

	g.Links = make([]Link, 0, len(s.edges))
	for _, e := range s.edges {
		g.Links = append(g.Links, Link{
			Source: e.Source,
			Target: e.Target,
			Weight: e.Strength,
		})
	}

	g.Meta.Genres = nonNil(s.genres)
	g.Meta.Stats.TotalNodes = len(g.Nodes)
	g.Meta.Stats.TotalEdges = len(g.Links)
	g.Meta.Stats.ActiveNodes = len(g.Nodes)
	g.Meta.Stats.VisibleEdges = len(g.Links)
	return g
}

// Positions returns the current location of every node in load order
func (s *Store) Positions() []Position {
	out := make([]Position, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = Position{ID: n.ID, X: n.X, Y: n.Y}
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
