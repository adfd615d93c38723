package visibility

import "github.com/teranos/mangagraph/graph"

// NodeStyle is the renderer-facing style of one node
type NodeStyle struct {
	Size        float64 `json:"size"`
	Label       string  `json:"label"`
	Color       string  `json:"color"`
	BorderColor string  `json:"border_color,omitempty"`
	Z           int     `json:"z"`
	Hidden      bool    `json:"hidden"`
}

// EdgeStyle is the renderer-facing style of one edge
type EdgeStyle struct {
	Size   float64 `json:"size"`
	Color  string  `json:"color"`
	Z      int     `json:"z"`
	Hidden bool    `json:"hidden"`
}

// Palette maps render states to colors
type Palette struct {
	Genres         []string // cycled by primary genre index
	Ungrouped      string
	Dimmed         string
	SelectedBorder string
	EdgeHighlight  string
	EdgeDimmed     string
	SelectedScale  float64 // size multiplier for selected nodes
}

// DefaultPalette is tuned for a dark canvas
func DefaultPalette() Palette {
	return Palette{
		Genres: []string{
			"#e06c75", "#61afef", "#98c379", "#e5c07b", "#c678dd",
			"#56b6c2", "#d19a66", "#be5046", "#7f848e", "#abb2bf",
		},
		Ungrouped:      "#5c6370",
		Dimmed:         "#3e4451",
		SelectedBorder: "#ffffff",
		EdgeHighlight:  "#e5c07b",
		EdgeDimmed:     "#2c313a",
		SelectedScale:  1.5,
	}
}

func (p Palette) genreColor(group int) string {
	if group < 0 || len(p.Genres) == 0 {
		return p.Ungrouped
	}
	return p.Genres[group%len(p.Genres)]
}

// nodeStyle derives the style for n in state s
func (p Palette) nodeStyle(n *graph.Node, s RenderState) NodeStyle {
	switch st := s.(type) {
	case Highlighted:
		style := NodeStyle{
			Size:  n.Size,
			Label: n.DisplayTitle(),
			Color: p.genreColor(n.Group),
			Z:     1,
		}
		if st.Selected {
			style.Size = n.Size * p.SelectedScale
			style.BorderColor = p.SelectedBorder
			style.Z = 2
		}
		return style
	case Dimmed:
		return NodeStyle{Size: n.Size, Label: n.DisplayTitle(), Color: p.Dimmed}
	default:
		return NodeStyle{Hidden: true}
	}
}

// edgeStyle derives the style for e in state s
func (p Palette) edgeStyle(e *graph.Edge, s RenderState) EdgeStyle {
	switch s.(type) {
	case Highlighted:
		return EdgeStyle{Size: 1 + 2*e.Strength, Color: p.EdgeHighlight, Z: 1}
	case Dimmed:
		return EdgeStyle{Size: 0.5, Color: p.EdgeDimmed}
	default:
		return EdgeStyle{Hidden: true}
	}
}
