// Package snapshot renders a styled graph view to a static SVG image.
package snapshot

import (
	"fmt"
	"io"
	"math"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/teranos/mangagraph/graph"
)

// Options sizes the image
type Options struct {
	Width      int
	Height     int
	Padding    int
	Background string
	Labels     bool // draw titles next to highlighted nodes
}

// DefaultOptions returns a 1600x1000 dark image with labels
func DefaultOptions() Options {
	return Options{Width: 1600, Height: 1000, Padding: 60, Background: "#1e1e2e", Labels: true}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Padding < 0 || 2*o.Padding >= o.Width || 2*o.Padding >= o.Height {
		o.Padding = d.Padding
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	return o
}

const (
	fallbackNodeColor = "#abb2bf"
	fallbackEdgeColor = "#5c6370"
	textColor         = "#f8f8f2"
	mutedTextColor    = "#7f848e"
	fontFamily        = "system-ui,sans-serif"
)

// projection maps graph space onto the image
type projection struct {
	scale      float64
	minX, minY float64
	offX, offY float64
}

func (p projection) point(x, y float64) (int, int) {
	return int(math.Round((x-p.minX)*p.scale + p.offX)), int(math.Round((y-p.minY)*p.scale + p.offY))
}

// fit computes a uniform scale that frames every visible node
func fit(nodes []graph.ViewNode, o Options) projection {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}

	innerW := float64(o.Width - 2*o.Padding)
	innerH := float64(o.Height - 2*o.Padding)
	spanX, spanY := maxX-minX, maxY-minY

	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(innerW/spanX, innerH/spanY)
	case spanX > 0:
		scale = innerW / spanX
	case spanY > 0:
		scale = innerH / spanY
	}

	return projection{
		scale: scale,
		minX:  minX,
		minY:  minY,
		offX:  float64(o.Padding) + (innerW-spanX*scale)/2,
		offY:  float64(o.Padding) + (innerH-spanY*scale)/2,
	}
}

// Render writes the visible part of view as SVG. Hidden nodes and edges are
// skipped; drawing order follows each element's z-index.
func Render(w io.Writer, view *graph.Graph, opts Options) error {
	o := opts.withDefaults()

	visible := make([]graph.ViewNode, 0, len(view.Nodes))
	byID := make(map[string]graph.ViewNode, len(view.Nodes))
	for _, n := range view.Nodes {
		if !n.Visible {
			continue
		}
		visible = append(visible, n)
		byID[n.ID] = n
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Z < visible[j].Z })

	edges := make([]graph.Link, 0, len(view.Links))
	for _, l := range view.Links {
		if l.Hidden {
			continue
		}
		if _, ok := byID[l.Source]; !ok {
			continue
		}
		if _, ok := byID[l.Target]; !ok {
			continue
		}
		edges = append(edges, l)
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Z < edges[j].Z })

	canvas := svg.New(w)
	canvas.Start(o.Width, o.Height)
	canvas.Rect(0, 0, o.Width, o.Height, "fill:"+o.Background)

	if len(visible) == 0 {
		canvas.Text(o.Width/2, o.Height/2, emptyMessage(view),
			fmt.Sprintf("fill:%s;font-size:16px;font-family:%s;text-anchor:middle", mutedTextColor, fontFamily))
		canvas.End()
		return nil
	}

	p := fit(visible, o)

	canvas.Gid("edges")
	for _, l := range edges {
		s, t := byID[l.Source], byID[l.Target]
		x1, y1 := p.point(s.X, s.Y)
		x2, y2 := p.point(t.X, t.Y)
		canvas.Line(x1, y1, x2, y2, edgeStyle(l))
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range visible {
		x, y := p.point(n.X, n.Y)
		canvas.Circle(x, y, radius(n.Size), nodeStyle(n))
	}
	canvas.Gend()

	if o.Labels {
		canvas.Gid("labels")
		for _, n := range visible {
			if n.Label == "" || n.Z == 0 {
				continue
			}
			x, y := p.point(n.X, n.Y)
			canvas.Text(x+radius(n.Size)+4, y+4, n.Label,
				fmt.Sprintf("fill:%s;font-size:11px;font-family:%s", textColor, fontFamily))
		}
		canvas.Gend()
	}

	canvas.Text(16, o.Height-16,
		fmt.Sprintf("%d of %d titles · %d links", view.Meta.Stats.ActiveNodes, view.Meta.Stats.TotalNodes, view.Meta.Stats.VisibleEdges),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:%s", mutedTextColor, fontFamily))

	canvas.End()
	return nil
}

func radius(size float64) int {
	return int(math.Max(1, math.Round(size)))
}

func nodeStyle(n graph.ViewNode) string {
	fill := n.Color
	if fill == "" {
		fill = fallbackNodeColor
	}
	style := "fill:" + fill
	if n.BorderColor != "" {
		style += ";stroke:" + n.BorderColor + ";stroke-width:2"
	}
	return style
}

func edgeStyle(l graph.Link) string {
	stroke := l.Color
	if stroke == "" {
		stroke = fallbackEdgeColor
	}
	width := 0.5
	if l.Z > 0 {
		width = 1 + 2*l.Weight
	}
	return fmt.Sprintf("stroke:%s;stroke-width:%.2f;stroke-opacity:0.8", stroke, width)
}

func emptyMessage(view *graph.Graph) string {
	if desc, ok := view.Meta.Config["description"]; ok {
		return desc
	}
	return "No titles match the current filters"
}
