package visibility

// RenderState classifies a node or edge for the renderer.
// It is one of Hidden, Dimmed or Highlighted.
type RenderState interface {
	isRenderState()
	String() string
}

// Hidden is not drawn: outside the active set, or a filtered-out edge
type Hidden struct{}

// Dimmed is drawn de-emphasized: an edge not touching any selected node
type Dimmed struct{}

// Highlighted is drawn emphasized. Selected marks nodes in the selection
// and edges touching one.
type Highlighted struct {
	Selected bool
}

func (Hidden) isRenderState()      {}
func (Dimmed) isRenderState()      {}
func (Highlighted) isRenderState() {}

func (Hidden) String() string { return "hidden" }
func (Dimmed) String() string { return "dimmed" }

func (h Highlighted) String() string {
	if h.Selected {
		return "selected"
	}
	return "highlighted"
}

// IsHidden reports whether s is Hidden (nil counts as hidden)
func IsHidden(s RenderState) bool {
	if s == nil {
		return true
	}
	_, ok := s.(Hidden)
	return ok
}
