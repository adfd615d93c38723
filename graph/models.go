package graph

// DatasetNode is one manga entry as it appears in the dataset document.
// Missing fields decode to zero values.
type DatasetNode struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	TitleEN  *string  `json:"title_en"`
	ImageURL string   `json:"image_url"`
	Score    float64  `json:"score"`
	ScoredBy int      `json:"scored_by"`
	Genres   []string `json:"genres"`
}

// DatasetEdge is one relation as it appears in the dataset document
type DatasetEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"`
}

// Node is a manga title held by the store.
// X, Y, VX and VY are mutated by the layout engine unless Pinned.
type Node struct {
	ID       string
	Title    string
	TitleEN  *string
	ImageURL string
	Score    float64
	ScoredBy int
	Genres   []string

	X, Y   float64
	VX, VY float64
	Size   float64
	Pinned bool

	// Importance is normalized degree centrality in [0,1]
	Importance float64

	// Group is the index of the primary genre in the store's genre vocabulary, -1 if none
	Group int

	// Index is the node's position in Store.Nodes(), maintained by the store
	Index int

	degree int
}

// DisplayTitle prefers the English title when present
func (n *Node) DisplayTitle() string {
	if n.TitleEN != nil && *n.TitleEN != "" {
		return *n.TitleEN
	}
	return n.Title
}

// HasGenre reports whether the node carries the given genre tag
func (n *Node) HasGenre(genre string) bool {
	for _, g := range n.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Edge is an undirected weighted relation between two stored nodes.
// Immutable after load.
type Edge struct {
	Source   string
	Target   string
	Strength float64

	// SourceIndex and TargetIndex mirror Node.Index of the endpoints
	SourceIndex int
	TargetIndex int
}

// Other returns the endpoint opposite id
func (e *Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// LoadOptions configures Store.Load
type LoadOptions struct {
	MinScore    float64 // nodes below this score are discarded
	MinNodeSize float64
	MaxNodeSize float64
	Seed        int64 // 0 = time-based
}

// LoadStats reports what Load kept and skipped
type LoadStats struct {
	InputNodes int `json:"input_nodes"`
	InputEdges int `json:"input_edges"`

	BelowScore   int `json:"below_score"`
	DuplicateIDs int `json:"duplicate_ids"`
	Dangling     int `json:"dangling_edges"`
	SelfLoops    int `json:"self_loops"`
	Duplicates   int `json:"duplicate_edges"`
	Isolated     int `json:"isolated_nodes"`

	Nodes  int `json:"nodes"`
	Edges  int `json:"edges"`
	Genres int `json:"genres"`
}
