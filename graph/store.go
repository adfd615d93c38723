package graph

import (
	"math/rand"
	"time"
)

type pairKey struct{ a, b string }

func keyFor(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Store is the in-memory manga graph: the single source of truth read by the
// layout engine, visibility resolver and controllers.
// A Store is not safe for concurrent use; it is owned by the explorer loop.
type Store struct {
	nodes  []*Node
	byID   map[string]*Node
	edges  []*Edge
	adj    map[string][]*Edge
	genres []string
	loaded bool
	rng    *rand.Rand
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		byID: make(map[string]*Node),
		adj:  make(map[string][]*Edge),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Loaded reports whether Load has populated the store
func (s *Store) Loaded() bool { return s.loaded }

// Len returns the number of nodes
func (s *Store) Len() int { return len(s.nodes) }

// Nodes returns the nodes in load order. The slice must not be modified.
func (s *Store) Nodes() []*Node { return s.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (s *Store) Edges() []*Edge { return s.edges }

// Genres returns the sorted genre vocabulary used for the radial seed
func (s *Store) Genres() []string { return s.genres }

// Node returns the node with the given id
func (s *Store) Node(id string) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Has reports whether id is a stored node
func (s *Store) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Degree returns the number of edges incident to id, 0 for unknown ids
func (s *Store) Degree(id string) int {
	return len(s.adj[id])
}

// Incident returns the edges touching id in insertion order
func (s *Store) Incident(id string) []*Edge {
	return s.adj[id]
}

// Neighbors returns ids joined to id by an edge with Strength >= minStrength,
// in edge insertion order
func (s *Store) Neighbors(id string, minStrength float64) []string {
	incident := s.adj[id]
	out := make([]string, 0, len(incident))
	for _, e := range incident {
		if e.Strength >= minStrength {
			out = append(out, e.Other(id))
		}
	}
	return out
}

// SetPosition moves a node and zeroes its velocity. Returns false for unknown ids.
func (s *Store) SetPosition(id string, x, y float64) bool {
	n, ok := s.byID[id]
	if !ok {
		return false
	}
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	return true
}

// Pin excludes a node from layout force updates and zeroes its velocity
func (s *Store) Pin(id string) bool {
	n, ok := s.byID[id]
	if !ok {
		return false
	}
	n.Pinned = true
	n.VX, n.VY = 0, 0
	return true
}

// Unpin returns a node to the layout engine
func (s *Store) Unpin(id string) bool {
	n, ok := s.byID[id]
	if !ok {
		return false
	}
	n.Pinned = false
	return true
}

// Remove deletes a node and its incident edges.
// Normal sessions never remove nodes; controllers must tolerate it anyway.
func (s *Store) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)

	for _, e := range s.adj[id] {
		other := e.Other(id)
		s.adj[other] = dropEdge(s.adj[other], e)
		if n, ok := s.byID[other]; ok {
			n.degree--
		}
	}
	delete(s.adj, id)

	nodes := s.nodes[:0]
	for _, n := range s.nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	s.nodes = nodes

	edges := s.edges[:0]
	for _, e := range s.edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	s.edges = edges

	s.reindex()
	return true
}

func dropEdge(list []*Edge, target *Edge) []*Edge {
	out := list[:0]
	for _, e := range list {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

// reindex refreshes Node.Index and the endpoint indices cached on edges
func (s *Store) reindex() {
	for i, n := range s.nodes {
		n.Index = i
	}
	for _, e := range s.edges {
		e.SourceIndex = s.byID[e.Source].Index
		e.TargetIndex = s.byID[e.Target].Index
	}
}
