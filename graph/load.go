package graph

import (
	"math"
	"math/rand"
	"sort"

	"github.com/teranos/mangagraph/errors"
)

// Radial seed parameters
const (
	SeedMinRadius = 300.0
	SeedMaxRadius = 1100.0
	SeedJitter    = 0.5 // radians either side of the sector center
)

// Load builds the graph once from dataset records.
//
// Nodes scoring below opts.MinScore are discarded, survivors are seeded on a
// genre-bucketed ring, edges are inserted only between survivors (first
// declaration of a pair wins), and nodes left without edges are dropped.
// Importance and size follow from degree. Self-loops, dangling references and
// duplicate pairs are skipped and counted in the returned stats.
func (s *Store) Load(nodes []DatasetNode, edges []DatasetEdge, opts LoadOptions) (*LoadStats, error) {
	if s.loaded {
		return nil, errors.ErrAlreadyLoaded
	}
	if opts.Seed != 0 {
		s.rng = rand.New(rand.NewSource(opts.Seed))
	}

	stats := &LoadStats{InputNodes: len(nodes), InputEdges: len(edges)}

	survivors := make([]*Node, 0, len(nodes))
	byID := make(map[string]*Node, len(nodes))
	for _, rec := range nodes {
		if rec.Score < opts.MinScore {
			stats.BelowScore++
			continue
		}
		if _, dup := byID[rec.ID]; dup {
			stats.DuplicateIDs++
			continue
		}
		n := &Node{
			ID:       rec.ID,
			Title:    rec.Title,
			TitleEN:  rec.TitleEN,
			ImageURL: rec.ImageURL,
			Score:    rec.Score,
			ScoredBy: rec.ScoredBy,
			Genres:   rec.Genres,
			Group:    -1,
		}
		byID[n.ID] = n
		survivors = append(survivors, n)
	}

	s.genres = genreVocabulary(survivors)
	s.seedPositions(survivors)

	seen := make(map[pairKey]struct{}, len(edges))
	adj := make(map[string][]*Edge, len(survivors))
	kept := make([]*Edge, 0, len(edges))
	for _, rec := range edges {
		if rec.Source == rec.Target {
			stats.SelfLoops++
			continue
		}
		src, okS := byID[rec.Source]
		dst, okT := byID[rec.Target]
		if !okS || !okT {
			stats.Dangling++
			continue
		}
		key := keyFor(rec.Source, rec.Target)
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		e := &Edge{Source: rec.Source, Target: rec.Target, Strength: rec.Strength}
		kept = append(kept, e)
		adj[e.Source] = append(adj[e.Source], e)
		adj[e.Target] = append(adj[e.Target], e)
		src.degree++
		dst.degree++
	}

	for _, n := range survivors {
		if n.degree == 0 {
			stats.Isolated++
			continue
		}
		s.nodes = append(s.nodes, n)
		s.byID[n.ID] = n
	}
	s.edges = kept
	s.adj = adj
	s.reindex()
	s.assignImportance(opts)

	stats.Nodes = len(s.nodes)
	stats.Edges = len(s.edges)
	stats.Genres = len(s.genres)
	s.loaded = true
	return stats, nil
}

// genreVocabulary returns the sorted distinct genres across nodes
func genreVocabulary(nodes []*Node) []string {
	set := make(map[string]struct{})
	for _, n := range nodes {
		for _, g := range n.Genres {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// seedPositions places each node in its primary genre's angular sector
func (s *Store) seedPositions(nodes []*Node) {
	index := make(map[string]int, len(s.genres))
	for i, g := range s.genres {
		index[g] = i
	}
	sector := 0.0
	if len(s.genres) > 0 {
		sector = 2 * math.Pi / float64(len(s.genres))
	}

	for _, n := range nodes {
		var angle float64
		if len(n.Genres) > 0 {
			n.Group = index[n.Genres[0]]
			center := (float64(n.Group) + 0.5) * sector
			angle = center + (s.rng.Float64()*2-1)*SeedJitter
		} else {
			angle = s.rng.Float64() * 2 * math.Pi
		}
		radius := SeedMinRadius + s.rng.Float64()*(SeedMaxRadius-SeedMinRadius)
		n.X = radius * math.Cos(angle)
		n.Y = radius * math.Sin(angle)
	}
}

// assignImportance maps degree to [0,1] and then to rendered size
func (s *Store) assignImportance(opts LoadOptions) {
	if len(s.nodes) == 0 {
		return
	}
	minDeg, maxDeg := s.nodes[0].degree, s.nodes[0].degree
	for _, n := range s.nodes[1:] {
		if n.degree < minDeg {
			minDeg = n.degree
		}
		if n.degree > maxDeg {
			maxDeg = n.degree
		}
	}
	span := float64(maxDeg - minDeg)
	for _, n := range s.nodes {
		if span > 0 {
			n.Importance = float64(n.degree-minDeg) / span
		}
		n.Size = opts.MinNodeSize + n.Importance*(opts.MaxNodeSize-opts.MinNodeSize)
	}
}
