// Package testing provides shared graph fixtures for package tests.
package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/teranos/mangagraph/graph"
	"github.com/teranos/mangagraph/internal/util"
)

// AwardTag is the genre tag the fixtures use for award-winning titles
const AwardTag = "Award Winning"

// ScenarioNodes returns the three-node scenario graph:
// X (score 9), Y (score 5), Z (score 7).
func ScenarioNodes() []graph.DatasetNode {
	return []graph.DatasetNode{
		{ID: "X", Title: "Vagabond", TitleEN: util.Ptr("Vagabond"), Score: 9, ScoredBy: 120000, Genres: []string{"Action", AwardTag}},
		{ID: "Y", Title: "Yotsuba to!", Score: 5, ScoredBy: 40000, Genres: []string{"Comedy"}},
		{ID: "Z", Title: "Zetman", Score: 7, ScoredBy: 15000, Genres: []string{"Action"}},
	}
}

// ScenarioEdges returns X–Y (0.4) and X–Z (0.1)
func ScenarioEdges() []graph.DatasetEdge {
	return []graph.DatasetEdge{
		{Source: "X", Target: "Y", Strength: 0.4},
		{Source: "X", Target: "Z", Strength: 0.1},
	}
}

// ScenarioStore loads the scenario graph with no load-time score floor
func ScenarioStore(t testing.TB) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	if _, err := s.Load(ScenarioNodes(), ScenarioEdges(), graph.LoadOptions{MinNodeSize: 3, MaxNodeSize: 15, Seed: 1}); err != nil {
		t.Fatalf("load scenario graph: %v", err)
	}
	return s
}

// RingNodes returns n nodes cycling through a few genres with scores 6..9
func RingNodes(n int) []graph.DatasetNode {
	genres := []string{"Action", "Drama", "Romance", "Horror"}
	out := make([]graph.DatasetNode, n)
	for i := range out {
		out[i] = graph.DatasetNode{
			ID:       fmt.Sprintf("m%d", i),
			Title:    fmt.Sprintf("Manga %d", i),
			Score:    6 + float64(i%4),
			ScoredBy: 1000 * (i + 1),
			Genres:   []string{genres[i%len(genres)]},
		}
	}
	return out
}

// RingEdges links each node to its successor, plus a chord every third node
func RingEdges(n int) []graph.DatasetEdge {
	out := make([]graph.DatasetEdge, 0, n+n/3)
	for i := 0; i < n; i++ {
		out = append(out, graph.DatasetEdge{
			Source:   fmt.Sprintf("m%d", i),
			Target:   fmt.Sprintf("m%d", (i+1)%n),
			Strength: 0.5,
		})
		if i%3 == 0 && n > 4 {
			out = append(out, graph.DatasetEdge{
				Source:   fmt.Sprintf("m%d", i),
				Target:   fmt.Sprintf("m%d", (i+n/2)%n),
				Strength: 0.2,
			})
		}
	}
	return out
}

// RingStore loads a ring graph of n nodes
func RingStore(t testing.TB, n int) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	if _, err := s.Load(RingNodes(n), RingEdges(n), graph.LoadOptions{MinNodeSize: 3, MaxNodeSize: 15, Seed: 7}); err != nil {
		t.Fatalf("load ring graph: %v", err)
	}
	return s
}

// WriteDataset writes a dataset document to a temp dir and returns its path
func WriteDataset(t testing.TB, nodes []graph.DatasetNode, edges []graph.DatasetEdge) string {
	t.Helper()
	doc := map[string]interface{}{"nodes": nodes, "edges": edges}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal dataset: %v", err)
	}
	path := filepath.Join(t.TempDir(), "manga.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}
