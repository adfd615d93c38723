// Package discovery picks curated starting points for exploration and
// searches titles by fuzzy match.
package discovery

import (
	"math/rand"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/teranos/mangagraph/graph"
)

// Options sets the quality bar for curated candidates
type Options struct {
	MinScore    float64
	MinScoredBy int
	Limit       int // 0 = unlimited
}

// Candidate is a node offered as an exploration entry point
type Candidate struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	TitleEN  *string  `json:"title_en,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Score    float64  `json:"score"`
	ScoredBy int      `json:"scored_by"`
	Genres   []string `json:"genres"`
}

func candidateOf(n *graph.Node) Candidate {
	genres := n.Genres
	if genres == nil {
		genres = []string{}
	}
	return Candidate{
		ID:       n.ID,
		Title:    n.Title,
		TitleEN:  n.TitleEN,
		ImageURL: n.ImageURL,
		Score:    n.Score,
		ScoredBy: n.ScoredBy,
		Genres:   genres,
	}
}

// Candidates returns nodes meeting the quality bar, best score first.
// Ties break on vote count, then id.
func Candidates(nodes []*graph.Node, opts Options) []Candidate {
	out := make([]Candidate, 0)
	for _, n := range nodes {
		if n.Score < opts.MinScore || n.ScoredBy < opts.MinScoredBy {
			continue
		}
		out = append(out, candidateOf(n))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].ScoredBy != out[j].ScoredBy {
			return out[i].ScoredBy > out[j].ScoredBy
		}
		return out[i].ID < out[j].ID
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// Pick returns a random candidate; false when there are none
func Pick(candidates []Candidate, rng *rand.Rand) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	if rng == nil {
		return candidates[rand.Intn(len(candidates))], true
	}
	return candidates[rng.Intn(len(candidates))], true
}

// Match is a search hit; lower Distance is closer
type Match struct {
	Candidate
	Distance int `json:"distance"`
}

// Search fuzzy-matches query against original and English titles,
// case-insensitively and ignoring diacritics. A node matching on both titles
// is reported once at its closer distance.
func Search(nodes []*graph.Node, query string, limit int) []Match {
	if query == "" {
		return []Match{}
	}

	targets := make([]string, 0, len(nodes)*2)
	owners := make([]int, 0, len(nodes)*2)
	for i, n := range nodes {
		targets = append(targets, n.Title)
		owners = append(owners, i)
		if n.TitleEN != nil && *n.TitleEN != "" && *n.TitleEN != n.Title {
			targets = append(targets, *n.TitleEN)
			owners = append(owners, i)
		}
	}

	best := make(map[int]int)
	for _, r := range fuzzy.RankFindNormalizedFold(query, targets) {
		owner := owners[r.OriginalIndex]
		if d, seen := best[owner]; !seen || r.Distance < d {
			best[owner] = r.Distance
		}
	}

	out := make([]Match, 0, len(best))
	for idx, d := range best {
		out = append(out, Match{Candidate: candidateOf(nodes[idx]), Distance: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
