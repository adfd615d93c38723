package visibility

import "github.com/teranos/mangagraph/graph"

// FilterState holds the interactive thresholds and switches.
// It is independent of the selection and survives selection changes.
type FilterState struct {
	MinStrength      float64  `json:"min_strength"`
	MinScore         float64  `json:"min_score"`
	SelectedGenres   []string `json:"genres"` // empty = no genre restriction
	AwardWinningOnly bool     `json:"award_only"`
}

// WithGenres returns a copy with a de-duplicated genre set
func (f FilterState) WithGenres(genres ...string) FilterState {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	f.SelectedGenres = out
	return f
}

// validator answers filter-validity for one resolve pass
type validator struct {
	filter   FilterState
	awardTag string
	genres   map[string]struct{}
}

func newValidator(f FilterState, awardTag string) *validator {
	v := &validator{filter: f, awardTag: awardTag}
	if len(f.SelectedGenres) > 0 {
		v.genres = make(map[string]struct{}, len(f.SelectedGenres))
		for _, g := range f.SelectedGenres {
			v.genres[g] = struct{}{}
		}
	}
	return v
}

// nodeValid: score floor, then award tag (which overrides genres), then genre overlap
func (v *validator) nodeValid(n *graph.Node) bool {
	if n.Score < v.filter.MinScore {
		return false
	}
	if v.filter.AwardWinningOnly {
		return n.HasGenre(v.awardTag)
	}
	if v.genres == nil {
		return true
	}
	for _, g := range n.Genres {
		if _, ok := v.genres[g]; ok {
			return true
		}
	}
	return false
}

func (v *validator) edgeValid(e *graph.Edge) bool {
	return e.Strength >= v.filter.MinStrength
}
