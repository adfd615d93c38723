package visibility

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/mangagraph/graph"
	mgtest "github.com/teranos/mangagraph/internal/testing"
)

func sorted(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func TestResolve_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		filter    FilterState
		selection []string
		want      []string
	}{
		{
			name:   "A: no valid incident edges leaves nothing active",
			filter: FilterState{MinScore: 6, MinStrength: 0.2},
			want:   []string{},
		},
		{
			name:      "B: selection keeps only strength-valid neighbours",
			filter:    FilterState{MinScore: 1, MinStrength: 0.2},
			selection: []string{"X"},
			want:      []string{"X", "Y"},
		},
		{
			name:      "C: disjoint neighbourhoods leave only the selection",
			filter:    FilterState{MinScore: 0, MinStrength: 0},
			selection: []string{"X", "Z"},
			want:      []string{"X", "Z"},
		},
		{
			name:   "no selection with loose filters shows the connected graph",
			filter: FilterState{MinScore: 0, MinStrength: 0},
			want:   []string{"X", "Y", "Z"},
		},
		{
			name:      "selected node failing the score filter stays visible",
			filter:    FilterState{MinScore: 8, MinStrength: 0},
			selection: []string{"Z"},
			want:      []string{"X", "Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mgtest.ScenarioStore(t)
			res := Resolve(store, tt.filter, NewSelection(tt.selection...))
			assert.Equal(t, sorted(tt.want), sorted(res.Active()))
			assert.Equal(t, len(tt.want), res.ActiveCount())
		})
	}
}

func TestResolve_EdgeClassification(t *testing.T) {
	store := mgtest.ScenarioStore(t)

	res := Resolve(store, FilterState{MinScore: 0, MinStrength: 0}, NewSelection())
	assert.Equal(t, Dimmed{}, res.EdgeState("X", "Y"))
	assert.Equal(t, Dimmed{}, res.EdgeState("Z", "X"), "lookup is direction-free")
	assert.Equal(t, 2, res.VisibleEdgeCount())

	res = Resolve(store, FilterState{MinScore: 0, MinStrength: 0.2}, NewSelection("X"))
	assert.Equal(t, Highlighted{Selected: true}, res.EdgeState("X", "Y"))
	assert.Equal(t, Hidden{}, res.EdgeState("X", "Z"), "X–Z fails strength")
	assert.True(t, res.EdgeStyle("X", "Z").Hidden)
	assert.Equal(t, 1, res.VisibleEdgeCount())
}

func TestResolve_NodeStates(t *testing.T) {
	store := mgtest.ScenarioStore(t)
	res := Resolve(store, FilterState{MinScore: 1, MinStrength: 0.2}, NewSelection("X"))

	assert.Equal(t, Highlighted{Selected: true}, res.NodeState("X"))
	assert.Equal(t, Highlighted{Selected: false}, res.NodeState("Y"))
	assert.Equal(t, Hidden{}, res.NodeState("Z"))
	assert.Equal(t, Hidden{}, res.NodeState("nope"))

	hidden := res.NodeStyle("Z")
	assert.True(t, hidden.Hidden)
	assert.Zero(t, hidden.Size)
	assert.Empty(t, hidden.Label)

	x, _ := store.Node("X")
	sel := res.NodeStyle("X")
	assert.Equal(t, x.Size*DefaultPalette().SelectedScale, sel.Size)
	assert.Equal(t, "Vagabond", sel.Label)
	assert.Equal(t, 2, sel.Z)
	assert.NotEmpty(t, sel.BorderColor)
}

func TestResolve_AwardOnlyOverridesGenres(t *testing.T) {
	store := mgtest.ScenarioStore(t)
	filter := FilterState{MinStrength: 0, AwardWinningOnly: true}.WithGenres("Comedy")

	res := Resolve(store, filter, NewSelection("Y"))
	// Y's neighbour X is award-winning; the Comedy genre set is ignored
	assert.Equal(t, []string{"X", "Y"}, sorted(res.Active()))
}

func TestResolve_GenreFilter(t *testing.T) {
	store := mgtest.ScenarioStore(t)

	res := Resolve(store, FilterState{}.WithGenres("Action"), NewSelection())
	assert.Equal(t, []string{"X", "Z"}, sorted(res.Active()))

	res = Resolve(store, FilterState{}.WithGenres("Horror"), NewSelection())
	assert.Zero(t, res.ActiveCount())
}

func TestResolve_IgnoresRemovedSelection(t *testing.T) {
	store := mgtest.ScenarioStore(t)
	sel := NewSelection("X")
	require.True(t, store.Remove("X"))

	res := Resolve(store, FilterState{}, sel)
	assert.Empty(t, res.Selection())
	assert.Zero(t, res.ActiveCount(), "Y and Z are isolated once X is gone")
}

func TestResult_Apply(t *testing.T) {
	store := mgtest.ScenarioStore(t)
	res := Resolve(store, FilterState{MinScore: 1, MinStrength: 0.2}, NewSelection("X"))

	doc := store.View()
	res.Apply(doc)

	byID := map[string]graph.ViewNode{}
	for _, n := range doc.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, "selected", byID["X"].State)
	assert.True(t, byID["Y"].Visible)
	assert.False(t, byID["Z"].Visible)
	assert.Zero(t, byID["Z"].Size)
	assert.Equal(t, 2, doc.Meta.Stats.ActiveNodes)
	assert.Equal(t, []string{"X"}, doc.Meta.Stats.Selected)

	for _, l := range doc.Links {
		if l.Target == "Z" || l.Source == "Z" {
			assert.True(t, l.Hidden)
		}
	}
}

// Property checks over a larger generated graph

func randomFilter(rng *rand.Rand) FilterState {
	f := FilterState{
		MinStrength:      []float64{0, 0.2, 0.5}[rng.Intn(3)],
		MinScore:         6 + float64(rng.Intn(4)),
		AwardWinningOnly: rng.Intn(5) == 0,
	}
	if rng.Intn(3) == 0 {
		f = f.WithGenres([]string{"Action", "Drama", "Romance", "Horror"}[rng.Intn(4)])
	}
	return f
}

func randomSelection(rng *rand.Rand, store *graph.Store, n int) []string {
	nodes := store.Nodes()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, nodes[rng.Intn(len(nodes))].ID)
	}
	return ids
}

func TestProperty_SelectionAlwaysActive(t *testing.T) {
	store := mgtest.RingStore(t, 60)
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 200; i++ {
		sel := NewSelection(randomSelection(rng, store, 1+rng.Intn(3))...)
		res := Resolve(store, randomFilter(rng), sel)
		for _, id := range sel.IDs() {
			assert.True(t, res.IsActive(id), "selected %s must be active", id)
		}
	}
}

func TestProperty_AwardOnlyWithoutSelection(t *testing.T) {
	nodes := mgtest.RingNodes(40)
	for i := range nodes {
		if i%3 == 0 {
			nodes[i].Genres = append(nodes[i].Genres, mgtest.AwardTag)
		}
	}
	store := graph.NewStore()
	_, err := store.Load(nodes, mgtest.RingEdges(40), graph.LoadOptions{MinNodeSize: 3, MaxNodeSize: 15})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		f := randomFilter(rng)
		f.AwardWinningOnly = true
		res := Resolve(store, f, NewSelection())
		for _, id := range res.Active() {
			n, _ := store.Node(id)
			assert.True(t, n.HasGenre(mgtest.AwardTag), id)
		}
	}
}

func TestProperty_IntersectionMonotonicity(t *testing.T) {
	store := mgtest.RingStore(t, 60)
	rng := rand.New(rand.NewSource(23))

	for i := 0; i < 200; i++ {
		f := randomFilter(rng)
		ids := randomSelection(rng, store, 2)
		if ids[0] == ids[1] {
			continue
		}
		before := Resolve(store, f, NewSelection(ids[0]))
		after := Resolve(store, f, NewSelection(ids...))

		for _, id := range after.Active() {
			if id == ids[1] {
				continue
			}
			assert.True(t, before.IsActive(id), "%s appeared after adding %s", id, ids[1])
		}
	}
}

func TestProperty_ToggleTwiceIsIdentity(t *testing.T) {
	store := mgtest.RingStore(t, 60)
	rng := rand.New(rand.NewSource(31))

	for i := 0; i < 100; i++ {
		f := randomFilter(rng)
		sel := NewSelection(randomSelection(rng, store, rng.Intn(3))...)
		before := Resolve(store, f, sel)

		id := randomSelection(rng, store, 1)[0]
		if sel.Contains(id) {
			continue
		}
		sel.Toggle(id)
		sel.Toggle(id)
		after := Resolve(store, f, sel)

		assert.Equal(t, before.Active(), after.Active())
	}
}
