package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()

	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Toggle("b"))
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	assert.False(t, s.Toggle("a"))
	assert.Equal(t, []string{"b"}, s.IDs())

	assert.False(t, s.Toggle("b"))
	assert.Zero(t, s.Len())
}

func TestSelection_IDsIsACopy(t *testing.T) {
	s := NewSelection("a", "b", "a")
	ids := s.IDs()
	ids[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, s.IDs())
}

func TestSelection_ClearAndRemove(t *testing.T) {
	s := NewSelection("a", "b", "c")
	s.Remove("b")
	s.Remove("missing")
	assert.Equal(t, []string{"a", "c"}, s.IDs())

	s.Clear()
	assert.False(t, s.Contains("a"))
	assert.Zero(t, s.Len())
}

func TestRenderState_String(t *testing.T) {
	assert.Equal(t, "hidden", Hidden{}.String())
	assert.Equal(t, "dimmed", Dimmed{}.String())
	assert.Equal(t, "highlighted", Highlighted{}.String())
	assert.Equal(t, "selected", Highlighted{Selected: true}.String())
	assert.True(t, IsHidden(nil))
	assert.False(t, IsHidden(Dimmed{}))
}

func TestFilterState_WithGenres(t *testing.T) {
	f := FilterState{MinScore: 7}.WithGenres("Drama", "", "Drama", "Horror")
	assert.Equal(t, []string{"Drama", "Horror"}, f.SelectedGenres)
	assert.Equal(t, 7.0, f.MinScore)
}
