package visibility

// Selection is the ordered set of selected node ids.
// Order matters: it is the intersection order.
type Selection struct {
	ids []string
}

// NewSelection creates a selection, ignoring duplicate ids
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle adds id if absent, removes it if present.
// Returns true when id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id if present
func (s *Selection) Remove(id string) {
	if s.Contains(id) {
		s.Toggle(id)
	}
}

// Clear empties the selection
func (s *Selection) Clear() { s.ids = nil }

// Contains reports whether id is selected
func (s *Selection) Contains(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of selected ids
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected ids in selection order
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
