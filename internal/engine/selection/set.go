package selection

// Set is an ordered, non-empty list of selections. Index 0 is primary.
type Set struct {
	selections []Selection
}

// NewSet creates a set whose primary selection is primary.
func NewSet(primary Selection) *Set {
	return &Set{selections: []Selection{primary}}
}

// DefaultSet returns a set holding a single cursor at offset 0.
func DefaultSet() *Set {
	return NewSet(New(Unit(0)))
}

// Primary returns the primary selection.
func (s *Set) Primary() Selection {
	return s.selections[0]
}

// SetPrimary replaces the primary selection.
func (s *Set) SetPrimary(sel Selection) {
	s.selections[0] = sel
}

// Push appends a secondary selection.
func (s *Set) Push(sel Selection) {
	s.selections = append(s.selections, sel)
}

// Len returns the number of selections, always at least one.
func (s *Set) Len() int {
	return len(s.selections)
}

// All returns every selection, primary first.
func (s *Set) All() []Selection {
	return s.selections
}

// Clamp clamps every selection to [0, limit]. See Selection.Clamp.
func (s *Set) Clamp(limit int) {
	for i, sel := range s.selections {
		s.selections[i] = sel.Clamp(limit)
	}
}
