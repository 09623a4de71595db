package selection

import "sort"

// Selection is a normalized set of regions: sorted by offset, pairwise
// disjoint and never adjacent.
type Selection struct {
	regions []Region
}

// New builds a selection from regions, merging as it goes.
func New(regions ...Region) Selection {
	var s Selection
	for _, r := range regions {
		s.Insert(r)
	}
	return s
}

// Insert adds a region, merging it with every region it touches.
func (s *Selection) Insert(r Region) {
	// first region that could touch r
	i := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].last+1 >= r.begin
	})
	j := i
	for j < len(s.regions) && s.regions[j].Touches(r) {
		r = r.Union(s.regions[j])
		j++
	}
	if i == j {
		s.regions = append(s.regions, Region{})
		copy(s.regions[i+1:], s.regions[i:])
		s.regions[i] = r
		return
	}
	s.regions[i] = r
	s.regions = append(s.regions[:i+1], s.regions[j:]...)
}

// Regions returns the regions in ascending order. The slice must not be
// modified.
func (s Selection) Regions() []Region {
	return s.regions
}

// Len returns the number of regions.
func (s Selection) Len() int {
	return len(s.regions)
}

// IsEmpty reports whether the selection has no regions.
func (s Selection) IsEmpty() bool {
	return len(s.regions) == 0
}

// First returns the lowest region. ok is false for an empty selection.
func (s Selection) First() (Region, bool) {
	if len(s.regions) == 0 {
		return Region{}, false
	}
	return s.regions[0], true
}

// Map applies f to every region and renormalizes the result.
func (s Selection) Map(f func(Region) Region) Selection {
	var out Selection
	for _, r := range s.regions {
		out.Insert(f(r))
	}
	return out
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	return Selection{regions: append([]Region(nil), s.regions...)}
}

// Clamp pulls every region into [0, limit], the valid cursor slots of a
// buffer of length limit. Regions squeezed together merge. s is returned
// unchanged when it already fits.
func (s Selection) Clamp(limit int) Selection {
	if n := len(s.regions); n == 0 || s.regions[n-1].last <= limit {
		return s
	}
	return s.Map(func(r Region) Region {
		r.begin = min(r.begin, limit)
		r.last = min(r.last, limit)
		return r
	})
}
