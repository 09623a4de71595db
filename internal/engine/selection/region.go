package selection

import (
	"errors"
	"fmt"
)

// ErrInvertedRange is returned when a region would end before it begins.
var ErrInvertedRange = errors.New("inverted range")

// Region is an inclusive interval of character offsets. Reversed records
// that the anchor sits at Last and the head at Begin.
type Region struct {
	begin    int
	last     int
	reversed bool
}

// II builds the inclusive region [begin, last].
func II(begin, last int) (Region, error) {
	if begin < 0 || begin > last {
		return Region{}, fmt.Errorf("%w: [%d, %d]", ErrInvertedRange, begin, last)
	}
	return Region{begin: begin, last: last}, nil
}

// IE builds the region [begin, end). A region is never empty, so end must
// be greater than begin.
func IE(begin, end int) (Region, error) {
	if end <= begin {
		return Region{}, fmt.Errorf("%w: [%d, %d)", ErrInvertedRange, begin, end)
	}
	return II(begin, end-1)
}

// Unit returns a bare cursor at offset.
func Unit(offset int) Region {
	offset = max(offset, 0)
	return Region{begin: offset, last: offset}
}

// Begin returns the first offset of the region.
func (r Region) Begin() int { return r.begin }

// Last returns the final offset of the region, inclusive.
func (r Region) Last() int { return r.last }

// End returns the exclusive end offset.
func (r Region) End() int { return r.last + 1 }

// Len returns the number of offsets covered.
func (r Region) Len() int { return r.last - r.begin + 1 }

// IsUnit reports whether the region is a bare cursor.
func (r Region) IsUnit() bool { return r.begin == r.last }

// Reversed reports whether the region was made right to left.
func (r Region) Reversed() bool { return r.reversed }

// Reverse returns the region with its direction flipped.
func (r Region) Reverse() Region {
	r.reversed = !r.reversed
	return r
}

// Head returns the moving end of the region.
func (r Region) Head() int {
	if r.reversed {
		return r.begin
	}
	return r.last
}

// Contains reports whether offset lies in the region.
func (r Region) Contains(offset int) bool {
	return r.begin <= offset && offset <= r.last
}

// Touches reports whether the two regions overlap or are adjacent.
func (r Region) Touches(other Region) bool {
	return r.begin <= other.last+1 && other.begin <= r.last+1
}

// Union returns the smallest region covering both, keeping r's direction.
func (r Region) Union(other Region) Region {
	return Region{begin: min(r.begin, other.begin), last: max(r.last, other.last), reversed: r.reversed}
}

// Intersect returns the overlap of two regions. ok is false when they are
// disjoint.
func (r Region) Intersect(other Region) (Region, bool) {
	begin, last := max(r.begin, other.begin), min(r.last, other.last)
	if begin > last {
		return Region{}, false
	}
	return Region{begin: begin, last: last, reversed: r.reversed}, true
}

// WithBegin moves the start of the region, keeping its last offset.
func (r Region) WithBegin(begin int) (Region, error) {
	out, err := II(begin, r.last)
	out.reversed = r.reversed
	return out, err
}

// At returns a region of the same length and direction starting at begin.
func (r Region) At(begin int) Region {
	begin = max(begin, 0)
	return Region{begin: begin, last: begin + r.Len() - 1, reversed: r.reversed}
}

// TranslateBy shifts both ends by delta, saturating at zero. The result is
// always valid, though it shrinks when the start would go negative.
func (r Region) TranslateBy(delta int) Region {
	return Region{begin: max(r.begin+delta, 0), last: max(r.last+delta, 0), reversed: r.reversed}
}

// ClampLast caps the last offset at limit without moving begin.
func (r Region) ClampLast(limit int) Region {
	r.last = max(min(r.last, limit), r.begin)
	return r
}

func (r Region) String() string {
	if r.reversed {
		return fmt.Sprintf("[%d, %d]r", r.begin, r.last)
	}
	return fmt.Sprintf("[%d, %d]", r.begin, r.last)
}
