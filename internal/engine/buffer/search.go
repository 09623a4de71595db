package buffer

import (
	"github.com/dshills/tandem/internal/engine/rope"
	"github.com/dshills/tandem/internal/engine/selection"
)

// candidate is a partial match that started at begin and has matched the
// first n characters of the query.
type candidate struct {
	begin int
	n     int
}

// Search streams the occurrences of a query through a rope, overlapping
// ones included. It keeps one live candidate per offset where a match may
// have started, so it holds at most len(query) candidates and never looks
// back. A Search is forward only and cannot be restarted.
type Search struct {
	query      []rune
	runes      *rope.RuneIterator
	candidates []candidate
}

// NewSearch searches r for query. An empty query matches nothing.
func NewSearch(r rope.Rope, query string) *Search {
	return &Search{query: []rune(query), runes: r.RunesAt(0)}
}

// Next returns the next match.
func (s *Search) Next() (selection.Region, bool) {
	if len(s.query) == 0 {
		return selection.Region{}, false
	}
	for {
		c, ok := s.runes.Next()
		if !ok {
			s.candidates = nil
			return selection.Region{}, false
		}
		offset := s.runes.Offset() - 1
		s.candidates = append(s.candidates, candidate{begin: offset})

		var match selection.Region
		found := false
		for i := 0; i < len(s.candidates); {
			cand := &s.candidates[i]
			if s.query[cand.n] != c {
				s.remove(i)
				continue
			}
			cand.n++
			if cand.n == len(s.query) {
				match, _ = selection.II(cand.begin, offset)
				found = true
				s.remove(i)
				continue
			}
			i++
		}
		if found {
			return match, true
		}
	}
}

// remove drops candidate i by swapping in the last one.
func (s *Search) remove(i int) {
	last := len(s.candidates) - 1
	s.candidates[i] = s.candidates[last]
	s.candidates = s.candidates[:last]
}

// All drains the search.
func (s *Search) All() []selection.Region {
	var out []selection.Region
	for {
		r, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, r)
	}
}
