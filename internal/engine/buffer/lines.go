package buffer

import (
	"strings"

	"github.com/dshills/tandem/internal/engine/rope"
)

// Position is the scroll anchor of a viewport: the first visible column
// and row.
type Position struct {
	X int
	Y int
}

// SubLine is the visible part of one row.
type SubLine struct {
	Row int
	// Start is the offset of the row's first character.
	Start int
	// Begin and End bound the visible characters, [Begin, End). They are
	// equal when nothing of the row is visible.
	Begin int
	End   int
	// LineEnd is the offset just past the row's last character: its
	// newline, or the end of the buffer.
	LineEnd int
	Text    string
}

// SubLines yields the rows visible through a width x height viewport
// anchored at a position. It walks the text once, carrying the absolute
// offset from row to row.
type SubLines struct {
	runes     *rope.RuneIterator
	row       int
	remaining int
	x         int
	width     int
	done      bool
}

// SubLines returns the rows of the viewport at pos.
func (b *Buffer) SubLines(pos Position, width, height int) *SubLines {
	r := b.Rope()
	pos.X, pos.Y = max(pos.X, 0), max(pos.Y, 0)
	s := &SubLines{
		row:       pos.Y,
		remaining: height,
		x:         pos.X,
		width:     max(width, 0),
		done:      pos.Y >= r.LenLines() || height <= 0,
	}
	if !s.done {
		s.runes = r.RunesAt(r.LineToChar(pos.Y))
	}
	return s
}

// Next returns the next visible row.
func (s *SubLines) Next() (SubLine, bool) {
	if s.done || s.remaining <= 0 {
		return SubLine{}, false
	}
	start := s.runes.Offset()
	var sb strings.Builder
	col := 0
	for {
		c, ok := s.runes.Next()
		if !ok {
			s.done = true
			break
		}
		if c == '\n' {
			break
		}
		if col >= s.x && col < s.x+s.width {
			sb.WriteRune(c)
		}
		col++
	}
	line := SubLine{
		Row:     s.row,
		Start:   start,
		Begin:   start + min(s.x, col),
		End:     start + min(s.x+s.width, col),
		LineEnd: start + col,
		Text:    sb.String(),
	}
	s.row++
	s.remaining--
	return line, true
}
