package buffer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(s *SubLines) []SubLine {
	var out []SubLine
	for {
		l, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, l)
	}
}

func TestSubLines(t *testing.T) {
	b := NewBufferFromString("hello world\n\nabcdef\nxy")

	tests := []struct {
		name          string
		pos           Position
		width, height int
		want          []SubLine
	}{
		{
			name: "origin", pos: Position{}, width: 5, height: 2,
			want: []SubLine{
				{Row: 0, Start: 0, Begin: 0, End: 5, LineEnd: 11, Text: "hello"},
				{Row: 1, Start: 12, Begin: 12, End: 12, LineEnd: 12, Text: ""},
			},
		},
		{
			name: "scrolled right", pos: Position{X: 3, Y: 2}, width: 2, height: 5,
			want: []SubLine{
				{Row: 2, Start: 13, Begin: 16, End: 18, LineEnd: 19, Text: "de"},
				{Row: 3, Start: 20, Begin: 22, End: 22, LineEnd: 22, Text: ""},
			},
		},
		{
			name: "wide viewport", pos: Position{Y: 3}, width: 80, height: 1,
			want: []SubLine{
				{Row: 3, Start: 20, Begin: 20, End: 22, LineEnd: 22, Text: "xy"},
			},
		},
		{
			name: "past end", pos: Position{Y: 4}, width: 10, height: 3,
		},
		{
			name: "zero height", pos: Position{}, width: 10, height: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(b.SubLines(tt.pos, tt.width, tt.height))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("sub-lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSubLinesTrailingNewline(t *testing.T) {
	b := NewBufferFromString("a\n")
	got := collect(b.SubLines(Position{}, 10, 10))
	want := []SubLine{
		{Row: 0, Start: 0, Begin: 0, End: 1, LineEnd: 1, Text: "a"},
		{Row: 1, Start: 2, Begin: 2, End: 2, LineEnd: 2, Text: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
