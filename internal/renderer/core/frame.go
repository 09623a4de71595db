package core

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Span is a run of text in one style.
type Span struct {
	Text  string
	Style Style
}

// Width returns the number of terminal cells the span occupies.
func (s Span) Width() int {
	return uniseg.StringWidth(s.Text)
}

// Line is one screen row as a sequence of spans, painted left to right.
// Cells past the last span are blank in the style of Fill.
type Line struct {
	Spans []Span
	Fill  Style
}

// Append adds a span, coalescing it into the previous one when the styles
// match. Empty text is dropped.
func (l *Line) Append(text string, style Style) {
	if text == "" {
		return
	}
	if n := len(l.Spans); n > 0 && l.Spans[n-1].Style.Equals(style) {
		l.Spans[n-1].Text += text
		return
	}
	l.Spans = append(l.Spans, Span{Text: text, Style: style})
}

// Width returns the number of cells covered by the spans.
func (l Line) Width() int {
	w := 0
	for _, s := range l.Spans {
		w += s.Width()
	}
	return w
}

// String returns the text of the line without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Equals returns true if two lines paint identically.
func (l Line) Equals(other Line) bool {
	if len(l.Spans) != len(other.Spans) || !l.Fill.Equals(other.Fill) {
		return false
	}
	for i := range l.Spans {
		if l.Spans[i].Text != other.Spans[i].Text || !l.Spans[i].Style.Equals(other.Spans[i].Style) {
			return false
		}
	}
	return true
}

// Cursor is the terminal cursor placement of a frame.
type Cursor struct {
	X, Y    int
	Visible bool
}

// Frame is a full screen of styled lines.
type Frame struct {
	Width  int
	Height int
	Lines  []Line
	Cursor Cursor
}

// NewFrame creates a frame of height blank lines.
func NewFrame(width, height int) *Frame {
	width, height = max(width, 0), max(height, 0)
	return &Frame{Width: width, Height: height, Lines: make([]Line, height)}
}

// Line returns row for editing, or nil when row is off screen.
func (f *Frame) Line(row int) *Line {
	if row < 0 || row >= len(f.Lines) {
		return nil
	}
	return &f.Lines[row]
}

// Equals returns true if two frames have the same size and content.
func (f *Frame) Equals(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.Width != other.Width || f.Height != other.Height || len(f.Lines) != len(other.Lines) ||
		f.Cursor != other.Cursor {
		return false
	}
	for i := range f.Lines {
		if !f.Lines[i].Equals(other.Lines[i]) {
			return false
		}
	}
	return true
}

// ShowCursor places a visible cursor at (x, y).
func (f *Frame) ShowCursor(x, y int) {
	f.Cursor = Cursor{X: x, Y: y, Visible: true}
}

// Text returns the frame's rows as plain strings.
func (f *Frame) Text() []string {
	rows := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		rows[i] = l.String()
	}
	return rows
}
