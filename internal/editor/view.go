package editor

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/tandem/internal/engine/buffer"
	"github.com/dshills/tandem/internal/engine/selection"
	"github.com/dshills/tandem/internal/input/keymap"
)

// untitled is the title of a View with no file.
const untitled = "Untitled"

// View shows one buffer: where it is scrolled to, what is selected, and
// whether keys edit the text or type a search query.
type View struct {
	id       uuid.UUID
	bufferID uuid.UUID
	path     string
	pos      buffer.Position
	sels     *selection.Set
	ctx      keymap.Context
	query    []rune
}

func newView(bufferID uuid.UUID, path string) *View {
	return &View{
		id:       uuid.New(),
		bufferID: bufferID,
		path:     path,
		sels:     selection.DefaultSet(),
		ctx:      keymap.ContextBuffer,
	}
}

// ID returns the view id.
func (v *View) ID() uuid.UUID { return v.id }

// BufferID returns the id of the buffer shown.
func (v *View) BufferID() uuid.UUID { return v.bufferID }

// Path returns the file path of the view, empty when untitled.
func (v *View) Path() string { return v.path }

// Title is the full path, or "Untitled".
func (v *View) Title() string {
	if v.path == "" {
		return untitled
	}
	return v.path
}

// TabTitle is the base name shown in the tab bar.
func (v *View) TabTitle() string {
	if v.path == "" {
		return untitled
	}
	return filepath.Base(v.path)
}

// Position returns the scroll position.
func (v *View) Position() buffer.Position { return v.pos }

// Selections returns the selection set. Index 0 is primary.
func (v *View) Selections() *selection.Set { return v.sels }

// Context returns the interaction context keys are resolved in.
func (v *View) Context() keymap.Context { return v.ctx }

// Query returns the search query typed so far.
func (v *View) Query() string { return string(v.query) }

func (v *View) beginSearch() {
	v.ctx = keymap.ContextSearch
	v.query = v.query[:0]
}

func (v *View) endSearch() {
	v.ctx = keymap.ContextBuffer
	v.query = v.query[:0]
}

func (v *View) pushQuery(r rune) {
	v.query = append(v.query, r)
}

func (v *View) popQuery() {
	if n := len(v.query); n > 0 {
		v.query = v.query[:n-1]
	}
}

// scroll moves the viewport. y stops two rows short of the end of the
// buffer so the last line stays on screen; neither axis goes below zero.
func (v *View) scroll(buf *buffer.Buffer, dx, dy int) {
	maxY := max(buf.LenLines()-2, 0)
	v.pos.Y = min(max(v.pos.Y+dy, 0), maxY)
	v.pos.X = max(v.pos.X+dx, 0)
}

// reveal scrolls just enough to bring the primary cursor into a
// width x height viewport.
func (v *View) reveal(buf *buffer.Buffer, width, height int) {
	r, ok := v.sels.Primary().First()
	if !ok || width <= 0 || height <= 0 {
		return
	}
	row, col := buf.RowCol(r.Head())
	switch {
	case row < v.pos.Y:
		v.pos.Y = row
	case row >= v.pos.Y+height:
		v.pos.Y = row - height + 1
	}
	switch {
	case col < v.pos.X:
		v.pos.X = col
	case col >= v.pos.X+width:
		v.pos.X = col - width + 1
	}
}
