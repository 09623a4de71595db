package editor

import (
	"github.com/google/uuid"

	"github.com/dshills/tandem/internal/renderer/backend"
	"github.com/dshills/tandem/internal/renderer/core"
)

// WindowArgs describe the terminal a client attaches from and what it
// wants to open. They travel in the session handshake.
type WindowArgs struct {
	Width  int      `msgpack:"width"`
	Height int      `msgpack:"height"`
	Term   string   `msgpack:"term"`
	Cwd    string   `msgpack:"cwd"`
	Paths  []string `msgpack:"paths"`
}

// MaxSize bounds the width and height of a window. Larger sizes are
// clamped; the protocol rejects them outright.
const MaxSize = 4096

// clampSize keeps a terminal dimension within [0, MaxSize].
func clampSize(n int) int {
	return min(max(n, 0), MaxSize)
}

// Window is the set of Views shown to one client, as tabs. It always has
// at least one View.
type Window struct {
	id      uuid.UUID
	views   []*View
	active  int
	project string
	term    string
	width   int
	height  int

	encoder *backend.Encoder
	last    *core.Frame
}

func newWindow(views []*View, project string, args WindowArgs) *Window {
	return &Window{
		id:      uuid.New(),
		views:   views,
		project: project,
		term:    args.Term,
		width:   clampSize(args.Width),
		height:  clampSize(args.Height),
	}
}

// ID returns the window id.
func (w *Window) ID() uuid.UUID { return w.id }

// Views returns the views in tab order.
func (w *Window) Views() []*View { return w.views }

// Len returns the number of views.
func (w *Window) Len() int { return len(w.views) }

// ActiveIndex returns the index of the active view.
func (w *Window) ActiveIndex() int { return w.active }

// ActiveView returns the view keys go to.
func (w *Window) ActiveView() *View { return w.views[w.active] }

// Project returns the directory title, empty unless a directory was opened.
func (w *Window) Project() string { return w.project }

// Size returns the terminal size of the window.
func (w *Window) Size() (int, int) { return w.width, w.height }

// NextView activates the next tab, wrapping after the last.
func (w *Window) NextView() {
	w.active = (w.active + 1) % len(w.views)
}

// PreviousView activates the previous tab, wrapping before the first.
func (w *Window) PreviousView() {
	w.active = (w.active - 1 + len(w.views)) % len(w.views)
}

// CloseActive removes the active view. The last view cannot be closed.
func (w *Window) CloseActive() error {
	if len(w.views) == 1 {
		return ErrLastView
	}
	w.views = append(w.views[:w.active], w.views[w.active+1:]...)
	if w.active >= len(w.views) {
		w.active = len(w.views) - 1
	}
	return nil
}

func (w *Window) resize(width, height int) {
	w.width, w.height = clampSize(width), clampSize(height)
}

// textArea is the size of the region buffer text is drawn in: everything
// but the title, tab and status rows.
func (w *Window) textArea() (int, int) {
	return w.width, max(w.height-reservedRows, 0)
}

func (w *Window) close() {
	if w.encoder != nil {
		w.encoder.Close()
		w.encoder = nil
	}
}
