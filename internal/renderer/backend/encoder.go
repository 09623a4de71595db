package backend

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/terminfo"
	"github.com/rivo/uniseg"

	"github.com/dshills/tandem/internal/renderer/core"
)

// defaultTerm is used when the client's terminal type is unknown.
const defaultTerm = "xterm-256color"

// Encoder turns frames into terminal output for one remote terminal. It
// remembers what the terminal shows, so each Encode emits only the
// differences from the previous frame.
type Encoder struct {
	mu     sync.Mutex
	tty    *memTTY
	screen tcell.Screen
	term   string
	width  int
	height int
	full   bool
	closed bool
}

// NewEncoder creates an encoder for a terminal of type term (a terminfo
// name such as "xterm-256color") and the given size. Unknown terminal
// types fall back to xterm-256color.
func NewEncoder(term string, width, height int) (*Encoder, error) {
	ti, name, err := lookupTerminfo(term)
	if err != nil {
		return nil, err
	}
	tty := newMemTTY(width, height)
	screen, err := tcell.NewTerminfoScreenFromTtyTerminfo(tty, ti)
	if err != nil {
		return nil, fmt.Errorf("create screen for %s: %w", name, err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen for %s: %w", name, err)
	}
	// The client has already set up its terminal; only frames are sent.
	tty.take()
	return &Encoder{
		tty:    tty,
		screen: screen,
		term:   name,
		width:  width,
		height: height,
		full:   true,
	}, nil
}

func lookupTerminfo(term string) (*terminfo.Terminfo, string, error) {
	if term != "" {
		if ti, err := tcell.LookupTerminfo(term); err == nil {
			return ti, term, nil
		}
	}
	ti, err := tcell.LookupTerminfo(defaultTerm)
	if err != nil {
		return nil, "", fmt.Errorf("lookup terminfo %s: %w", defaultTerm, err)
	}
	return ti, defaultTerm, nil
}

// Term returns the terminfo name in use.
func (e *Encoder) Term() string {
	return e.term
}

// Size returns the size of the remote terminal as last encoded.
func (e *Encoder) Size() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// Invalidate makes the next Encode repaint the whole screen.
func (e *Encoder) Invalidate() {
	e.mu.Lock()
	e.full = true
	e.mu.Unlock()
}

// Encode paints f and returns the bytes that bring the remote terminal up
// to date. A frame of a new size, and the first frame, repaint the whole
// screen.
func (e *Encoder) Encode(f *core.Frame) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if f.Width != e.width || f.Height != e.height {
		e.width, e.height = f.Width, f.Height
		e.tty.setSize(f.Width, f.Height)
		e.full = true
	}

	e.paint(f)
	if e.full {
		e.screen.Sync()
		e.full = false
	} else {
		e.screen.Show()
	}
	return e.tty.take(), nil
}

func (e *Encoder) paint(f *core.Frame) {
	blank := tcell.StyleDefault
	for y := 0; y < e.height; y++ {
		x := 0
		if y < len(f.Lines) {
			line := f.Lines[y]
			for _, span := range line.Spans {
				x = e.paintSpan(x, y, span)
			}
			blank = convertStyle(line.Fill)
		} else {
			blank = tcell.StyleDefault
		}
		for ; x < e.width; x++ {
			e.screen.SetContent(x, y, ' ', nil, blank)
		}
	}
	if f.Cursor.Visible {
		e.screen.ShowCursor(f.Cursor.X, f.Cursor.Y)
	} else {
		e.screen.HideCursor()
	}
}

// paintSpan writes one grapheme per cell group starting at column x and
// returns the column after the span. Text past the right edge is dropped.
func (e *Encoder) paintSpan(x, y int, span core.Span) int {
	style := convertStyle(span.Style)
	g := uniseg.NewGraphemes(span.Text)
	for g.Next() && x < e.width {
		runes := g.Runes()
		w := g.Width()
		if w < 1 || runes[0] < ' ' {
			// control characters would move the remote cursor
			runes, w = []rune{' '}, 1
		}
		if x+w > e.width {
			break
		}
		e.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}

// Close releases the screen.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.screen.Fini()
}

// convertStyle converts a core style to tcell.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background))

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}
