package backend

import (
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tandem/internal/input"
)

// Terminal implements Backend on the local terminal using tcell. The tcell
// screen is used for setup and input only: frames arrive already encoded
// and are written straight to the tty, so Show is never called.
type Terminal struct {
	screen tcell.Screen
	tty    tcell.Tty
	term   string

	mu       sync.Mutex
	shutdown sync.Once
	closed   bool
}

var _ Backend = (*Terminal)(nil)

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen, term: os.Getenv("TERM")}, nil
}

// NewTerminalFromTty creates a terminal backend on tty using the terminfo
// entry for term.
func NewTerminalFromTty(tty tcell.Tty, term string) (*Terminal, error) {
	ti, name, err := lookupTerminfo(term)
	if err != nil {
		return nil, err
	}
	screen, err := tcell.NewTerminfoScreenFromTtyTerminfo(tty, ti)
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen, term: name}, nil
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	// Wheel events only; clicks and drags are left to the terminal.
	t.screen.EnableMouse(tcell.MouseButtonEvents)

	tty, ok := t.screen.Tty()
	if !ok {
		t.screen.Fini()
		return ErrClosed
	}
	t.tty = tty
	return nil
}

func (t *Terminal) Shutdown() {
	t.shutdown.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		t.screen.Fini()
	})
}

func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

func (t *Terminal) Term() string {
	if t.term == "" {
		return defaultTerm
	}
	return t.term
}

// PollEvent returns the next event the editor understands. Events with no
// input.Event equivalent are skipped.
func (t *Terminal) PollEvent() (input.Event, bool) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return input.Event{}, false
		}
		if e, ok := convertEvent(ev); ok {
			return e, true
		}
	}
}

// Write sends encoded frame bytes to the terminal.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.tty == nil {
		return 0, ErrClosed
	}
	return t.tty.Write(p)
}
