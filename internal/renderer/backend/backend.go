// Package backend connects frames and input to real terminals.
//
// Two halves live here. Terminal is the client side: it owns the local
// tty, decodes its input into input.Events and copies already encoded
// frame bytes to it. Encoder is the server side: it keeps a terminfo
// screen over an in-memory tty and turns each core.Frame into the escape
// sequences that repaint only what changed.
package backend

import (
	"errors"
	"sync"

	"github.com/dshills/tandem/internal/input"
)

// ErrClosed is returned by operations on a shut down backend.
var ErrClosed = errors.New("backend closed")

// Backend is a local terminal the client drives.
type Backend interface {
	// Init takes over the terminal.
	Init() error

	// Shutdown restores the terminal. It is safe to call more than once.
	Shutdown()

	// Size returns the terminal size in cells.
	Size() (width, height int)

	// Term returns the terminal type, as found in $TERM.
	Term() string

	// PollEvent blocks for the next input event. ok is false once the
	// backend is shut down.
	PollEvent() (ev input.Event, ok bool)

	// Write copies encoded frame bytes to the terminal.
	Write(p []byte) (int, error)
}

// NullBackend is an in-memory backend for testing. Events are queued with
// PostEvent and everything written is kept.
type NullBackend struct {
	width, height int
	term          string
	events        chan input.Event

	mu       sync.Mutex
	output   []byte
	done     chan struct{}
	shutdown sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		term:   defaultTerm,
		events: make(chan input.Event, 64),
		done:   make(chan struct{}),
	}
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.shutdown.Do(func() { close(b.done) })
}

func (b *NullBackend) Size() (int, int) { return b.width, b.height }

func (b *NullBackend) Term() string { return b.term }

func (b *NullBackend) PollEvent() (input.Event, bool) {
	select {
	case ev := <-b.events:
		return ev, true
	case <-b.done:
		return input.Event{}, false
	}
}

// PostEvent queues ev for PollEvent.
func (b *NullBackend) PostEvent(ev input.Event) {
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

func (b *NullBackend) Write(p []byte) (int, error) {
	select {
	case <-b.done:
		return 0, ErrClosed
	default:
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.output = append(b.output, p...)
	return len(p), nil
}

// Output returns a copy of everything written so far.
func (b *NullBackend) Output() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.output...)
}

// Done is closed when the backend is shut down.
func (b *NullBackend) Done() <-chan struct{} {
	return b.done
}
