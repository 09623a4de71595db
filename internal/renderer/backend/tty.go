package backend

import (
	"bytes"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// memTTY is a tcell.Tty with no device behind it. Writes accumulate until
// taken; reads block until the screen stops or the tty is closed, since no
// input ever arrives on the server side.
type memTTY struct {
	mu     sync.Mutex
	out    bytes.Buffer
	size   tcell.WindowSize
	stop   chan struct{}
	closed bool
}

var _ tcell.Tty = (*memTTY)(nil)

func newMemTTY(width, height int) *memTTY {
	return &memTTY{size: tcell.WindowSize{Width: width, Height: height}}
}

func (t *memTTY) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return io.ErrClosedPipe
	}
	t.stop = make(chan struct{})
	return nil
}

func (t *memTTY) Stop() error { return nil }

// Drain releases a blocked Read.
func (t *memTTY) Drain() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.release()
	return nil
}

func (t *memTTY) release() {
	if t.stop == nil {
		return
	}
	select {
	case <-t.stop:
	default:
		close(t.stop)
	}
}

// NotifyResize is ignored: the encoder resizes synchronously.
func (t *memTTY) NotifyResize(func()) {}

func (t *memTTY) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size, nil
}

func (t *memTTY) Read([]byte) (int, error) {
	t.mu.Lock()
	stop := t.stop
	t.mu.Unlock()
	if stop != nil {
		<-stop
	}
	return 0, io.EOF
}

func (t *memTTY) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	return t.out.Write(p)
}

func (t *memTTY) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.release()
	return nil
}

func (t *memTTY) setSize(width, height int) {
	t.mu.Lock()
	t.size = tcell.WindowSize{Width: width, Height: height}
	t.mu.Unlock()
}

// take returns and clears the accumulated output.
func (t *memTTY) take() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out.Len() == 0 {
		return nil
	}
	p := bytes.Clone(t.out.Bytes())
	t.out.Reset()
	return p
}
