package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dshills/tandem/internal/config"
	"github.com/dshills/tandem/internal/editor"
	"github.com/dshills/tandem/internal/input"
	"github.com/dshills/tandem/internal/input/key"
	"github.com/dshills/tandem/internal/input/keymap"
	"github.com/dshills/tandem/internal/protocol"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	km, err := config.Default().BuildKeymap()
	if err != nil {
		t.Fatal(err)
	}
	s := New(editor.New(editor.WithKeymap(km)), WithFrameInterval(time.Millisecond))
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + protocol.Path
}

func dial(t *testing.T, url string, args editor.WindowArgs) *websocket.Conn {
	t.Helper()
	h := http.Header{}
	if err := protocol.SetWindowArgs(h, args); err != nil {
		t.Fatal(err)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, h)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, ev input.Event) {
	t.Helper()
	b, err := protocol.EncodeEvent(ev)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		t.Fatalf("send %s: %v", ev, err)
	}
}

func sendKeys(t *testing.T, conn *websocket.Conn, specs ...string) {
	t.Helper()
	for _, spec := range specs {
		send(t, conn, input.KeyEvent(key.MustParse(spec)))
	}
}

// readUntilClosed reads frames until the connection ends and returns the
// error that ended it.
func readUntilClosed(t *testing.T, conn *websocket.Conn) error {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return err
		}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func noWindows(s *Server) func() bool {
	return func() bool {
		_, windows := s.Editor().Len()
		return windows == 0
	}
}

func TestPing(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Head(ts.URL + protocol.Path)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("HEAD status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + protocol.Path)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("plain GET status = %d, want 400", resp.StatusCode)
	}
}

func TestHandshakeRejectsBadHeader(t *testing.T) {
	s, ts := newTestServer(t)

	for name, h := range map[string]http.Header{
		"missing": {},
		"garbage": {protocol.HeaderWindowArgs: []string{"not base64!"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), h)
			if !errors.Is(err, websocket.ErrBadHandshake) {
				t.Fatalf("dial err = %v, want ErrBadHandshake", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
	if _, windows := s.Editor().Len(); windows != 0 {
		t.Errorf("rejected handshakes left %d windows", windows)
	}
}

func TestSessionInsertSaveQuit(t *testing.T) {
	s, ts := newTestServer(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("ello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	conn := dial(t, wsURL(ts), editor.WindowArgs{Width: 40, Height: 10, Term: "xterm-256color", Paths: []string{path}})

	typ, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if typ != websocket.BinaryMessage || !strings.Contains(string(frame), "llo") {
		t.Errorf("first frame (type %d) lacks the file content: %q", typ, frame)
	}

	sendKeys(t, conn, "h", "ctrl+s", "ctrl+q")

	err = readUntilClosed(t, conn)
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("session ended with %v, want a normal close", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\n" {
		t.Errorf("file = %q, want %q", data, "hello\n")
	}
	waitFor(t, "window to close", noWindows(s))
	if buffers, _ := s.Editor().Len(); buffers != 1 {
		t.Errorf("buffers = %d, want the saved buffer to stay open", buffers)
	}
}

func TestSessionEndsOnClientClose(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, wsURL(ts), editor.WindowArgs{Width: 20, Height: 5})
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatal(err)
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "window to close", noWindows(s))
}

func TestSessionEndsOnBadMessage(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, wsURL(ts), editor.WindowArgs{Width: 20, Height: 5})

	// text messages are not part of the protocol and are skipped
	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0xc1}); err != nil {
		t.Fatal(err)
	}
	if err := readUntilClosed(t, conn); websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("a bad message should not end the session normally: %v", err)
	}
	waitFor(t, "window to close", noWindows(s))
}

func TestSessionResize(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, wsURL(ts), editor.WindowArgs{Width: 20, Height: 5})
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatal(err)
	}

	send(t, conn, input.ResizeEvent(50, 12))
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	if _, frame, err := conn.ReadMessage(); err != nil || len(frame) == 0 {
		t.Fatalf("no repaint after resize: %v", err)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(editor.New())
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx, ln) }()

	conn := dial(t, "ws://"+ln.Addr().String()+protocol.Path, editor.WindowArgs{Width: 20, Height: 5})
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatal(err)
	}

	cancel()
	if err := readUntilClosed(t, conn); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("client saw %v, want going away", err)
	}
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Serve = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestReload(t *testing.T) {
	s := New(editor.New())
	ed := s.Editor()
	id, err := ed.NewWindow(editor.WindowArgs{Width: 20, Height: 5})
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Keymap = []keymap.Binding{keymap.NewBinding("ctrl+x", "quit")}
	if err := s.Reload(cfg); err != nil {
		t.Fatal(err)
	}
	quit, err := ed.Feed(id, input.KeyEvent(key.MustParse("ctrl+x")))
	if err != nil || !quit {
		t.Errorf("reloaded binding: quit=%v err=%v", quit, err)
	}

	bad := config.Default()
	bad.Keymap = []keymap.Binding{keymap.NewBinding("ctrl+z", "quit")}
	bad.Theme.Text.Fg = "#zz"
	if err := s.Reload(bad); err == nil {
		t.Fatal("Reload accepted an invalid theme")
	}
	if quit, _ := ed.Feed(id, input.KeyEvent(key.MustParse("ctrl+z"))); quit {
		t.Error("a failed reload changed the keymap")
	}
}

func TestDrainRefusesNewSessions(t *testing.T) {
	s, ts := newTestServer(t)
	args := editor.WindowArgs{Width: 20, Height: 5, Term: "xterm-256color"}
	conn := dial(t, wsURL(ts), args)
	waitFor(t, "session window", func() bool {
		_, windows := s.Editor().Len()
		return windows == 1
	})

	drained := make(chan struct{})
	go func() {
		s.drain()
		close(drained)
	}()
	waitFor(t, "draining", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.draining
	})

	h := http.Header{}
	if err := protocol.SetWindowArgs(h, args); err != nil {
		t.Fatal(err)
	}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), h)
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("dial while draining: err = %v, want ErrBadHandshake", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}

	select {
	case <-drained:
		t.Fatal("drain returned with a session open")
	default:
	}
	sendKeys(t, conn, "ctrl+q")
	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		t.Fatal("drain did not return after the session ended")
	}
}
