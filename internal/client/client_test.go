package client

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

	"github.com/dshills/tandem/internal/config"
	"github.com/dshills/tandem/internal/editor"
	"github.com/dshills/tandem/internal/input"
	"github.com/dshills/tandem/internal/input/key"
	"github.com/dshills/tandem/internal/renderer/backend"
	"github.com/dshills/tandem/internal/server"
)

func startServer(t *testing.T) (string, *editor.Editor) {
	t.Helper()
	km, err := config.Default().BuildKeymap()
	if err != nil {
		t.Fatal(err)
	}
	ed := editor.New(editor.WithKeymap(km))
	ts := httptest.NewServer(server.New(ed, server.WithFrameInterval(time.Millisecond)))
	t.Cleanup(ts.Close)
	return strings.TrimPrefix(ts.URL, "http://"), ed
}

// run starts c in the background and returns a channel with its result.
func run(ctx context.Context, c *Client, addr string, paths ...string) <-chan error {
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, addr, paths) }()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("client did not finish")
		return nil
	}
}

// waitNoWindows waits for the server to drop the window of a finished
// session, which happens after the client has already returned.
func waitNoWindows(t *testing.T, ed *editor.Editor) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, windows := ed.Len(); windows == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("server kept the window of a finished session")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func keys(be *backend.NullBackend, specs ...string) {
	for _, spec := range specs {
		be.PostEvent(input.KeyEvent(key.MustParse(spec)))
	}
}

func TestPing(t *testing.T) {
	addr, _ := startServer(t)
	if !Ping(context.Background(), addr) {
		t.Errorf("Ping(%s) = false for a running server", addr)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	free := ln.Addr().String()
	ln.Close()
	if Ping(context.Background(), free) {
		t.Errorf("Ping(%s) = true with nothing listening", free)
	}
}

func TestRunEditsFile(t *testing.T) {
	addr, ed := startServer(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "todo.txt"), []byte("milk\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	be := backend.NewNullBackend(40, 10)
	c := New(be, WithCwd(dir))
	done := run(context.Background(), c, addr, "todo.txt")

	keys(be, "e", "g", "g", "s", "enter", "ctrl+s", "ctrl+q")
	if err := wait(t, done); err != nil {
		t.Fatalf("Run = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "todo.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "eggs\nmilk\n" {
		t.Errorf("file = %q", data)
	}
	select {
	case <-be.Done():
	default:
		t.Error("Run left the terminal initialized")
	}
	waitNoWindows(t, ed)
}

func TestRunRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no sessions today", http.StatusBadRequest)
	}))
	defer ts.Close()

	be := backend.NewNullBackend(10, 5)
	err := New(be).Run(context.Background(), strings.TrimPrefix(ts.URL, "http://"), nil)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("Run = %v, want ErrRejected", err)
	}
	if !strings.Contains(err.Error(), "no sessions today") {
		t.Errorf("error lacks the server's reason: %v", err)
	}
}

func TestRunEndsOnCancel(t *testing.T) {
	addr, ed := startServer(t)
	be := backend.NewNullBackend(20, 5)
	ctx, cancel := context.WithCancel(context.Background())
	done := run(ctx, New(be), addr)

	deadline := time.Now().Add(5 * time.Second)
	for len(be.Output()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no frame arrived")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := wait(t, done); err != nil {
		t.Errorf("Run = %v after cancel", err)
	}
	waitNoWindows(t, ed)
}

func TestRunEndsWhenTerminalCloses(t *testing.T) {
	addr, _ := startServer(t)
	be := backend.NewNullBackend(20, 5)
	done := run(context.Background(), New(be), addr)

	time.Sleep(20 * time.Millisecond)
	be.Shutdown()
	if err := wait(t, done); err != nil {
		t.Errorf("Run = %v after the terminal closed", err)
	}
}

func TestRunDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	be := backend.NewNullBackend(10, 5)
	if err := New(be).Run(context.Background(), addr, nil); err == nil {
		t.Fatal("Run succeeded with no server")
	}
	select {
	case <-be.Done():
	default:
		t.Error("terminal not restored after a failed dial")
	}
}
