// Package server hosts the shared Editor for tandem clients.
//
// Each client holds one websocket session. The server decodes the
// client's WindowArgs from the upgrade request, opens a Window for it and
// then feeds the client's input to the Editor and streams back rendered
// terminal output until the session ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dshills/tandem/internal/config"
	"github.com/dshills/tandem/internal/editor"
	"github.com/dshills/tandem/internal/logging"
	"github.com/dshills/tandem/internal/protocol"
)

// DefaultFrameInterval is how long an idle session waits before checking
// for output again.
const DefaultFrameInterval = 16 * time.Millisecond

// Server accepts client sessions. It implements http.Handler.
type Server struct {
	editor   *editor.Editor
	logger   *logging.Logger
	interval time.Duration
	upgrader websocket.Upgrader

	// active counts open sessions. Once draining is set no session
	// starts and idle is broadcast as the count reaches zero.
	mu       sync.Mutex
	idle     *sync.Cond
	active   int
	draining bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFrameInterval sets the idle tick of sessions.
func WithFrameInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
	}
}

// New creates a server for ed.
func New(ed *editor.Editor, opts ...Option) *Server {
	s := &Server{
		editor:   ed,
		logger:   logging.GetLogger(),
		interval: DefaultFrameInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			// Clients are terminals, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.idle = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("server")
	return s
}

// Editor returns the editor sessions are served from.
func (s *Server) Editor() *editor.Editor {
	return s.editor
}

// ServeHTTP answers liveness checks and upgrades session requests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != protocol.Path {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "expected a websocket upgrade", http.StatusBadRequest)
		return
	}

	args, err := protocol.WindowArgsFromRequest(r)
	if err != nil {
		s.logger.Warn("rejecting session from %s: %v", r.RemoteAddr, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.begin() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.end()

	id, err := s.editor.NewWindow(args)
	if err != nil {
		s.logger.Error("opening window for %s: %v", r.RemoteAddr, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		s.logger.Warn("upgrade from %s: %v", r.RemoteAddr, err)
		s.closeWindow(id)
		return
	}

	sess := newSession(s, id, conn)
	if err := sess.run(r.Context()); err != nil {
		sess.logger.Warn("session ended: %v", err)
	} else {
		sess.logger.Info("session ended")
	}
	conn.Close()
	s.closeWindow(id)
}

// begin registers a session, unless the server is draining.
func (s *Server) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draining {
		return false
	}
	s.active++
	return true
}

func (s *Server) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active--
	if s.active == 0 {
		s.idle.Broadcast()
	}
}

// drain stops new sessions and waits for the open ones to end.
func (s *Server) drain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draining = true
	for s.active > 0 {
		s.idle.Wait()
	}
}

func (s *Server) closeWindow(id uuid.UUID) {
	if err := s.editor.CloseWindow(id); err != nil {
		s.logger.Debug("close window: %v", err)
	}
}

// Serve accepts sessions on ln until ctx is done, then waits for open
// sessions to end.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("listening on %s", ln.Addr())

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = srv.Shutdown(shutdownCtx)
		cancel()
	}
	// sessions watch ctx and end on their own
	s.drain()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Reload applies the keymap and theme of cfg to every session.
func (s *Server) Reload(cfg *config.Config) error {
	km, err := cfg.BuildKeymap()
	if err != nil {
		return err
	}
	theme, err := cfg.Theme.Resolve()
	if err != nil {
		return err
	}
	s.editor.SetKeymap(km)
	s.editor.SetTheme(theme)
	s.logger.Info("configuration reloaded: %d key bindings", km.Len())
	return nil
}

// WatchConfig reloads the configuration each time w reports a change,
// until ctx is done. A file that fails to load leaves the running
// configuration in place.
func (s *Server) WatchConfig(ctx context.Context, w *config.Watcher) error {
	err := w.Run(ctx, func(cfg *config.Config, err error) {
		if err == nil {
			err = s.Reload(cfg)
		}
		if err != nil {
			s.logger.Error("reloading %s: %v", w.Path(), err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
