package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dshills/tandem/internal/editor"
	"github.com/dshills/tandem/internal/input"
	"github.com/dshills/tandem/internal/logging"
	"github.com/dshills/tandem/internal/protocol"
)

const (
	// inputQueue bounds the events read ahead of the editor.
	inputQueue = 64

	writeWait = 5 * time.Second
)

// session serves one client connection.
type session struct {
	id       uuid.UUID
	conn     *websocket.Conn
	editor   *editor.Editor
	logger   *logging.Logger
	interval time.Duration

	// readErr is why the reader stopped. It is written before events is
	// closed.
	readErr error
}

func newSession(s *Server, id uuid.UUID, conn *websocket.Conn) *session {
	return &session{
		id:       id,
		conn:     conn,
		editor:   s.editor,
		logger:   s.logger.WithComponent("session").WithField("window", id.String()),
		interval: s.interval,
	}
}

// run applies input and sends output until the client goes away, the
// user quits or ctx is done. Pending input always goes first; output is
// rendered only once the queue is empty. A client that closes the
// connection cleanly ends the session with a nil error.
func (s *session) run(ctx context.Context) error {
	s.logger.Info("session started from %s", s.conn.RemoteAddr())

	done := make(chan struct{})
	defer close(done)
	events := make(chan input.Event, inputQueue)
	go s.read(events, done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if end, err := s.handle(ev, ok); end {
				return err
			}
			continue
		default:
		}

		out, err := s.editor.Render(s.id)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if len(out) > 0 {
			if err := s.write(out); err != nil {
				return err
			}
			continue
		}

		select {
		case ev, ok := <-events:
			if end, err := s.handle(ev, ok); end {
				return err
			}
		case <-ticker.C:
		case <-ctx.Done():
			s.close(websocket.CloseGoingAway, "server shutting down")
			return nil
		}
	}
}

// handle applies one received event. ok is false once the reader has
// stopped. end reports whether the session is over.
func (s *session) handle(ev input.Event, ok bool) (end bool, err error) {
	if !ok {
		return true, s.readErr
	}
	quit, err := s.editor.Feed(s.id, ev)
	if err != nil {
		return true, fmt.Errorf("feed %s: %w", ev, err)
	}
	if quit {
		s.close(websocket.CloseNormalClosure, "quit")
		return true, nil
	}
	return false, nil
}

// read decodes messages into events until the connection fails or
// carries something that is not an input event.
func (s *session) read(events chan<- input.Event, done <-chan struct{}) {
	defer close(events)
	for {
		typ, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.readErr = fmt.Errorf("read: %w", err)
			}
			return
		}
		if typ != websocket.BinaryMessage {
			s.logger.Debug("ignoring message of type %d", typ)
			continue
		}
		ev, err := protocol.DecodeEvent(data)
		if err != nil {
			s.readErr = err
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (s *session) write(out []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, out); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// close tells the client the session is over.
func (s *session) close(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		s.logger.Debug("sending close: %v", err)
	}
}
