// Package client attaches a local terminal to a tandem server.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dshills/tandem/internal/editor"
	"github.com/dshills/tandem/internal/logging"
	"github.com/dshills/tandem/internal/protocol"
	"github.com/dshills/tandem/internal/renderer/backend"
)

// ErrRejected is returned when the server refuses the session handshake.
var ErrRejected = errors.New("server rejected the session")

const (
	pingTimeout = time.Second
	closeWait   = time.Second
)

// Ping reports whether a tandem server answers at addr.
func Ping(ctx context.Context, addr string) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "http://"+addr+protocol.Path, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Client runs one session from a local terminal.
type Client struct {
	backend backend.Backend
	logger  *logging.Logger
	dialer  *websocket.Dialer
	cwd     string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCwd sets the directory relative paths are resolved against. It
// defaults to the working directory of the process.
func WithCwd(dir string) Option {
	return func(c *Client) {
		c.cwd = dir
	}
}

// New creates a client drawing on be.
func New(be backend.Backend, opts ...Option) *Client {
	c := &Client{
		backend: be,
		logger:  logging.GetLogger(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
			ReadBufferSize:   64 * 1024,
			WriteBufferSize:  1024,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("client")
	return c
}

// Run opens paths in a session with the server at addr and relays
// between it and the terminal until the server ends the session, the
// terminal goes away or ctx is done.
func (c *Client) Run(ctx context.Context, addr string, paths []string) error {
	cwd := c.cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		cwd = wd
	}

	if err := c.backend.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer c.backend.Shutdown()

	width, height := c.backend.Size()
	args := editor.WindowArgs{
		Width:  width,
		Height: height,
		Term:   c.backend.Term(),
		Cwd:    cwd,
		Paths:  paths,
	}
	conn, err := c.dial(ctx, addr, args)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.logger.Info("attached to %s as %dx%d %s", addr, width, height, args.Term)

	inputDone := make(chan error, 1)
	outputDone := make(chan error, 1)
	go func() { inputDone <- c.sendInput(conn) }()
	go func() { outputDone <- c.copyOutput(conn) }()

	select {
	case err := <-outputDone:
		return err
	case err := <-inputDone:
		c.close(conn)
		c.await(outputDone)
		return err
	case <-ctx.Done():
		c.close(conn)
		c.await(outputDone)
		return nil
	}
}

func (c *Client) dial(ctx context.Context, addr string, args editor.WindowArgs) (*websocket.Conn, error) {
	h := http.Header{}
	if err := protocol.SetWindowArgs(h, args); err != nil {
		return nil, err
	}
	conn, resp, err := c.dialer.DialContext(ctx, "ws://"+addr+protocol.Path, h)
	if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: %s", ErrRejected, resp.Status, strings.TrimSpace(string(body)))
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	resp.Body.Close()
	return conn, nil
}

// sendInput forwards terminal input until the backend stops delivering it.
func (c *Client) sendInput(conn *websocket.Conn) error {
	for {
		ev, ok := c.backend.PollEvent()
		if !ok {
			return nil
		}
		b, err := protocol.EncodeEvent(ev)
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
			return fmt.Errorf("send %s: %w", ev, err)
		}
	}
}

// copyOutput writes every frame the server sends to the terminal. A close
// message from the server ends it without error.
func (c *Client) copyOutput(conn *websocket.Conn) error {
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("server closed the session")
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}
		if typ != websocket.BinaryMessage {
			c.logger.Debug("ignoring message of type %d", typ)
			continue
		}
		if _, err := c.backend.Write(data); err != nil {
			if errors.Is(err, backend.ErrClosed) {
				return nil
			}
			return fmt.Errorf("terminal: %w", err)
		}
	}
}

func (c *Client) close(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait)); err != nil {
		c.logger.Debug("sending close: %v", err)
	}
}

// await gives the server a moment to acknowledge a close.
func (c *Client) await(done <-chan error) {
	select {
	case err := <-done:
		if err != nil {
			c.logger.Debug("after close: %v", err)
		}
	case <-time.After(closeWait):
	}
}
