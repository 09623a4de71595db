// Package app wires configuration, logging, the server and the client
// into the tandem program.
//
// In the default mode the program attaches the local terminal to a
// running server, or starts one in-process when none answers and runs
// both until either ends. In serve-only mode it runs the server alone.
package app

import (
	"context"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/dshills/tandem/internal/client"
	"github.com/dshills/tandem/internal/config"
	"github.com/dshills/tandem/internal/editor"
	"github.com/dshills/tandem/internal/logging"
	"github.com/dshills/tandem/internal/renderer/backend"
	"github.com/dshills/tandem/internal/server"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses the
	// built-in defaults and disables reloading.
	ConfigPath string

	// LogPath is a file logs are appended to.
	LogPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Host and Port override the configured address when set.
	Host string
	Port uint16

	// ServeOnly runs the server without a client.
	ServeOnly bool

	// Paths are the files and directories to open.
	Paths []string
}

// Application holds what the program needs for one run.
type Application struct {
	opts    Options
	config  *config.Config
	logger  *logging.Logger
	closers []io.Closer
	backend backend.Backend
}

// New loads the configuration and sets up logging.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, NewOperationError("load config", opts.ConfigPath, err)
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewOperationError("load config", opts.ConfigPath, err)
	}

	app := &Application{opts: opts, config: cfg}
	if err := app.setupLogging(); err != nil {
		return nil, err
	}
	return app, nil
}

// setupLogging picks the log destination. The client owns the terminal,
// so without a log file it logs nothing; a headless server logs to
// stderr.
func (app *Application) setupLogging() error {
	level := logging.ParseLogLevel(app.opts.LogLevel)
	switch {
	case app.opts.LogPath != "":
		l, closer, err := logging.OpenFile(app.opts.LogPath, level)
		if err != nil {
			return NewOperationError("open log", app.opts.LogPath, err)
		}
		app.logger = l
		app.closers = append(app.closers, closer)
	case app.opts.ServeOnly:
		cfg := logging.DefaultLoggerConfig()
		cfg.Level = level
		cfg.Output = os.Stderr
		app.logger = logging.NewLogger(cfg)
	default:
		app.logger = logging.NullLogger
	}
	logging.SetLogger(app.logger)
	app.logger = app.logger.WithComponent("app")
	return nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// SetBackend sets the terminal the client draws on.
func (app *Application) SetBackend(be backend.Backend) {
	app.backend = be
}

// Shutdown releases what New opened.
func (app *Application) Shutdown() {
	logging.SetLogger(nil)
	for _, c := range app.closers {
		c.Close()
	}
	app.closers = nil
}

// Run runs the program until the session or the server ends, or ctx is
// done. A user quitting is a clean exit.
func (app *Application) Run(ctx context.Context) error {
	if app.opts.ServeOnly {
		srv, err := app.newServer()
		if err != nil {
			return err
		}
		ln, err := app.listen()
		if err != nil {
			return err
		}
		return app.serve(ctx, srv, ln)
	}

	if app.backend == nil {
		return ErrNoBackend
	}
	addr := app.dialAddr()
	if client.Ping(ctx, addr) {
		app.logger.Info("attaching to server at %s", addr)
		return app.attach(ctx, addr)
	}
	return app.launch(ctx, addr)
}

// launch starts a server in-process and attaches to it. Whichever of the
// two ends first ends the run.
func (app *Application) launch(ctx context.Context, addr string) error {
	srv, err := app.newServer()
	if err != nil {
		return err
	}
	// bound before the client dials
	ln, err := app.listen()
	if err != nil {
		return err
	}
	app.logger.Info("no server at %s, starting one", addr)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	served := make(chan error, 1)
	go func() { served <- app.serve(ctx, srv, ln) }()

	attached := make(chan error, 1)
	go func() { attached <- app.attach(ctx, addr) }()

	select {
	case err := <-attached:
		cancel()
		<-served
		return err
	case err := <-served:
		cancel()
		<-attached
		return err
	}
}

func (app *Application) attach(ctx context.Context, addr string) error {
	c := client.New(app.backend, client.WithLogger(logging.GetLogger()))
	return wrapComponent("client", c.Run(ctx, addr, app.opts.Paths))
}

func (app *Application) newServer() (*server.Server, error) {
	km, err := app.config.BuildKeymap()
	if err != nil {
		return nil, NewOperationError("build keymap", app.opts.ConfigPath, err)
	}
	theme, err := app.config.Theme.Resolve()
	if err != nil {
		return nil, NewOperationError("resolve theme", app.opts.ConfigPath, err)
	}
	ed := editor.New(
		editor.WithKeymap(km),
		editor.WithTheme(theme),
		editor.WithLogger(logging.GetLogger()),
	)
	return server.New(ed, server.WithLogger(logging.GetLogger())), nil
}

func (app *Application) listen() (net.Listener, error) {
	addr := app.config.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, NewOperationError("listen", addr, err)
	}
	return ln, nil
}

// serve runs srv on ln, reloading the configuration file as it changes.
func (app *Application) serve(ctx context.Context, srv *server.Server, ln net.Listener) error {
	if app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.opts.ConfigPath)
		if err != nil {
			// editing still works, only reloading is lost
			app.logger.Warn("not watching %s: %v", app.opts.ConfigPath, err)
		} else {
			defer w.Close()
			go func() {
				if err := srv.WatchConfig(ctx, w); err != nil {
					app.logger.Warn("config watcher stopped: %v", err)
				}
			}()
		}
	}
	return wrapComponent("server", srv.Serve(ctx, ln))
}

// dialAddr is the configured address with an unspecified host replaced
// by loopback.
func (app *Application) dialAddr() string {
	host := app.config.Host
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(int(app.config.Port)))
}
