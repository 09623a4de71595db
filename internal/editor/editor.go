package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/tandem/internal/engine/buffer"
	"github.com/dshills/tandem/internal/input/keymap"
	"github.com/dshills/tandem/internal/logging"
	"github.com/dshills/tandem/internal/renderer/core"
)

// Editor is the editing state of a server: every buffer and every client
// window. It is safe for concurrent use; all calls are serialized by one
// lock.
type Editor struct {
	mu sync.Mutex

	buffers map[uuid.UUID]*buffer.Buffer
	// aliases maps file ids to the buffer holding that file when the two
	// differ: a buffer opened before its file existed keeps its path
	// based id after the first save creates the file.
	aliases map[uuid.UUID]uuid.UUID
	windows map[uuid.UUID]*Window

	keymap *keymap.Keymap
	theme  core.Theme
	logger *logging.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithKeymap sets the table keys are resolved against.
func WithKeymap(km *keymap.Keymap) Option {
	return func(e *Editor) {
		e.keymap = km
	}
}

// WithTheme sets the styles frames are painted with.
func WithTheme(theme core.Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an empty editor. Without WithKeymap no key is bound and only
// text entry works.
func New(opts ...Option) *Editor {
	e := &Editor{
		buffers: make(map[uuid.UUID]*buffer.Buffer),
		aliases: make(map[uuid.UUID]uuid.UUID),
		windows: make(map[uuid.UUID]*Window),
		theme:   core.DefaultTheme(),
		logger:  logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("editor")
	return e
}

// SetKeymap replaces the keymap, for configuration reloads.
func (e *Editor) SetKeymap(km *keymap.Keymap) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keymap = km
}

// SetTheme replaces the theme and repaints every window.
func (e *Editor) SetTheme(theme core.Theme) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.theme = theme
	for _, w := range e.windows {
		w.last = nil
	}
}

// NewWindow opens a window for a client. Each file path gets a View, files
// that do not exist yet open empty. A directory names the project instead
// of opening a View. With no file paths the window shows one untitled
// buffer.
func (e *Editor) NewWindow(args WindowArgs) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		views   []*View
		project string
	)
	for _, p := range args.Paths {
		path, err := resolvePath(args.Cwd, p)
		if err != nil {
			return uuid.Nil, err
		}
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			if project == "" {
				project = path
			}
			continue
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return uuid.Nil, fmt.Errorf("open %s: %w", path, err)
		}
		buf, err := e.openBuffer(path)
		if err != nil {
			return uuid.Nil, err
		}
		views = append(views, newView(buf.ID(), path))
	}
	if len(views) == 0 {
		buf := buffer.NewBuffer()
		e.buffers[buf.ID()] = buf
		views = append(views, newView(buf.ID(), ""))
	}

	w := newWindow(views, project, args)
	e.windows[w.id] = w
	e.logger.Info("window %s opened with %d view(s)", w.id, len(views))
	return w.id, nil
}

// openBuffer returns the buffer for path, loading it on first use.
func (e *Editor) openBuffer(path string) (*buffer.Buffer, error) {
	id, err := buffer.FileID(path)
	if err != nil {
		return nil, err
	}
	if b, ok := e.buffers[id]; ok {
		return b, nil
	}
	if alias, ok := e.aliases[id]; ok {
		if b, ok := e.buffers[alias]; ok {
			return b, nil
		}
	}
	b, err := buffer.Open(path)
	if err != nil {
		return nil, err
	}
	e.buffers[b.ID()] = b
	return b, nil
}

func resolvePath(cwd, path string) (string, error) {
	if !filepath.IsAbs(path) && cwd != "" {
		path = filepath.Join(cwd, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

// CloseWindow removes a window. Its buffers stay open for other windows
// and later sessions.
func (e *Editor) CloseWindow(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, err := e.window(id)
	if err != nil {
		return err
	}
	w.close()
	delete(e.windows, id)
	e.logger.Info("window %s closed", id)
	return nil
}

// Window returns a registered window.
func (e *Editor) Window(id uuid.UUID) (*Window, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window(id)
}

// Buffer returns a registered buffer.
func (e *Editor) Buffer(id uuid.UUID) (*buffer.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer(id)
}

// Len returns the number of open buffers and windows.
func (e *Editor) Len() (buffers, windows int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.buffers), len(e.windows)
}

func (e *Editor) window(id uuid.UUID) (*Window, error) {
	w, ok := e.windows[id]
	if !ok {
		return nil, &LookupError{Kind: "window", ID: id}
	}
	return w, nil
}

func (e *Editor) buffer(id uuid.UUID) (*buffer.Buffer, error) {
	b, ok := e.buffers[id]
	if !ok {
		return nil, &LookupError{Kind: "buffer", ID: id}
	}
	return b, nil
}

// resolve finds a window, its active view and the buffer it shows, and
// pulls the view's selections back inside the buffer.
func (e *Editor) resolve(id uuid.UUID) (*Window, *View, *buffer.Buffer, error) {
	w, err := e.window(id)
	if err != nil {
		return nil, nil, nil, err
	}
	v := w.ActiveView()
	b, err := e.buffer(v.bufferID)
	if err != nil {
		return nil, nil, nil, err
	}
	// Another view may have shortened the buffer.
	v.sels.Clamp(b.Len())
	return w, v, b, nil
}
