package buffer

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/tandem/internal/engine/rope"
	"github.com/dshills/tandem/internal/engine/selection"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrUntitled         = errors.New("buffer has no file")
)

// Buffer is a document: a rope plus the file it came from. All methods are
// safe for concurrent use.
type Buffer struct {
	mu       sync.RWMutex
	id       uuid.UUID
	path     string
	rope     rope.Rope
	dirty    bool
	revision uint64
}

// NewBuffer creates an empty untitled buffer with a fresh id.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{id: uuid.New(), rope: rope.New()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer holding s.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.rope = rope.FromString(s)
	return b
}

// Open loads the file at path. A path that does not exist yet opens as an
// empty buffer bound to it; the file is created on the first Save.
func Open(path string) (*Buffer, error) {
	id, err := FileID(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewBuffer(WithID(id), WithPath(path)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r, err := rope.FromReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Buffer{id: id, path: path, rope: r}, nil
}

// ID returns the buffer id.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Path returns the file the buffer saves to, or "" when untitled.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// Rope returns an immutable snapshot of the content.
func (b *Buffer) Rope() rope.Rope {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope
}

// Text returns the whole content.
func (b *Buffer) Text() string {
	return b.Rope().String()
}

// String returns the whole content.
func (b *Buffer) String() string {
	return b.Text()
}

// Line returns row without its newline, or "" past the last row.
func (b *Buffer) Line(row int) string {
	return b.Rope().Line(row)
}

// Slice returns the characters in [begin, end), clamped.
func (b *Buffer) Slice(begin, end int) string {
	return b.Rope().Slice(begin, end)
}

// Len returns the number of characters.
func (b *Buffer) Len() int {
	return b.Rope().Len()
}

// LenLines returns the number of lines.
func (b *Buffer) LenLines() int {
	return b.Rope().LenLines()
}

// IsDirty reports whether the buffer changed since it was loaded or saved.
func (b *Buffer) IsDirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dirty
}

// Revision increases with every mutation.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// CharIdx resolves (row, col) to an offset. The row is clamped to
// [0, LenLines()-1] and the column to the row's bounds. The returned region
// spans the row from its first character to its end position (the newline,
// or the end of the buffer on the last row), so an empty row has
// Begin == Last.
func (b *Buffer) CharIdx(row, col int) (int, selection.Region) {
	r := b.Rope()
	row = min(max(row, 0), r.LenLines()-1)
	begin := r.LineToChar(row)
	n := r.LineLen(row)
	line, _ := selection.II(begin, begin+n)
	return begin + min(max(col, 0), n), line
}

// RowCol returns the row and column of offset, clamped to the buffer.
func (b *Buffer) RowCol(offset int) (int, int) {
	r := b.Rope()
	offset = min(max(offset, 0), r.Len())
	row := r.CharToLine(offset)
	return row, offset - r.LineToChar(row)
}

// InsertChar inserts c at offset, which must be in [0, Len()].
func (b *Buffer) InsertChar(offset int, c rune) error {
	return b.InsertString(offset, string(c))
}

// InsertString inserts s at offset, which must be in [0, Len()].
func (b *Buffer) InsertString(offset int, s string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || offset > b.rope.Len() {
		return fmt.Errorf("%w: insert at %d, length %d", ErrOffsetOutOfRange, offset, b.rope.Len())
	}
	if s == "" {
		return nil
	}
	b.rope = b.rope.Insert(offset, s)
	b.touch()
	return nil
}

// Delete removes the characters in [begin, end).
func (b *Buffer) Delete(begin, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if begin < 0 || end < begin || end > b.rope.Len() {
		return fmt.Errorf("%w: delete [%d, %d), length %d", ErrOffsetOutOfRange, begin, end, b.rope.Len())
	}
	if begin == end {
		return nil
	}
	b.rope = b.rope.Delete(begin, end)
	b.touch()
	return nil
}

func (b *Buffer) touch() {
	b.dirty = true
	b.revision++
}

// Save writes the content to the buffer's file in place, creating it when
// missing. Writing in place keeps the inode, and with it the buffer id.
func (b *Buffer) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.path == "" {
		return ErrUntitled
	}
	f, err := os.OpenFile(b.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	w := bufio.NewWriter(f)
	if _, err := b.rope.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	b.dirty = false
	return nil
}

// Search starts a streaming search for query over the current content.
func (b *Buffer) Search(query string) *Search {
	return NewSearch(b.Rope(), query)
}
