package rope

import (
	"io"
	"strings"
)

// Builder accumulates text and builds a rope in one pass.
type Builder struct {
	chunks  []Chunk
	pending strings.Builder
}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WriteString appends s.
func (b *Builder) WriteString(s string) (int, error) {
	b.pending.WriteString(s)
	if b.pending.Len() >= MaxChunkSize*MaxChunksPerLeaf {
		b.flush(false)
	}
	return len(s), nil
}

// Write appends p.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// ReadFrom appends everything read from r.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			_, _ = b.Write(buf[:n])
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// flush moves pending text into chunks. Unless final, it keeps back an
// incomplete trailing rune and a short tail so chunk boundaries stay valid.
func (b *Builder) flush(final bool) {
	s := b.pending.String()
	b.pending.Reset()
	if !final && len(s) > MaxChunkSize {
		keep := splitPoint(s, len(s)-MinChunkSize)
		b.pending.WriteString(s[keep:])
		s = s[:keep]
	}
	b.chunks = append(b.chunks, splitIntoChunks(s)...)
}

// Build returns the rope and resets the builder.
func (b *Builder) Build() Rope {
	b.flush(true)
	r := buildFromChunks(b.chunks)
	b.chunks = nil
	return r
}
