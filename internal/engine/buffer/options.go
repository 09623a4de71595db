package buffer

import "github.com/google/uuid"

// Option configures a Buffer.
type Option func(*Buffer)

// WithID sets the buffer id.
func WithID(id uuid.UUID) Option {
	return func(b *Buffer) {
		b.id = id
	}
}

// WithPath binds the buffer to a file that Save writes to.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}
