package keymap

import "fmt"

// Context is a View's interaction mode. It scopes which bindings apply.
type Context uint8

const (
	// ContextBuffer is ordinary editing.
	ContextBuffer Context = iota
	// ContextSearch is entry of a search query.
	ContextSearch
)

// String returns the configuration name of the context.
func (c Context) String() string {
	switch c {
	case ContextBuffer:
		return "buffer"
	case ContextSearch:
		return "search"
	default:
		return fmt.Sprintf("Context(%d)", c)
	}
}

// ParseContext parses a context name.
func ParseContext(name string) (Context, error) {
	switch name {
	case "buffer":
		return ContextBuffer, nil
	case "search":
		return ContextSearch, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownContext, name)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so contexts decode
// from YAML and TOML by name.
func (c *Context) UnmarshalText(text []byte) error {
	parsed, err := ParseContext(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Context) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
