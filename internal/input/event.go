package input

import (
	"fmt"

	"github.com/dshills/tandem/internal/input/key"
)

// Kind discriminates the variants of Event.
type Kind uint8

const (
	// KindNone is the zero Event.
	KindNone Kind = iota
	// KindKey is a key press, carried in Event.Key.
	KindKey
	// KindScroll is a mouse wheel step, carried in Event.Direction.
	KindScroll
	// KindResize is a terminal size change, carried in Event.Width and
	// Event.Height.
	KindResize
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindScroll:
		return "scroll"
	case KindResize:
		return "resize"
	default:
		return "none"
	}
}

// Direction represents a scroll direction.
type Direction uint8

const (
	// DirNone indicates no direction.
	DirNone Direction = iota
	// DirUp indicates upward direction.
	DirUp
	// DirDown indicates downward direction.
	DirDown
	// DirLeft indicates leftward direction.
	DirLeft
	// DirRight indicates rightward direction.
	DirRight
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Event is one unit of terminal input. Only the fields of its Kind are
// meaningful.
type Event struct {
	Kind      Kind      `msgpack:"kind"`
	Key       key.Event `msgpack:"key,omitempty"`
	Direction Direction `msgpack:"dir,omitempty"`
	Width     int       `msgpack:"w,omitempty"`
	Height    int       `msgpack:"h,omitempty"`
}

// KeyEvent wraps a key press.
func KeyEvent(k key.Event) Event {
	return Event{Kind: KindKey, Key: k.Canonical()}
}

// ScrollEvent creates a mouse wheel event.
func ScrollEvent(d Direction) Event {
	return Event{Kind: KindScroll, Direction: d}
}

// ResizeEvent creates a terminal resize event.
func ResizeEvent(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

// String implements fmt.Stringer for logging.
func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		return "key " + e.Key.String()
	case KindScroll:
		return "scroll " + e.Direction.String()
	case KindResize:
		return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
	default:
		return "none"
	}
}
