package key

import (
	"strings"
	"unicode"
)

// Event represents a single key press. Events built with NewRuneEvent,
// NewSpecialEvent or Parse are canonical and compare equal with ==.
type Event struct {
	Key       Key      `msgpack:"key"`
	Rune      rune     `msgpack:"rune,omitempty"`
	Modifiers Modifier `msgpack:"mods,omitempty"`
}

// NewRuneEvent creates a key event for a character. Shift is folded into
// the character, and a Ctrl-modified letter is lowercased.
func NewRuneEvent(r rune, mods Modifier) Event {
	mods = mods.Without(ModShift)
	if mods.HasCtrl() {
		r = unicode.ToLower(r)
	}
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// Canonical returns the event in the form keymaps are keyed by.
func (e Event) Canonical() Event {
	if e.Key == KeyRune {
		return NewRuneEvent(e.Rune, e.Modifiers)
	}
	return NewSpecialEvent(e.Key, e.Modifiers)
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true for a printable character typed without Ctrl, Alt
// or Meta.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) &&
		e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// Is reports whether e is key k with no modifiers.
func (e Event) Is(k Key) bool {
	return e.Key == k && e.Modifiers == ModNone
}

// String returns the event as a key specification, like "ctrl+s".
func (e Event) String() string {
	var name string
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		name = "space"
	case e.Key == KeyRune:
		name = string(e.Rune)
	default:
		name = e.Key.String()
	}
	if e.Modifiers == ModNone {
		return name
	}
	return strings.Join([]string{e.Modifiers.String(), name}, "+")
}
