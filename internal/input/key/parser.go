package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@", "+"
//   - Special keys: "enter", "esc", "tab", "backspace", "space", "f5"
//   - With modifiers: "ctrl+s", "alt+f4", "ctrl+shift+left", "ctrl++"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	var mods Modifier
	rest := spec
	for {
		i := strings.IndexByte(rest, '+')
		// A trailing '+' is the key itself.
		if i <= 0 || i == len(rest)-1 {
			break
		}
		name := rest[:i]
		mod := ModifierFromName(strings.TrimSpace(name))
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, name, spec)
		}
		mods = mods.With(mod)
		rest = rest[i+1:]
	}
	return parseKey(strings.TrimSpace(rest), mods, spec)
}

func parseKey(name string, mods Modifier, spec string) (Event, error) {
	if name == "" {
		return Event{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}
	if strings.EqualFold(name, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := KeyFromName(name); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	if utf8.RuneCountInString(name) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidSpec, name, spec)
	}
	r, _ := utf8.DecodeRuneInString(name)
	if mods.HasShift() {
		r = toUpper(r)
	}
	return NewRuneEvent(r, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}
