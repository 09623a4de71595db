package keymap

import "fmt"

// Kind identifies a command.
type Kind uint8

// Commands. The zero Kind is not a command.
const (
	CmdNone Kind = iota
	CmdClose
	CmdDeleteBackward
	CmdMoveBackward
	CmdMoveDown
	CmdMoveForward
	CmdMoveUp
	CmdNextView
	CmdPreviousView
	CmdQuit
	CmdSave
	CmdScrollDown
	CmdScrollLeft
	CmdScrollRight
	CmdScrollUp
	CmdSearch
	CmdSubmit
)

var commandNames = [...]string{
	CmdNone:           "none",
	CmdClose:          "close",
	CmdDeleteBackward: "delete_backward",
	CmdMoveBackward:   "move_backward",
	CmdMoveDown:       "move_down",
	CmdMoveForward:    "move_forward",
	CmdMoveUp:         "move_up",
	CmdNextView:       "next_view",
	CmdPreviousView:   "previous_view",
	CmdQuit:           "quit",
	CmdSave:           "save",
	CmdScrollDown:     "scroll_down",
	CmdScrollLeft:     "scroll_left",
	CmdScrollRight:    "scroll_right",
	CmdScrollUp:       "scroll_up",
	CmdSearch:         "search",
	CmdSubmit:         "submit",
}

// String returns the configuration name of the command.
func (k Kind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsScroll reports whether the command takes a count.
func (k Kind) IsScroll() bool {
	return k >= CmdScrollDown && k <= CmdScrollUp
}

// ParseKind parses a command name.
func ParseKind(name string) (Kind, error) {
	for k, n := range commandNames {
		if k != int(CmdNone) && n == name {
			return Kind(k), nil
		}
	}
	return CmdNone, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Command is a resolved binding: what to run and how many times.
type Command struct {
	Kind  Kind
	Count int
}

// String implements fmt.Stringer.
func (c Command) String() string {
	if c.Kind.IsScroll() {
		return fmt.Sprintf("%s{count: %d}", c.Kind, c.Count)
	}
	return c.Kind.String()
}
