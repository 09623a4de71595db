package keymap

import (
	"errors"
	"fmt"

	"github.com/dshills/tandem/internal/input/key"
)

// Errors returned while building a keymap.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownContext = errors.New("unknown context")
	ErrNoKeys         = errors.New("binding has no keys")
	ErrBadArgs        = errors.New("invalid command arguments")
)

// Args holds the optional command arguments.
type Args struct {
	Count int `yaml:"count" toml:"count"`
}

// Binding maps key specifications to a command, as written in the config
// file.
type Binding struct {
	// Keys are alternative key specifications, any of which triggers the
	// command. Formats: "a", "enter", "ctrl+s", "alt+left".
	Keys []string `yaml:"keys" toml:"keys"`

	// Command is the command name, e.g. "save" or "scroll_down".
	Command string `yaml:"command" toml:"command"`

	// Args are fixed arguments for the command.
	Args Args `yaml:"args,omitempty" toml:"args,omitempty"`

	// Contexts lists where the binding applies. Empty means buffer only.
	Contexts []Context `yaml:"contexts,omitempty" toml:"contexts,omitempty"`
}

// NewBinding creates a binding of one key to a command.
func NewBinding(keys, command string) Binding {
	return Binding{Keys: []string{keys}, Command: command}
}

// WithCount sets the count argument.
func (b Binding) WithCount(count int) Binding {
	b.Args.Count = count
	return b
}

// In sets the contexts the binding applies in.
func (b Binding) In(contexts ...Context) Binding {
	b.Contexts = contexts
	return b
}

// Resolve parses the binding into its key events, command and contexts.
func (b Binding) Resolve() ([]key.Event, Command, []Context, error) {
	kind, err := ParseKind(b.Command)
	if err != nil {
		return nil, Command{}, nil, err
	}
	cmd := Command{Kind: kind}
	if kind.IsScroll() {
		switch {
		case b.Args.Count < 0:
			return nil, Command{}, nil, fmt.Errorf("%w: %s count %d", ErrBadArgs, b.Command, b.Args.Count)
		case b.Args.Count == 0:
			cmd.Count = 1
		default:
			cmd.Count = b.Args.Count
		}
	}

	if len(b.Keys) == 0 {
		return nil, Command{}, nil, fmt.Errorf("%w: %s", ErrNoKeys, b.Command)
	}
	events := make([]key.Event, 0, len(b.Keys))
	for _, spec := range b.Keys {
		ev, err := key.Parse(spec)
		if err != nil {
			return nil, Command{}, nil, err
		}
		events = append(events, ev)
	}

	contexts := b.Contexts
	if len(contexts) == 0 {
		contexts = []Context{ContextBuffer}
	}
	return events, cmd, contexts, nil
}
