package keymap

import (
	"fmt"

	"github.com/dshills/tandem/internal/input/key"
)

type entry struct {
	ctx   Context
	event key.Event
}

// Keymap is an immutable lookup table from (Context, key.Event) to Command.
// A nil *Keymap has no bindings.
type Keymap struct {
	table map[entry]Command
}

// New builds a keymap. Later bindings override earlier ones for the same
// key and context.
func New(bindings []Binding) (*Keymap, error) {
	km := &Keymap{table: make(map[entry]Command)}
	for i, b := range bindings {
		events, cmd, contexts, err := b.Resolve()
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		for _, ctx := range contexts {
			for _, ev := range events {
				km.table[entry{ctx: ctx, event: ev}] = cmd
			}
		}
	}
	return km, nil
}

// MustNew builds a keymap and panics on error.
// Use only for known-valid bindings in initialization code and tests.
func MustNew(bindings ...Binding) *Keymap {
	km, err := New(bindings)
	if err != nil {
		panic("invalid keymap: " + err.Error())
	}
	return km
}

// Lookup returns the command bound to ev in ctx.
func (k *Keymap) Lookup(ctx Context, ev key.Event) (Command, bool) {
	if k == nil {
		return Command{}, false
	}
	cmd, ok := k.table[entry{ctx: ctx, event: ev.Canonical()}]
	return cmd, ok
}

// Len returns the number of (context, key) entries.
func (k *Keymap) Len() int {
	if k == nil {
		return 0
	}
	return len(k.table)
}
