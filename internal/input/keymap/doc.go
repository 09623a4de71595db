// Package keymap resolves key presses to editor commands.
//
// A Keymap is an exact-match table keyed by (Context, key.Event). It is
// built once from a list of Bindings, typically decoded from the config
// file, and is read-only afterwards.
//
// # Bindings
//
// Each binding names one or more alternative key specifications, the
// command they run, optional arguments and the contexts it applies in:
//
//	- keys: [ctrl+j, alt+down]
//	  command: scroll_down
//	  args: {count: 3}
//	  contexts: [buffer]
//
// A binding without contexts applies in the buffer context. When two
// bindings claim the same key in the same context, the later one wins.
//
// # Commands
//
// The command set is closed; unknown command names are rejected when the
// keymap is built.
package keymap
