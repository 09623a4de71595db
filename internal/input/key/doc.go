// Package key defines keyboard events and the key specifications used in
// keymaps.
//
//   - Key identifies a special key, or KeyRune for characters
//   - Modifier is the bit set of held modifier keys
//   - Event is one key press, comparable and usable as a map key
//
// # Key Specifications
//
// A specification names one key press as modifiers joined to the key with
// "+": "a", "enter", "ctrl+s", "alt+left", "shift+tab". Modifier and key
// names are case-insensitive; a single character is taken literally.
//
// Events are canonical: Shift is folded into the character for runes, so
// "shift+a" and "A" parse to the same Event a terminal reports for A.
package key
