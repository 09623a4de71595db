// Package input defines the events a terminal client sends to the editor:
// key presses, mouse wheel scrolling and terminal resizes.
//
// Events are plain values so they travel over the wire unchanged; the
// client terminal produces them and the editor consumes them. Resolving a
// key press to a command is the job of package keymap.
package input
