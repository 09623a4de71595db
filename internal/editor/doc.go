// Package editor holds the editing state shared by every connected client.
//
// An Editor owns two registries keyed by uuid: buffers, shared between
// windows and deduplicated by file identity, and windows, one per client
// session. A Window owns its Views; a View refers to its buffer by id only,
// so every access goes through a lookup that can fail with a LookupError.
//
// Input reaches the editor through Feed, which resolves key events against
// the keymap in the active View's context. Render composes the next frame
// for a window and encodes it for that window's terminal.
//
// All methods of Editor are serialized by a single lock.
package editor
