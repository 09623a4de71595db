// Package buffer provides the editor's documents: rope-backed text with a
// stable identity, row/column addressing, windowed slicing for rendering and
// streaming substring search.
//
// A Buffer opened from a file takes its id from the file's device and inode,
// so every path that reaches the same file resolves to the same id. Untitled
// buffers get a random id.
//
// Navigation helpers clamp: CharIdx never fails, it resolves the nearest
// valid offset. Mutations do not: InsertChar, InsertString and Delete fail
// with ErrOffsetOutOfRange instead of guessing.
//
//	buf, err := buffer.Open("notes.txt")
//	offset, line := buf.CharIdx(3, 10)
//	err = buf.InsertChar(offset, 'x')
//	err = buf.Save()
package buffer
