// Package rope provides an immutable, character-addressed rope for text storage.
//
// A rope is a B+ tree whose leaves hold bounded UTF-8 chunks and whose internal
// nodes cache aggregated metrics (bytes, characters, newlines) for every child.
// All public offsets count characters (runes), not bytes, so callers can address
// text the way a user moves through it. Conversions between characters, bytes and
// lines descend the tree once and cost O(log n).
//
// Operations return new ropes and never modify the receiver:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")   // "hello, world"
//	r = r.Delete(0, 7)     // "world"
//	line := r.LineToChar(0) // 0
package rope
