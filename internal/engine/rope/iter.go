package rope

import "unicode/utf8"

type chunkFrame struct {
	node *Node
	idx  int
}

// ChunkIterator walks the chunks of a rope in order.
type ChunkIterator struct {
	stack   []chunkFrame
	pending bool
	chunk   Chunk
	offset  int
}

// Chunks returns an iterator over every chunk.
func (r Rope) Chunks() *ChunkIterator {
	it, _ := r.chunksAt(0)
	return it
}

// chunksAt positions an iterator so its first chunk contains the byte
// offset. It also returns the byte offset at which that chunk starts.
func (r Rope) chunksAt(offset int) (*ChunkIterator, int) {
	it := &ChunkIterator{stack: make([]chunkFrame, 0, 8)}
	if r.IsEmpty() {
		return it, 0
	}
	base := 0
	node := r.root
	for !node.IsLeaf() {
		i := 0
		for ; i < len(node.children)-1; i++ {
			size := node.childSummaries[i].Bytes
			if base+size > offset {
				break
			}
			base += size
		}
		it.stack = append(it.stack, chunkFrame{node: node, idx: i})
		node = node.children[i]
	}
	i := 0
	for ; i < len(node.chunks)-1; i++ {
		if base+node.chunks[i].Len() > offset {
			break
		}
		base += node.chunks[i].Len()
	}
	it.stack = append(it.stack, chunkFrame{node: node, idx: i})
	it.pending = true
	it.offset = base
	return it, base
}

// Next advances to the next chunk and reports whether there is one.
func (it *ChunkIterator) Next() bool {
	if it.pending {
		it.pending = false
		top := it.stack[len(it.stack)-1]
		if top.idx < len(top.node.chunks) {
			it.chunk = top.node.chunks[top.idx]
			return true
		}
		return false
	}
	if len(it.stack) == 0 {
		return false
	}
	it.offset += it.chunk.Len()
	it.stack[len(it.stack)-1].idx++
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.node.IsLeaf() {
			if top.idx < len(top.node.chunks) {
				it.chunk = top.node.chunks[top.idx]
				return true
			}
		} else if top.idx < len(top.node.children) {
			it.stack = append(it.stack, chunkFrame{node: top.node.children[top.idx]})
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
		if len(it.stack) > 0 {
			it.stack[len(it.stack)-1].idx++
		}
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the byte offset at which the current chunk starts.
func (it *ChunkIterator) Offset() int {
	return it.offset
}

// RuneIterator yields characters forward from a starting offset without
// materializing the rope.
type RuneIterator struct {
	chunks *ChunkIterator
	data   string
	pos    int
	char   int
}

// RunesAt returns an iterator starting at the character offset, clamped to
// [0, Len()].
func (r Rope) RunesAt(char int) *RuneIterator {
	char = min(max(char, 0), r.Len())
	b := r.CharToByte(char)
	chunks, start := r.chunksAt(b)
	it := &RuneIterator{chunks: chunks, char: char}
	if chunks.Next() {
		it.data = chunks.Chunk().String()
		it.pos = b - start
	}
	return it
}

// Next returns the next character and reports whether there was one.
func (it *RuneIterator) Next() (rune, bool) {
	for it.pos >= len(it.data) {
		if !it.chunks.Next() {
			return 0, false
		}
		it.data = it.chunks.Chunk().String()
		it.pos = 0
	}
	r, size := utf8.DecodeRuneInString(it.data[it.pos:])
	it.pos += size
	it.char++
	return r, true
}

// Offset returns the character offset of the next character to be returned.
func (it *RuneIterator) Offset() int {
	return it.char
}
