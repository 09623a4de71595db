package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope. The zero value is an empty rope.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader reads r to EOF into a rope.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}
	var nodes []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		leaf := make([]Chunk, min(i+MaxChunksPerLeaf, len(chunks))-i)
		copy(leaf, chunks[i:])
		nodes = append(nodes, newLeafNodeWithChunks(leaf))
	}
	for len(nodes) > 1 {
		var parents []*Node
		for i := 0; i < len(nodes); i += MaxChildren {
			children := make([]*Node, min(i+MaxChildren, len(nodes))-i)
			copy(children, nodes[i:])
			parents = append(parents, newInternalNode(children))
		}
		nodes = parents
	}
	return Rope{root: nodes[0]}
}

// Summary returns the metrics of the whole rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{}
	}
	return r.root.summary
}

// Len returns the number of characters.
func (r Rope) Len() int {
	return r.Summary().Chars
}

// LenBytes returns the UTF-8 byte length.
func (r Rope) LenBytes() int {
	return r.Summary().Bytes
}

// LenLines returns the number of lines: newlines plus one. A trailing
// newline therefore starts an empty last line.
func (r Rope) LenLines() int {
	return r.Summary().Lines + 1
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.Summary().Bytes == 0
}

func (r Rope) String() string {
	return r.sliceBytes(0, r.LenBytes())
}

// Slice returns the characters in [start, end), clamped to the rope.
func (r Rope) Slice(start, end int) string {
	start, end = max(start, 0), min(end, r.Len())
	if start >= end {
		return ""
	}
	return r.sliceBytes(r.CharToByte(start), r.CharToByte(end))
}

func (r Rope) sliceBytes(start, end int) string {
	if r.root == nil || start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// CharToByte converts a character offset to a byte offset, clamping to the
// rope bounds.
func (r Rope) CharToByte(char int) int {
	if r.root == nil {
		return 0
	}
	return r.root.byteOfChar(char)
}

// LineToChar returns the character offset at which line starts. Lines past
// the end resolve to Len().
func (r Rope) LineToChar(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line > r.root.summary.Lines {
		return r.Len()
	}
	return r.root.charOfLine(line)
}

// CharToLine returns the line containing the character offset.
func (r Rope) CharToLine(char int) int {
	if r.root == nil {
		return 0
	}
	return r.root.lineOfChar(char)
}

// Line returns the text of line without its trailing newline.
func (r Rope) Line(line int) string {
	if line < 0 || line >= r.LenLines() {
		return ""
	}
	start := r.LineToChar(line)
	end := r.LineToChar(line + 1)
	if line+1 < r.LenLines() {
		end--
	}
	return r.Slice(start, end)
}

// LineLen returns the number of characters on line, excluding the newline.
func (r Rope) LineLen(line int) int {
	if line < 0 || line >= r.LenLines() {
		return 0
	}
	end := r.LineToChar(line + 1)
	if line+1 < r.LenLines() {
		end--
	}
	return end - r.LineToChar(line)
}

// Insert inserts text at a character offset, clamped to [0, Len()].
func (r Rope) Insert(at int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.IsEmpty() {
		return FromString(text)
	}
	left, right := r.Split(at)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes the characters in [start, end), clamped to the rope.
func (r Rope) Delete(start, end int) Rope {
	start, end = max(start, 0), min(end, r.Len())
	if start >= end {
		return r
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Split splits the rope at a character offset into [0, at) and [at, Len()).
func (r Rope) Split(at int) (Rope, Rope) {
	if r.root == nil || at <= 0 {
		return New(), r
	}
	if at >= r.Len() {
		return r, New()
	}
	left, right := r.root.split(r.CharToByte(at))
	return Rope{root: left}, Rope{root: right}
}

// Concat appends other to r.
func (r Rope) Concat(other Rope) Rope {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// WriteTo writes the rope's bytes to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Height returns the height of the tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return r.root.height + 1
}

// Equals reports whether two ropes hold the same text.
func (r Rope) Equals(other Rope) bool {
	if r.LenBytes() != other.LenBytes() {
		return false
	}
	return r.String() == other.String()
}
