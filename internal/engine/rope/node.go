package rope

import "strings"

// Tree shape constants.
const (
	MinChildren      = 4
	MaxChildren      = 8
	MaxChunksPerLeaf = 4
)

// Node is a node of the rope B+ tree. Leaves (height 0) hold chunks,
// internal nodes hold children and a cached summary per child.
type Node struct {
	height  int
	summary TextSummary

	children       []*Node
	childSummaries []TextSummary

	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.recomputeSummary()
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}
	n := &Node{height: children[0].height + 1, children: children}
	n.recomputeSummary()
	return n
}

// IsLeaf reports whether the node holds chunks.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Summary returns the metrics of the subtree.
func (n *Node) Summary() TextSummary {
	return n.summary
}

func (n *Node) recomputeSummary() {
	n.summary = TextSummary{}
	if n.IsLeaf() {
		for _, c := range n.chunks {
			n.summary = n.summary.Add(c.summary)
		}
		return
	}
	n.childSummaries = make([]TextSummary, len(n.children))
	for i, child := range n.children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
}

func (n *Node) clone() *Node {
	if n.IsLeaf() {
		chunks := make([]Chunk, len(n.chunks))
		copy(chunks, n.chunks)
		return &Node{summary: n.summary, chunks: chunks}
	}
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	summaries := make([]TextSummary, len(n.childSummaries))
	copy(summaries, n.childSummaries)
	return &Node{
		height:         n.height,
		summary:        n.summary,
		children:       children,
		childSummaries: summaries,
	}
}

// appendRange writes the bytes [start, end) of the subtree to sb.
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}
	offset := 0
	if n.IsLeaf() {
		for _, c := range n.chunks {
			next := offset + c.Len()
			if next > start && offset < end {
				from := max(start-offset, 0)
				to := min(end-offset, c.Len())
				sb.WriteString(c.data[from:to])
			}
			if next >= end {
				return
			}
			offset = next
		}
		return
	}
	for i, child := range n.children {
		next := offset + n.childSummaries[i].Bytes
		if next > start && offset < end {
			child.appendRange(sb, max(start-offset, 0), min(end-offset, n.childSummaries[i].Bytes))
		}
		if next >= end {
			return
		}
		offset = next
	}
}

// byteOfChar converts a character offset within the subtree to a byte offset.
func (n *Node) byteOfChar(char int) int {
	if char <= 0 {
		return 0
	}
	if char >= n.summary.Chars {
		return n.summary.Bytes
	}
	if n.summary.IsASCII() {
		return char
	}
	bytes := 0
	if n.IsLeaf() {
		for _, c := range n.chunks {
			if char < c.summary.Chars {
				return bytes + c.byteOfChar(char)
			}
			char -= c.summary.Chars
			bytes += c.summary.Bytes
		}
		return bytes
	}
	for i, child := range n.children {
		s := n.childSummaries[i]
		if char < s.Chars {
			return bytes + child.byteOfChar(char)
		}
		char -= s.Chars
		bytes += s.Bytes
	}
	return bytes
}

// charOfLine returns the character offset at which line starts. line must
// be in [0, n.summary.Lines].
func (n *Node) charOfLine(line int) int {
	if line <= 0 {
		return 0
	}
	chars := 0
	if n.IsLeaf() {
		for _, c := range n.chunks {
			if line <= c.summary.Lines {
				return chars + c.charAfterNewline(line)
			}
			line -= c.summary.Lines
			chars += c.summary.Chars
		}
		return chars
	}
	for i, child := range n.children {
		s := n.childSummaries[i]
		if line <= s.Lines {
			return chars + child.charOfLine(line)
		}
		line -= s.Lines
		chars += s.Chars
	}
	return chars
}

// lineOfChar returns the number of newlines before the character offset.
func (n *Node) lineOfChar(char int) int {
	if char <= 0 {
		return 0
	}
	if char >= n.summary.Chars {
		return n.summary.Lines
	}
	lines := 0
	if n.IsLeaf() {
		for _, c := range n.chunks {
			if char < c.summary.Chars {
				return lines + c.newlinesBefore(char)
			}
			char -= c.summary.Chars
			lines += c.summary.Lines
		}
		return lines
	}
	for i, child := range n.children {
		s := n.childSummaries[i]
		if char < s.Chars {
			return lines + child.lineOfChar(char)
		}
		char -= s.Chars
		lines += s.Lines
	}
	return lines
}

// split splits the subtree at a byte offset on a rune boundary.
func (n *Node) split(offset int) (*Node, *Node) {
	if offset <= 0 {
		return newLeafNode(), n
	}
	if offset >= n.summary.Bytes {
		return n, newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *Node) splitLeaf(offset int) (*Node, *Node) {
	var left, right []Chunk
	at := 0
	for _, c := range n.chunks {
		switch {
		case at+c.Len() <= offset:
			left = append(left, c)
		case at >= offset:
			right = append(right, c)
		default:
			l, r := c.Split(offset - at)
			if !l.IsEmpty() {
				left = append(left, l)
			}
			if !r.IsEmpty() {
				right = append(right, r)
			}
		}
		at += c.Len()
	}
	return newLeafNodeWithChunks(left), newLeafNodeWithChunks(right)
}

func (n *Node) splitInternal(offset int) (*Node, *Node) {
	var left, right *Node
	at := 0
	for i, child := range n.children {
		size := n.childSummaries[i].Bytes
		switch {
		case at+size <= offset:
			left = concat(left, child)
		case at >= offset:
			right = concat(right, child)
		default:
			l, r := child.split(offset - at)
			left = concat(left, l)
			right = concat(right, r)
		}
		at += size
	}
	if left == nil {
		left = newLeafNode()
	}
	if right == nil {
		right = newLeafNode()
	}
	return left, right
}

// concat joins two subtrees of any heights. The shorter one is merged into
// the facing edge of the taller one, so the result is never deeper than
// the taller input plus one and no single-child chains are created.
func concat(left, right *Node) *Node {
	if left == nil || left.summary.Bytes == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.summary.Bytes == 0 {
		return left
	}
	nodes := join(left, right)
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInternalNode(nodes)
}

// join returns one or two nodes of height max(left.height, right.height)
// holding left followed by right. Both inputs must be non-empty.
func join(left, right *Node) []*Node {
	switch {
	case left.height > right.height:
		last := len(left.children) - 1
		children := make([]*Node, 0, last+2)
		children = append(children, left.children[:last]...)
		children = append(children, join(left.children[last], right)...)
		return pack(children)
	case left.height < right.height:
		merged := join(left, right.children[0])
		children := make([]*Node, 0, len(merged)+len(right.children)-1)
		children = append(children, merged...)
		children = append(children, right.children[1:]...)
		return pack(children)
	case left.IsLeaf():
		return joinLeaves(left, right)
	}
	children := make([]*Node, 0, len(left.children)+len(right.children))
	children = append(children, left.children...)
	children = append(children, right.children...)
	return pack(children)
}

// pack wraps equal-height children in one parent, or two when they
// overflow MaxChildren.
func pack(children []*Node) []*Node {
	if len(children) <= MaxChildren {
		return []*Node{newInternalNode(children)}
	}
	mid := len(children) / 2
	return []*Node{
		newInternalNode(children[:mid:mid]),
		newInternalNode(children[mid:]),
	}
}

// joinLeaves joins two leaves, coalescing the chunks that meet at the seam
// when they fit in one chunk so repeated small edits do not fragment the
// tree. The chunks fill one leaf, or two when they overflow.
func joinLeaves(left, right *Node) []*Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)
	rest := right.chunks
	if last := len(chunks) - 1; last >= 0 && len(rest) > 0 && chunks[last].Len()+rest[0].Len() <= MaxChunkSize {
		chunks[last] = NewChunk(chunks[last].data + rest[0].data)
		rest = rest[1:]
	}
	chunks = append(chunks, rest...)
	if len(chunks) <= MaxChunksPerLeaf {
		return []*Node{newLeafNodeWithChunks(chunks)}
	}
	mid := (len(chunks) + 1) / 2
	return []*Node{
		newLeafNodeWithChunks(chunks[:mid:mid]),
		newLeafNodeWithChunks(chunks[mid:]),
	}
}
