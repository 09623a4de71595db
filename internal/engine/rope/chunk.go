package rope

import "unicode/utf8"

// Chunk size bounds, in bytes.
const (
	MinChunkSize    = 128
	MaxChunkSize    = 256
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk is an immutable piece of text stored in a leaf.
type Chunk struct {
	data    string
	summary TextSummary
}

// NewChunk creates a chunk and computes its metrics.
func NewChunk(s string) Chunk {
	return Chunk{data: s, summary: ComputeSummary(s)}
}

func (c Chunk) String() string { return c.data }

// Summary returns the chunk's metrics.
func (c Chunk) Summary() TextSummary { return c.summary }

// Len returns the byte length of the chunk.
func (c Chunk) Len() int { return len(c.data) }

// IsEmpty reports whether the chunk holds no text.
func (c Chunk) IsEmpty() bool { return len(c.data) == 0 }

// Split splits the chunk at a byte offset that must fall on a rune boundary.
func (c Chunk) Split(offset int) (Chunk, Chunk) {
	if offset <= 0 {
		return Chunk{}, c
	}
	if offset >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset]), NewChunk(c.data[offset:])
}

// byteOfChar returns the byte offset of the n-th character in the chunk.
func (c Chunk) byteOfChar(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= c.summary.Chars {
		return len(c.data)
	}
	if c.summary.IsASCII() {
		return n
	}
	i := 0
	for ; n > 0; n-- {
		_, size := utf8.DecodeRuneInString(c.data[i:])
		i += size
	}
	return i
}

// charAfterNewline returns the character offset just past the n-th newline
// (1-indexed) in the chunk. The caller guarantees the chunk has n newlines.
func (c Chunk) charAfterNewline(n int) int {
	chars := 0
	for i := 0; i < len(c.data); {
		r, size := utf8.DecodeRuneInString(c.data[i:])
		i += size
		chars++
		if r == '\n' {
			n--
			if n == 0 {
				return chars
			}
		}
	}
	return chars
}

// newlinesBefore counts newlines among the first n characters of the chunk.
func (c Chunk) newlinesBefore(n int) int {
	lines := 0
	for i := 0; i < len(c.data) && n > 0; n-- {
		r, size := utf8.DecodeRuneInString(c.data[i:])
		i += size
		if r == '\n' {
			lines++
		}
	}
	return lines
}

// splitIntoChunks cuts s into chunks no larger than MaxChunkSize.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	var chunks []Chunk
	for len(s) > MaxChunkSize {
		at := splitPoint(s, TargetChunkSize)
		chunks = append(chunks, NewChunk(s[:at]))
		s = s[at:]
	}
	return append(chunks, NewChunk(s))
}

// splitPoint picks a rune boundary near target, preferring the byte after a
// newline within a quarter chunk of it.
func splitPoint(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}
	window := MinChunkSize / 4
	for i := target; i < len(s) && i < target+window; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= 0 && i >= target-window; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}
	at := target
	for at > 0 && !utf8.RuneStart(s[at]) {
		at--
	}
	if at == 0 {
		at = target
		for at < len(s) && !utf8.RuneStart(s[at]) {
			at++
		}
	}
	return at
}
