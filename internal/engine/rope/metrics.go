package rope

import "unicode/utf8"

// TextSummary holds aggregated metrics for a span of text.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the rune count. Invalid UTF-8 counts one rune per byte.
	Chars int

	// Lines is the number of newline characters.
	Lines int

	Flags TextFlags
}

// TextFlags mark text properties that enable fast paths.
type TextFlags uint8

const (
	// FlagASCII means every character is a single byte, so character and
	// byte offsets coincide.
	FlagASCII TextFlags = 1 << iota
)

// Add combines two summaries. The zero summary is the identity.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
		Flags: s.Flags & other.Flags,
	}
}

// IsASCII reports whether character offsets equal byte offsets.
func (s TextSummary) IsASCII() bool {
	return s.Flags&FlagASCII != 0
}

// ComputeSummary calculates the metrics of s.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: len(s), Flags: FlagASCII}
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c == '\n' {
				sum.Lines++
			}
			sum.Chars++
			i++
			continue
		}
		sum.Flags &^= FlagASCII
		_, size := utf8.DecodeRuneInString(s[i:])
		sum.Chars++
		i += size
	}
	return sum
}
