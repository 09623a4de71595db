package key

import "unicode"

// shiftedASCII maps unshifted US keyboard punctuation to its shifted form.
var shiftedASCII = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '[': '{', ']': '}', '\\': '|',
	';': ':', '\'': '"', ',': '<', '.': '>', '/': '?', '`': '~',
}

// toUpper returns the character Shift produces for r.
func toUpper(r rune) rune {
	if s, ok := shiftedASCII[r]; ok {
		return s
	}
	return unicode.ToUpper(r)
}
