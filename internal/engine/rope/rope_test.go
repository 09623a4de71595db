package rope

import (
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("New rope should have length 0, got %d", r.Len())
	}
	if !r.IsEmpty() {
		t.Error("New rope should be empty")
	}
	if r.LenLines() != 1 {
		t.Errorf("New rope should have 1 line, got %d", r.LenLines())
	}

	var zero Rope
	if zero.Len() != 0 || zero.String() != "" || zero.LenLines() != 1 {
		t.Error("zero Rope should behave as empty")
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"with newline", "hello\nworld"},
		{"unicode", "héllo 世界 🌍"},
		{"long string", strings.Repeat("abcdefghij", 100)},
		{"long unicode", strings.Repeat("日本語\n", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() = %q, want %q", r.String(), tt.input)
			}
			if r.Len() != utf8.RuneCountInString(tt.input) {
				t.Errorf("Len() = %d, want %d", r.Len(), utf8.RuneCountInString(tt.input))
			}
			if r.LenBytes() != len(tt.input) {
				t.Errorf("LenBytes() = %d, want %d", r.LenBytes(), len(tt.input))
			}
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		at       int
		text     string
		expected string
	}{
		{"at start", "world", 0, "hello ", "hello world"},
		{"at end", "hello", 5, " world", "hello world"},
		{"in middle", "helloworld", 5, " ", "hello world"},
		{"into empty", "", 0, "hello", "hello"},
		{"empty text", "hello", 3, "", "hello"},
		{"after wide chars", "世界", 1, "!", "世!界"},
		{"past end clamps", "ab", 10, "c", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromString(tt.initial).Insert(tt.at, tt.text).String()
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		start, end int
		expected   string
	}{
		{"from start", "hello world", 0, 6, "world"},
		{"to end", "hello world", 5, 11, "hello"},
		{"middle", "hello world", 5, 6, "helloworld"},
		{"everything", "hello", 0, 5, ""},
		{"empty range", "hello", 2, 2, "hello"},
		{"unicode", "a世界b", 1, 3, "ab"},
		{"clamped", "hello", 3, 99, "hel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromString(tt.initial).Delete(tt.start, tt.end).String()
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	r := FromString("héllo\nwörld")
	tests := []struct {
		start, end int
		want       string
	}{
		{0, 5, "héllo"},
		{6, 11, "wörld"},
		{4, 7, "o\nw"},
		{3, 3, ""},
		{-2, 2, "hé"},
		{9, 50, "ld"},
	}
	for _, tt := range tests {
		if got := r.Slice(tt.start, tt.end); got != tt.want {
			t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestLines(t *testing.T) {
	r := FromString("hello\n\nabc")
	if r.LenLines() != 3 {
		t.Fatalf("LenLines() = %d, want 3", r.LenLines())
	}
	wantStarts := []int{0, 6, 7}
	wantLens := []int{5, 0, 3}
	wantText := []string{"hello", "", "abc"}
	for line := range wantStarts {
		if got := r.LineToChar(line); got != wantStarts[line] {
			t.Errorf("LineToChar(%d) = %d, want %d", line, got, wantStarts[line])
		}
		if got := r.LineLen(line); got != wantLens[line] {
			t.Errorf("LineLen(%d) = %d, want %d", line, got, wantLens[line])
		}
		if got := r.Line(line); got != wantText[line] {
			t.Errorf("Line(%d) = %q, want %q", line, got, wantText[line])
		}
	}
	if got := r.LineToChar(7); got != r.Len() {
		t.Errorf("LineToChar past end = %d, want %d", got, r.Len())
	}

	for char, want := range []int{0, 0, 0, 0, 0, 0, 1, 2, 2, 2, 2} {
		if got := r.CharToLine(char); got != want {
			t.Errorf("CharToLine(%d) = %d, want %d", char, got, want)
		}
	}
}

func TestTrailingNewline(t *testing.T) {
	r := FromString("a\n")
	if r.LenLines() != 2 {
		t.Errorf("LenLines() = %d, want 2", r.LenLines())
	}
	if r.Line(1) != "" || r.LineLen(1) != 0 {
		t.Errorf("last line should be empty, got %q", r.Line(1))
	}
}

func TestLargeRopeAddressing(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		sb.WriteString("línea ")
		sb.WriteString(strings.Repeat("x", i%17))
		sb.WriteByte('\n')
	}
	text := sb.String()
	r := FromString(text)
	if r.Height() < 2 {
		t.Errorf("expected a multi-level tree, height %d", r.Height())
	}

	runes := []rune(text)
	lineStart := 0
	line := 0
	for i, c := range runes {
		if i == lineStart {
			if got := r.LineToChar(line); got != i {
				t.Fatalf("LineToChar(%d) = %d, want %d", line, got, i)
			}
		}
		if got := r.CharToLine(i); got != line {
			t.Fatalf("CharToLine(%d) = %d, want %d", i, got, line)
		}
		if c == '\n' {
			line++
			lineStart = i + 1
		}
	}
	if got := r.CharToByte(len(runes)); got != len(text) {
		t.Errorf("CharToByte(end) = %d, want %d", got, len(text))
	}
}

func TestImmutability(t *testing.T) {
	r1 := FromString("hello")
	r2 := r1.Insert(5, " world")
	r3 := r1.Delete(0, 2)
	if r1.String() != "hello" {
		t.Errorf("original modified: %q", r1.String())
	}
	if r2.String() != "hello world" || r3.String() != "llo" {
		t.Errorf("unexpected results %q %q", r2.String(), r3.String())
	}
}

func TestManySmallInserts(t *testing.T) {
	r := New()
	want := []rune{}
	for i := 0; i < 3000; i++ {
		c := rune('a' + i%26)
		if i%7 == 0 {
			c = 'é'
		}
		at := (i * 31) % (len(want) + 1)
		r = r.Insert(at, string(c))
		want = append(want[:at], append([]rune{c}, want[at:]...)...)
	}
	if r.String() != string(want) {
		t.Fatal("rope content diverged from reference")
	}
	if r.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(want))
	}
	if r.Height() > 8 {
		t.Errorf("Height() = %d after %d inserts, tree is not rebalancing", r.Height(), len(want))
	}
}

func TestTypingKeepsTreeShallow(t *testing.T) {
	r := FromString(strings.Repeat("0123456789\n", 2000))
	start := r.Height()
	for i := 0; i < 5000; i++ {
		r = r.Insert(7000+i, "k")
		r = r.Delete(3000, 3001)
		if h := r.Height(); h > start+3 {
			t.Fatalf("step %d: Height() = %d, started at %d", i, h, start)
		}
	}
	if r.Len() != 22000 {
		t.Errorf("Len() = %d, want 22000", r.Len())
	}
}

func TestChunkIterator(t *testing.T) {
	text := strings.Repeat("chunk iteration test ", 200)
	var sb strings.Builder
	it := FromString(text).Chunks()
	for it.Next() {
		if it.Offset() != sb.Len() {
			t.Fatalf("Offset() = %d, want %d", it.Offset(), sb.Len())
		}
		sb.WriteString(it.Chunk().String())
	}
	if sb.String() != text {
		t.Error("chunks do not reassemble the rope")
	}
	if New().Chunks().Next() {
		t.Error("empty rope yielded a chunk")
	}
}

func TestRunesAt(t *testing.T) {
	text := strings.Repeat("añb\n", 300)
	r := FromString(text)
	runes := []rune(text)
	for _, start := range []int{0, 1, 2, 500, len(runes) - 1, len(runes)} {
		it := r.RunesAt(start)
		var got []rune
		for {
			c, ok := it.Next()
			if !ok {
				break
			}
			got = append(got, c)
		}
		if string(got) != string(runes[start:]) {
			t.Errorf("RunesAt(%d) yielded %d runes, want %d", start, len(got), len(runes)-start)
		}
		if it.Offset() != len(runes) {
			t.Errorf("RunesAt(%d) ended at %d", start, it.Offset())
		}
	}
}

func TestBuilder(t *testing.T) {
	text := strings.Repeat("ü", 5000)
	b := NewBuilder()
	// feed the builder in pieces that cut runes in half
	raw := []byte(text)
	for i := 0; i < len(raw); i += 333 {
		_, _ = b.Write(raw[i:min(i+333, len(raw))])
	}
	r := b.Build()
	if r.String() != text {
		t.Fatal("builder corrupted text")
	}
	if r.Len() != 5000 {
		t.Errorf("Len() = %d, want 5000", r.Len())
	}
}

func TestFromReader(t *testing.T) {
	r, err := FromReader(strings.NewReader("one\ntwo"))
	if err != nil {
		t.Fatal(err)
	}
	if r.Line(1) != "two" {
		t.Errorf("Line(1) = %q", r.Line(1))
	}
}

func TestWriteTo(t *testing.T) {
	text := strings.Repeat("write me\n", 100)
	var sb strings.Builder
	n, err := FromString(text).WriteTo(&sb)
	if err != nil {
		t.Fatal(err)
	}
	if int(n) != len(text) || sb.String() != text {
		t.Errorf("WriteTo wrote %d bytes", n)
	}
}

func TestInsertDeleteProperty(t *testing.T) {
	f := func(s string, offset int, insert string) bool {
		n := utf8.RuneCountInString(s)
		offset = abs(offset) % (n + 1)
		r := FromString(s).Insert(offset, insert)
		r = r.Delete(offset, offset+utf8.RuneCountInString(insert))
		return r.String() == s
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestConcatSplitProperty(t *testing.T) {
	f := func(s string, offset int) bool {
		n := utf8.RuneCountInString(s)
		offset = abs(offset) % (n + 1)
		left, right := FromString(s).Split(offset)
		return left.Len() == offset && left.Concat(right).String() == s
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestLenLinesProperty(t *testing.T) {
	f := func(s string) bool {
		return FromString(s).LenLines() == strings.Count(s, "\n")+1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		input string
		want  TextSummary
	}{
		{"", TextSummary{Flags: FlagASCII}},
		{"ab\nc", TextSummary{Bytes: 4, Chars: 4, Lines: 1, Flags: FlagASCII}},
		{"é\n\n", TextSummary{Bytes: 4, Chars: 3, Lines: 2}},
	}
	for _, tt := range tests {
		if got := ComputeSummary(tt.input); got != tt.want {
			t.Errorf("ComputeSummary(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}

	a, b := ComputeSummary("x\n"), ComputeSummary("ö")
	if got, want := a.Add(b), ComputeSummary("x\nö"); got != want {
		t.Errorf("Add = %+v, want %+v", got, want)
	}
}

func abs(n int) int {
	if n < 0 {
		if n == -n {
			return 0
		}
		return -n
	}
	return n
}
