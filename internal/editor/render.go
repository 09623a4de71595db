package editor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/dshills/tandem/internal/engine/buffer"
	"github.com/dshills/tandem/internal/engine/selection"
	"github.com/dshills/tandem/internal/input/keymap"
	"github.com/dshills/tandem/internal/renderer/backend"
	"github.com/dshills/tandem/internal/renderer/core"
)

// Screen layout.
const (
	titleRow     = 0
	tabRow       = 1
	textTop      = 2
	reservedRows = 3 // title, tabs and status

	tabWidth = 15
	overflow = "....."
)

// Render returns the terminal bytes that bring a window's client up to
// date, or nil when nothing changed since the last call.
func (e *Editor) Render(id uuid.UUID) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, v, buf, err := e.resolve(id)
	if err != nil {
		return nil, err
	}
	f := e.compose(w, v, buf)
	if f.Equals(w.last) {
		return nil, nil
	}
	if w.encoder == nil {
		enc, err := backend.NewEncoder(w.term, f.Width, f.Height)
		if err != nil {
			return nil, err
		}
		w.encoder = enc
	}
	out, err := w.encoder.Encode(f)
	if err != nil {
		return nil, err
	}
	w.last = f
	return out, nil
}

// Frame composes the frame a window would show now, without encoding it.
func (e *Editor) Frame(id uuid.UUID) (*core.Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, v, buf, err := e.resolve(id)
	if err != nil {
		return nil, err
	}
	return e.compose(w, v, buf), nil
}

func (e *Editor) compose(w *Window, v *View, buf *buffer.Buffer) *core.Frame {
	th := e.theme
	f := core.NewFrame(w.width, w.height)

	if line := f.Line(titleRow); line != nil {
		title := v.Title()
		if w.project != "" {
			title = w.project
		}
		line.Fill = th.Title
		line.Append(fit(title, w.width), th.Title)
	}
	if line := f.Line(tabRow); line != nil {
		e.tabBar(line, w)
	}

	width, height := w.textArea()
	e.text(f, v, buf, width, height)

	if w.height < reservedRows {
		return f
	}
	status := f.Line(w.height - 1)
	status.Fill = th.Status
	if v.ctx == keymap.ContextSearch {
		prompt := "/" + v.Query()
		status.Append(fit(prompt, w.width), th.Status)
		f.ShowCursor(min(uniseg.StringWidth(prompt), max(w.width-1, 0)), w.height-1)
		return f
	}

	cursor, _ := v.sels.Primary().First()
	row, col := buf.RowCol(cursor.Head())
	text := fmt.Sprintf(" %d:%d", row+1, col+1)
	if buf.IsDirty() {
		text += " [+]"
	}
	status.Append(fit(text, w.width), th.Status)

	if y, x := row-v.pos.Y, col-v.pos.X; y >= 0 && y < height && x >= 0 && x < width {
		f.ShowCursor(x, textTop+y)
	}
	return f
}

// tabBar lays out as many tabs as fit, keeping the active one visible. Dots
// mark tabs hidden on either side.
func (e *Editor) tabBar(line *core.Line, w *Window) {
	th := e.theme
	line.Fill = th.Tab

	n := len(w.views)
	count := max(w.width/tabWidth, 1)
	if n > count {
		count = max((w.width-2*len(overflow))/tabWidth, 1)
	}
	count = min(count, n)

	first := 0
	if w.active >= count {
		first = w.active - count + 1
	}
	if first > 0 {
		line.Append(overflow, th.Tab)
	}
	for i := first; i < first+count; i++ {
		style := th.Tab
		if i == w.active {
			style = th.ActiveTab
		}
		line.Append(tabLabel(w.views[i].TabTitle()), style)
	}
	if first+count < n {
		line.Append(overflow, th.Tab)
	}
}

// text paints the visible rows of buf. Sub-lines and the primary
// selection's regions both ascend by offset, so they are walked together
// once.
func (e *Editor) text(f *core.Frame, v *View, buf *buffer.Buffer, width, height int) {
	regions := v.sels.Primary().Regions()
	next := 0
	rows := buf.SubLines(v.pos, width, height)
	for y := textTop; ; y++ {
		sl, ok := rows.Next()
		if !ok {
			break
		}
		line := f.Line(y)
		if line == nil {
			break
		}
		line.Fill = e.theme.Text
		next = e.paintSubLine(line, sl, regions, next, v.pos.X, width)
	}
}

// paintSubLine splits one visible row into plain and selected spans and
// returns the index of the first region that may reach the next row.
func (e *Editor) paintSubLine(line *core.Line, sl buffer.SubLine, regions []selection.Region, next, x, width int) int {
	th := e.theme
	for next < len(regions) && regions[next].Last() < sl.Begin {
		next++
	}

	runes := []rune(sl.Text)
	at := sl.Begin
	for i := next; i < len(regions) && regions[i].Begin() < sl.End; i++ {
		r := regions[i]
		lo, hi := max(r.Begin(), at), min(r.End(), sl.End)
		line.Append(string(runes[at-sl.Begin:lo-sl.Begin]), th.Text)
		line.Append(string(runes[lo-sl.Begin:hi-sl.Begin]), th.Selection)
		at = hi
		if r.End() > sl.End {
			break
		}
	}
	line.Append(string(runes[at-sl.Begin:]), th.Text)

	// A region may cover the newline, or sit at the end of the buffer.
	if col := sl.LineEnd - sl.Start - x; sl.End == sl.LineEnd && col >= 0 && col < width {
		for i := next; i < len(regions) && regions[i].Begin() <= sl.LineEnd; i++ {
			if regions[i].Contains(sl.LineEnd) {
				line.Append(" ", th.Selection)
				break
			}
		}
	}
	return next
}

// fit truncates s to at most width cells.
func fit(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if used+g.Width() > width {
			break
		}
		b.WriteString(g.Str())
		used += g.Width()
	}
	return b.String()
}

// tabLabel pads or truncates a title to exactly one tab.
func tabLabel(title string) string {
	s := " " + fit(title, tabWidth-2)
	return s + strings.Repeat(" ", tabWidth-uniseg.StringWidth(s))
}
