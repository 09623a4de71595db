package editor

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/dshills/tandem/internal/engine/selection"
	"github.com/dshills/tandem/internal/input"
	"github.com/dshills/tandem/internal/renderer/core"
)

func openSized(t *testing.T, width, height int, paths ...string) (*Editor, uuid.UUID) {
	t.Helper()
	e := New(WithKeymap(testKeymap()))
	id, err := e.NewWindow(WindowArgs{Width: width, Height: height, Paths: paths})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = e.CloseWindow(id) })
	return e, id
}

func frame(t *testing.T, e *Editor, id uuid.UUID) *core.Frame {
	t.Helper()
	f, err := e.Frame(id)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestFrameLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "f.txt", "hello\nworld")
	e, id := openSized(t, 60, 8, path)

	f := frame(t, e, id)
	want := []string{
		fit(path, 60),
		tabLabel("f.txt"),
		"hello",
		"world",
		"",
		"",
		"",
		" 1:1",
	}
	if diff := cmp.Diff(want, f.Text()); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
	if want := (core.Cursor{X: 0, Y: textTop, Visible: true}); f.Cursor != want {
		t.Errorf("cursor = %+v, want %+v", f.Cursor, want)
	}

	th := core.DefaultTheme()
	spans := f.Lines[textTop].Spans
	if len(spans) != 2 || spans[0].Text != "h" || !spans[0].Style.Equals(th.Selection) ||
		spans[1].Text != "ello" || !spans[1].Style.Equals(th.Text) {
		t.Errorf("cursor row spans = %+v", spans)
	}
}

func TestFrameProjectTitle(t *testing.T) {
	dir := t.TempDir()
	e, id := openSized(t, 200, 5, dir, filepath.Join(dir, "f.txt"))
	if got := frame(t, e, id).Text()[titleRow]; got != dir {
		t.Errorf("title = %q, want %q", got, dir)
	}
}

func TestFrameStatus(t *testing.T) {
	e, id := openSized(t, 40, 6)

	press(t, e, id, "x")
	if got := frame(t, e, id).Text()[5]; got != " 1:2 [+]" {
		t.Errorf("dirty status = %q", got)
	}

	press(t, e, id, "ctrl+f", "a", "b")
	f := frame(t, e, id)
	if got := f.Text()[5]; got != "/ab" {
		t.Errorf("search status = %q", got)
	}
	if want := (core.Cursor{X: 3, Y: 5, Visible: true}); f.Cursor != want {
		t.Errorf("search cursor = %+v, want %+v", f.Cursor, want)
	}
}

func TestFrameSelectionCoversNewline(t *testing.T) {
	e, id := openSized(t, 40, 6)
	press(t, e, id, "a", "b", "enter", "c", "d")

	w, _ := e.Window(id)
	r, err := selection.II(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	w.ActiveView().Selections().SetPrimary(selection.New(r))

	f := frame(t, e, id)
	spans := f.Lines[textTop].Spans
	if len(spans) != 1 || spans[0].Text != "ab " || !spans[0].Style.Equals(core.DefaultTheme().Selection) {
		t.Errorf("selected row spans = %+v", spans)
	}
	if got := f.Text()[textTop+1]; got != "cd" {
		t.Errorf("second row = %q", got)
	}
}

func TestFrameTabOverflow(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		paths = append(paths, writeFile(t, dir, name, name))
	}
	e, id := openSized(t, 40, 6, paths...)

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"first", nil, tabLabel("a") + tabLabel("b") + overflow},
		{"middle", []string{"ctrl+n", "ctrl+n"}, overflow + tabLabel("b") + tabLabel("c") + overflow},
		{"last", []string{"ctrl+n", "ctrl+n"}, overflow + tabLabel("d") + tabLabel("e")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			press(t, e, id, tt.keys...)
			if got := frame(t, e, id).Text()[tabRow]; got != tt.want {
				t.Errorf("tab bar = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFrameTinyWindow(t *testing.T) {
	for _, height := range []int{0, 1, 2} {
		e, id := openSized(t, 10, height)
		f := frame(t, e, id)
		if len(f.Lines) != height || f.Cursor.Visible {
			t.Errorf("height %d: %d lines, cursor %+v", height, len(f.Lines), f.Cursor)
		}
	}
}

func TestRenderOnlyWhenChanged(t *testing.T) {
	e, id := openSized(t, 20, 5)

	out, err := e.Render(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("first render produced no output")
	}
	if out, _ := e.Render(id); out != nil {
		t.Errorf("unchanged render = %q, want nil", out)
	}

	press(t, e, id, "z")
	out, err = e.Render(id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "z") {
		t.Errorf("render after typing lacks the new text: %q", out)
	}
}

func TestRenderAfterResizeAndTheme(t *testing.T) {
	e, id := openSized(t, 20, 5)
	if _, err := e.Render(id); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Feed(id, input.ResizeEvent(30, 6)); err != nil {
		t.Fatal(err)
	}
	w, _ := e.Window(id)
	if width, height := w.Size(); width != 30 || height != 6 {
		t.Errorf("window size = %dx%d, want 30x6", width, height)
	}
	if out, _ := e.Render(id); len(out) == 0 {
		t.Error("render after resize produced no output")
	}

	e.SetTheme(core.DefaultTheme())
	if out, _ := e.Render(id); len(out) == 0 {
		t.Error("render after a theme change produced no output")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"日本語", 5, "日本"},
		{"", 4, ""},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.width); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
	if got := tabLabel("a-very-long-file-name.go"); len([]rune(got)) != tabWidth {
		t.Errorf("tabLabel width = %d", len([]rune(got)))
	}
}
