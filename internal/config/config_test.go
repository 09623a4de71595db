package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/tandem/internal/input/key"
	"github.com/dshills/tandem/internal/input/keymap"
	"github.com/dshills/tandem/internal/renderer/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Host != "0.0.0.0" || cfg.Port != 8080 {
		t.Errorf("address = %s", cfg.Addr())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	km, err := cfg.BuildKeymap()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ctx  keymap.Context
		spec string
		want keymap.Kind
	}{
		{keymap.ContextBuffer, "ctrl+q", keymap.CmdQuit},
		{keymap.ContextSearch, "ctrl+q", keymap.CmdQuit},
		{keymap.ContextBuffer, "ctrl+s", keymap.CmdSave},
		{keymap.ContextSearch, "enter", keymap.CmdSubmit},
		{keymap.ContextSearch, "esc", keymap.CmdClose},
		{keymap.ContextBuffer, "backspace", keymap.CmdDeleteBackward},
		{keymap.ContextBuffer, "ctrl+n", keymap.CmdNextView},
		{keymap.ContextBuffer, "pagedown", keymap.CmdScrollDown},
	}
	for _, tt := range tests {
		cmd, ok := km.Lookup(tt.ctx, key.MustParse(tt.spec))
		if !ok || cmd.Kind != tt.want {
			t.Errorf("Lookup(%v, %s) = %v, %v; want %v", tt.ctx, tt.spec, cmd, ok, tt.want)
		}
	}
	if _, ok := km.Lookup(keymap.ContextBuffer, key.MustParse("enter")); ok {
		t.Error("enter should be unbound in the buffer context so it inserts a newline")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "tandem.yaml", `
host: 127.0.0.1
port: 9000
keymap:
  - keys: [ctrl+x]
    command: quit
theme:
  title: {fg: "#ff0000"}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if len(cfg.Keymap) != 1 || cfg.Keymap[0].Command != "quit" {
		t.Errorf("keymap not replaced: %+v", cfg.Keymap)
	}
	if cfg.Theme.Title.Fg != "#ff0000" || cfg.Theme.Title.Bold {
		t.Errorf("title = %+v", cfg.Theme.Title)
	}
	if cfg.Theme.Status != Default().Theme.Status {
		t.Errorf("unset theme entry lost its default: %+v", cfg.Theme.Status)
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	cfg, err := Load(writeFile(t, "tandem.yml", "port: 7000\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "0.0.0.0" || cfg.Port != 7000 {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if len(cfg.Keymap) != len(Default().Keymap) {
		t.Errorf("default keymap dropped: %d bindings", len(cfg.Keymap))
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "tandem.toml", `
host = "10.0.0.2"
port = 8181

[[keymap]]
keys = ["ctrl+j"]
command = "scroll_down"
args = { count = 5 }
contexts = ["buffer", "search"]

[theme.selection]
bg = "#333"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr() != "10.0.0.2:8181" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	km, err := cfg.BuildKeymap()
	if err != nil {
		t.Fatal(err)
	}
	cmd, ok := km.Lookup(keymap.ContextSearch, key.MustParse("ctrl+j"))
	if !ok || cmd != (keymap.Command{Kind: keymap.CmdScrollDown, Count: 5}) {
		t.Errorf("Lookup = %v, %v", cmd, ok)
	}
	theme, err := cfg.Theme.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if want := core.ColorFromRGB(0x33, 0x33, 0x33); !theme.Selection.Background.Equals(want) {
		t.Errorf("selection bg = %v", theme.Selection.Background)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"ipv6 host", "a.yaml", "host: \"::1\"\n", ErrInvalidConfig},
		{"unknown command", "b.yaml", "keymap:\n  - keys: [a]\n    command: fly\n", keymap.ErrUnknownCommand},
		{"unknown context", "c.yaml", "keymap:\n  - keys: [a]\n    command: save\n    contexts: [normal]\n", keymap.ErrUnknownContext},
		{"bad key", "d.yaml", "keymap:\n  - keys: [hyper+a]\n    command: save\n", key.ErrInvalidSpec},
		{"bad color", "e.yaml", "theme:\n  text: {fg: \"#zzzzzz\"}\n", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "host: 127.0.0.1\nport: [\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line == 0 {
		t.Errorf("no line in %v", pe)
	}

	_, err = Load(writeFile(t, "bad.toml", "host = \"127.0.0.1\"\nport = \n"))
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("line = %d, want 2 (%v)", pe.Line, pe)
	}

	_, err = Load(writeFile(t, "typo.yaml", "prot: 80\n"))
	if !errors.As(err, &pe) {
		t.Errorf("unknown field: error = %v, want *ParseError", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v", err)
	}
}

func TestThemeResolve(t *testing.T) {
	theme, err := Theme{}.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if !theme.Selection.Attributes.Has(core.AttrReverse) {
		t.Error("colorless selection should fall back to reverse video")
	}
	if !theme.Text.Equals(core.DefaultStyle()) {
		t.Errorf("text = %+v", theme.Text)
	}
	if _, err := Default().Theme.Resolve(); err != nil {
		t.Errorf("default theme: %v", err)
	}
}

func TestFormatOf(t *testing.T) {
	if FormatOf("x.TOML") != FormatTOML || FormatOf("x.yaml") != FormatYAML || FormatOf("x") != FormatYAML {
		t.Error("FormatOf mismatch")
	}
}
