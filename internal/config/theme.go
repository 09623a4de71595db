package config

import (
	"fmt"

	"github.com/dshills/tandem/internal/renderer/core"
)

// StyleSpec is a style as written in the config file. Colors are hex
// strings ("#rrggbb" or "#rgb"); empty means the terminal default.
type StyleSpec struct {
	Fg      string `yaml:"fg,omitempty" toml:"fg,omitempty"`
	Bg      string `yaml:"bg,omitempty" toml:"bg,omitempty"`
	Bold    bool   `yaml:"bold,omitempty" toml:"bold,omitempty"`
	Reverse bool   `yaml:"reverse,omitempty" toml:"reverse,omitempty"`
}

// IsZero reports whether nothing is set.
func (s StyleSpec) IsZero() bool {
	return s == StyleSpec{}
}

// Resolve parses the colors.
func (s StyleSpec) Resolve() (core.Style, error) {
	fg, err := core.ColorFromHex(s.Fg)
	if err != nil {
		return core.Style{}, fmt.Errorf("fg: %w", err)
	}
	bg, err := core.ColorFromHex(s.Bg)
	if err != nil {
		return core.Style{}, fmt.Errorf("bg: %w", err)
	}
	style := core.DefaultStyle().WithForeground(fg).WithBackground(bg)
	if s.Bold {
		style = style.Bold()
	}
	if s.Reverse {
		style = style.Reverse()
	}
	return style, nil
}

// Theme holds one StyleSpec per screen element.
type Theme struct {
	Title     StyleSpec `yaml:"title" toml:"title"`
	Tab       StyleSpec `yaml:"tab" toml:"tab"`
	ActiveTab StyleSpec `yaml:"active_tab" toml:"active_tab"`
	Text      StyleSpec `yaml:"text" toml:"text"`
	Selection StyleSpec `yaml:"selection" toml:"selection"`
	Status    StyleSpec `yaml:"status" toml:"status"`
}

func (t *Theme) fields() []*StyleSpec {
	return []*StyleSpec{&t.Title, &t.Tab, &t.ActiveTab, &t.Text, &t.Selection, &t.Status}
}

func (t *Theme) merge(other Theme) {
	dst, src := t.fields(), other.fields()
	for i := range dst {
		if !src[i].IsZero() {
			*dst[i] = *src[i]
		}
	}
}

// Resolve parses every entry into a core.Theme.
func (t Theme) Resolve() (core.Theme, error) {
	var out core.Theme
	targets := []*core.Style{&out.Title, &out.Tab, &out.ActiveTab, &out.Text, &out.Selection, &out.Status}
	names := []string{"title", "tab", "active_tab", "text", "selection", "status"}
	for i, spec := range t.fields() {
		style, err := spec.Resolve()
		if err != nil {
			return core.Theme{}, fmt.Errorf("%s: %w", names[i], err)
		}
		*targets[i] = style
	}
	// A selection without colors of its own falls back to reverse video
	// so cursors stay visible.
	if out.Selection.Equals(core.DefaultStyle()) {
		out.Selection = out.Selection.Reverse()
	}
	return out, nil
}
