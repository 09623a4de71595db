package key

import "strings"

// Modifier is a bit mask of held modifier keys.
type Modifier uint8

// Modifier bits. ModMeta is only reported by terminals that distinguish
// it from Alt.
const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// modifierOrder is the order modifiers appear in a key spec.
var modifierOrder = [...]struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "ctrl"},
	{ModShift, "shift"},
	{ModAlt, "alt"},
	{ModMeta, "meta"},
}

// modifierAliases are the extra names a key spec may use.
var modifierAliases = map[string]Modifier{
	"control": ModCtrl,
	"option":  ModAlt,
	"opt":     ModAlt,
	"cmd":     ModMeta,
	"super":   ModMeta,
}

// Has reports whether any bit of mod is set in m.
func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool  { return m.Has(ModMeta) }

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without returns m with mod cleared.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// String joins the held modifiers with "+" in key spec order, e.g.
// "ctrl+alt". ModNone is the empty string.
func (m Modifier) String() string {
	var b strings.Builder
	for _, o := range modifierOrder {
		if !m.Has(o.mod) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('+')
		}
		b.WriteString(o.name)
	}
	return b.String()
}

// ModifierFromName looks up a modifier by name, ignoring case. Unknown
// names yield ModNone.
func ModifierFromName(name string) Modifier {
	name = strings.ToLower(name)
	for _, o := range modifierOrder {
		if o.name == name {
			return o.mod
		}
	}
	return modifierAliases[name]
}
