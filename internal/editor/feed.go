package editor

import (
	"errors"

	"github.com/google/uuid"

	"github.com/dshills/tandem/internal/engine/buffer"
	"github.com/dshills/tandem/internal/engine/selection"
	"github.com/dshills/tandem/internal/input"
	"github.com/dshills/tandem/internal/input/key"
	"github.com/dshills/tandem/internal/input/keymap"
)

// Feed applies one input event to a window. quit is true when the event
// ends the session. Input nothing is bound to is logged and dropped.
func (e *Editor) Feed(id uuid.UUID, ev input.Event) (quit bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, v, buf, err := e.resolve(id)
	if err != nil {
		return false, err
	}

	switch ev.Kind {
	case input.KindKey:
		return e.feedKey(w, v, buf, ev.Key)
	case input.KindScroll:
		e.scrollWheel(v, buf, ev.Direction)
	case input.KindResize:
		w.resize(ev.Width, ev.Height)
		w.last = nil
		if w.encoder != nil {
			w.encoder.Invalidate()
		}
	default:
		e.logger.Debug("ignoring %s", ev)
	}
	return false, nil
}

func (e *Editor) feedKey(w *Window, v *View, buf *buffer.Buffer, k key.Event) (bool, error) {
	if cmd, ok := e.keymap.Lookup(v.ctx, k); ok {
		return e.execute(w, v, buf, cmd)
	}

	switch v.ctx {
	case keymap.ContextSearch:
		switch {
		case k.IsChar():
			v.pushQuery(k.Rune)
			return false, nil
		case k == key.NewSpecialEvent(key.KeyBackspace, key.ModNone):
			v.popQuery()
			return false, nil
		}
	case keymap.ContextBuffer:
		if text, ok := insertable(k); ok {
			e.insert(w, v, buf, text)
			return false, nil
		}
	}
	e.logger.Debug("unbound key %s in %s context", k, v.ctx)
	return false, nil
}

// insertable returns the text a key types into a buffer.
func insertable(k key.Event) (string, bool) {
	switch {
	case k.IsChar():
		return string(k.Rune), true
	case k == key.NewSpecialEvent(key.KeyEnter, key.ModNone):
		return "\n", true
	case k == key.NewSpecialEvent(key.KeyTab, key.ModNone):
		return "\t", true
	}
	return "", false
}

func (e *Editor) execute(w *Window, v *View, buf *buffer.Buffer, cmd keymap.Command) (bool, error) {
	sels := v.sels
	switch cmd.Kind {
	case keymap.CmdQuit:
		return true, nil

	case keymap.CmdSave:
		e.save(buf)

	case keymap.CmdClose:
		if v.ctx == keymap.ContextSearch {
			v.endSearch()
			break
		}
		if err := w.CloseActive(); err != nil {
			e.logger.Debug("close: %v", err)
		}

	case keymap.CmdDeleteBackward:
		if v.ctx == keymap.ContextSearch {
			v.popQuery()
			break
		}
		sel, err := deleteBackward(sels.Primary(), buf)
		if err != nil {
			e.logger.Warn("delete backward: %v", err)
		}
		sels.SetPrimary(sel.Clamp(buf.Len()))
		e.reveal(w, v, buf)

	case keymap.CmdMoveBackward, keymap.CmdMoveForward:
		delta := 1
		if cmd.Kind == keymap.CmdMoveBackward {
			delta = -1
		}
		sels.SetPrimary(selection.MoveHorizontal(sels.Primary(), delta, buf.Len()))
		e.reveal(w, v, buf)

	case keymap.CmdMoveUp, keymap.CmdMoveDown:
		rows := 1
		if cmd.Kind == keymap.CmdMoveUp {
			rows = -1
		}
		sels.SetPrimary(selection.MoveVertical(sels.Primary(), buf, rows))
		e.reveal(w, v, buf)

	case keymap.CmdNextView:
		w.NextView()

	case keymap.CmdPreviousView:
		w.PreviousView()

	case keymap.CmdScrollDown:
		v.scroll(buf, 0, cmd.Count)
	case keymap.CmdScrollUp:
		v.scroll(buf, 0, -cmd.Count)
	case keymap.CmdScrollLeft:
		v.scroll(buf, -cmd.Count, 0)
	case keymap.CmdScrollRight:
		v.scroll(buf, cmd.Count, 0)

	case keymap.CmdSearch:
		v.beginSearch()

	case keymap.CmdSubmit:
		if v.ctx != keymap.ContextSearch {
			break
		}
		if matches := buf.Search(v.Query()).All(); len(matches) > 0 {
			sels.SetPrimary(selection.New(matches...))
			e.reveal(w, v, buf)
		}
		v.endSearch()

	default:
		e.logger.Warn("unhandled command %s", cmd)
	}
	return false, nil
}

// save writes a buffer to its file. Failures are logged, not returned:
// the user can fix the cause and save again.
func (e *Editor) save(buf *buffer.Buffer) {
	err := buf.Save()
	switch {
	case err == nil:
		e.logger.Info("saved %s", buf.Path())
		e.alias(buf)
	case errors.Is(err, buffer.ErrUntitled):
		e.logger.Debug("save: buffer %s has no file", buf.ID())
	default:
		e.logger.Error("save %s: %v", buf.Path(), err)
	}
}

// alias records the file id of a saved buffer when it differs from the
// buffer id, so other paths to the new file find the same buffer.
func (e *Editor) alias(buf *buffer.Buffer) {
	id, err := buffer.FileID(buf.Path())
	if err != nil {
		e.logger.Debug("file id of %s: %v", buf.Path(), err)
		return
	}
	if id != buf.ID() {
		e.aliases[id] = buf.ID()
	}
}

// insert types text at every primary region. A failed insert is logged
// and leaves the cursors inside the buffer; it never ends the session.
func (e *Editor) insert(w *Window, v *View, buf *buffer.Buffer, text string) {
	sel, err := selection.InsertText(v.sels.Primary(), buf, text)
	if err != nil {
		e.logger.Warn("insert %q: %v", text, err)
	}
	v.sels.SetPrimary(sel.Clamp(buf.Len()))
	e.reveal(w, v, buf)
}

// deleteBackward removes the character before each region and leaves a
// cursor where it was. Regions are handled last to first so earlier
// offsets stay valid.
func deleteBackward(sel selection.Selection, buf *buffer.Buffer) (selection.Selection, error) {
	regions := sel.Regions()
	cursors := make([]int, len(regions))
	for i := len(regions) - 1; i >= 0; i-- {
		at := regions[i].Begin()
		cursors[i] = at
		if at == 0 {
			continue
		}
		if err := buf.Delete(at-1, at); err != nil {
			return sel, err
		}
		cursors[i] = at - 1
		// every later cursor moved back by one
		for j := i + 1; j < len(cursors); j++ {
			cursors[j]--
		}
	}
	var out selection.Selection
	for _, c := range cursors {
		out.Insert(selection.Unit(c))
	}
	return out, nil
}

func (e *Editor) scrollWheel(v *View, buf *buffer.Buffer, d input.Direction) {
	switch d {
	case input.DirUp:
		v.scroll(buf, 0, -1)
	case input.DirDown:
		v.scroll(buf, 0, 1)
	case input.DirLeft:
		v.scroll(buf, -1, 0)
	case input.DirRight:
		v.scroll(buf, 1, 0)
	}
}

func (e *Editor) reveal(w *Window, v *View, buf *buffer.Buffer) {
	width, height := w.textArea()
	v.reveal(buf, width, height)
}
