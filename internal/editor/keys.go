package editor

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/codepad/internal/textpos"
)

// HandleKey applies one key event and reports whether the user asked to quit.
func (s *Session) HandleKey(ev *tcell.EventKey) bool {
	extend := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return false
		}
		s.Insert(string(ev.Rune()))
	case tcell.KeyEnter:
		s.InsertNewline()
	case tcell.KeyTab:
		s.Insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.Backspace()
	case tcell.KeyDelete:
		s.DeleteForward()
	case tcell.KeyLeft:
		s.MoveLeft(extend)
	case tcell.KeyRight:
		s.MoveRight(extend)
	case tcell.KeyUp:
		s.MoveUp(extend)
	case tcell.KeyDown:
		s.MoveDown(extend)
	case tcell.KeyHome:
		s.MoveLineStart(extend)
	case tcell.KeyEnd:
		s.MoveLineEnd(extend)
	case tcell.KeyPgUp:
		s.PageUp(extend)
	case tcell.KeyPgDn:
		s.PageDown(extend)
	case tcell.KeyCtrlA:
		s.SetSelection(textpos.Range{End: s.text.Len()})
	}
	return false
}

// HandleMouse scrolls on wheel events and places the cursor on click.
func (s *Session) HandleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		s.Scroll(-3)
	case buttons&tcell.WheelDown != 0:
		s.Scroll(3)
	case buttons&tcell.Button1 != 0:
		x, y := ev.Position()
		s.clickAt(x, y)
	}
}

func (s *Session) clickAt(x, y int) {
	row := s.scroll + y
	if y < 0 || y >= s.height || row >= len(s.layout) {
		return
	}
	target := x - s.gutterWidth()
	start := s.layout[row]
	end := s.lineEnd(row)
	off := start
	for off < end {
		next := s.nextRune(off)
		if s.visualCol(start, next) > target {
			break
		}
		off = next
	}
	s.MoveCursor(off)
}
