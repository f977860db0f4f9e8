package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/kobzarvs/codepad/internal/lineindex"
	"github.com/kobzarvs/codepad/internal/textpos"
)

// Cursor returns the caret offset in UTF-16 units.
func (s *Session) Cursor() int {
	return s.cursor
}

// Selection returns the selected range; it is empty when nothing is selected.
func (s *Session) Selection() textpos.Range {
	return textpos.Range{Start: min(s.anchor, s.cursor), End: max(s.anchor, s.cursor)}
}

// Anchor returns the fixed end of the selection. It equals Cursor when nothing
// is selected.
func (s *Session) Anchor() int {
	return s.anchor
}

// SetSelection selects r, leaving the cursor at r.End. Out of range offsets
// are clamped.
func (s *Session) SetSelection(r textpos.Range) {
	s.SetCaret(r.Start, r.End)
}

// SetCaret places the selection anchor and the cursor independently, so a
// selection can run backwards.
func (s *Session) SetCaret(anchor, cursor int) {
	s.anchor = s.snap(anchor)
	s.cursor = s.snap(cursor)
}

// MoveCursor places the cursor at offset and clears the selection.
func (s *Session) MoveCursor(offset int) {
	s.cursor = s.snap(offset)
	s.anchor = s.cursor
}

// CursorPosition returns the zero-based row and UTF-16 column of the cursor.
func (s *Session) CursorPosition() (row, col int) {
	row = lineindex.Find(s.layout, s.cursor)
	return row, s.cursor - s.layout[row]
}

func (s *Session) Insert(str string) {
	if str == "" {
		return
	}
	s.deleteSelection()
	s.replace(s.cursor, s.cursor, str)
	s.cursor += textpos.UnitLen(str)
	s.anchor = s.cursor
	s.notifyEdit()
}

func (s *Session) Backspace() {
	if s.deleteSelection() {
		s.notifyEdit()
		return
	}
	if s.cursor == 0 {
		return
	}
	src := s.text.String()
	b := s.text.ByteOf(s.cursor)
	_, size := utf8.DecodeLastRuneInString(src[:b])
	start := s.text.UnitOf(b - size)
	s.replace(start, s.cursor, "")
	s.cursor = start
	s.anchor = start
	s.notifyEdit()
}

func (s *Session) DeleteForward() {
	if s.deleteSelection() {
		s.notifyEdit()
		return
	}
	if s.cursor >= s.text.Len() {
		return
	}
	end := s.nextRune(s.cursor)
	s.replace(s.cursor, end, "")
	s.notifyEdit()
}

// InsertNewline inserts a line break and repeats the current line's leading
// whitespace.
func (s *Session) InsertNewline() {
	row, _ := s.CursorPosition()
	line := s.text.Slice(textpos.Range{Start: s.layout[row], End: s.cursor})
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	s.Insert("\n" + indent)
}

func (s *Session) MoveLeft(extend bool) {
	if !extend && !s.Selection().Empty() {
		s.MoveCursor(s.Selection().Start)
		return
	}
	if s.cursor > 0 {
		b := s.text.ByteOf(s.cursor)
		_, size := utf8.DecodeLastRuneInString(s.text.String()[:b])
		s.cursor = s.text.UnitOf(b - size)
	}
	s.settle(extend)
}

func (s *Session) MoveRight(extend bool) {
	if !extend && !s.Selection().Empty() {
		s.MoveCursor(s.Selection().End)
		return
	}
	s.cursor = s.nextRune(s.cursor)
	s.settle(extend)
}

func (s *Session) MoveUp(extend bool) {
	s.moveRows(-1, extend)
}

func (s *Session) MoveDown(extend bool) {
	s.moveRows(1, extend)
}

func (s *Session) MoveLineStart(extend bool) {
	row, _ := s.CursorPosition()
	s.cursor = s.layout[row]
	s.settle(extend)
}

func (s *Session) MoveLineEnd(extend bool) {
	row, _ := s.CursorPosition()
	s.cursor = s.lineEnd(row)
	s.settle(extend)
}

func (s *Session) PageUp(extend bool) {
	s.moveRows(-max(1, s.height-1), extend)
}

func (s *Session) PageDown(extend bool) {
	s.moveRows(max(1, s.height-1), extend)
}

// Scroll moves the view by delta rows without moving the cursor.
func (s *Session) Scroll(delta int) {
	next := min(max(0, s.scroll+delta), len(s.layout)-1)
	if next == s.scroll {
		return
	}
	s.scroll = next
	s.requestHighlight()
}

func (s *Session) ScrollRow() int {
	return s.scroll
}

// SetScrollRow puts row at the top of the view, clamped to the document.
func (s *Session) SetScrollRow(row int) {
	s.Scroll(row - s.scroll)
}

func (s *Session) moveRows(delta int, extend bool) {
	row, col := s.CursorPosition()
	target := min(max(0, row+delta), len(s.layout)-1)
	if target == row {
		if delta < 0 {
			s.cursor = 0
		} else {
			s.cursor = s.text.Len()
		}
		s.settle(extend)
		return
	}
	start := s.layout[target]
	s.cursor = s.snap(min(start+col, s.lineEnd(target)))
	s.settle(extend)
}

func (s *Session) settle(extend bool) {
	if !extend {
		s.anchor = s.cursor
	}
	if s.ensureCursorVisible() {
		s.requestHighlight()
	}
}

// lineEnd is the offset of row's last character, before its newline.
func (s *Session) lineEnd(row int) int {
	if row+1 < len(s.layout) {
		return s.layout[row+1] - 1
	}
	return s.text.Len()
}

func (s *Session) nextRune(off int) int {
	if off >= s.text.Len() {
		return s.text.Len()
	}
	b := s.text.ByteOf(off)
	_, size := utf8.DecodeRuneInString(s.text.String()[b:])
	return s.text.UnitOf(b + size)
}

// snap clamps off to the text and moves it off the low half of a surrogate
// pair.
func (s *Session) snap(off int) int {
	off = min(max(off, 0), s.text.Len())
	return s.text.UnitOf(s.text.ByteOf(off))
}

func (s *Session) deleteSelection() bool {
	sel := s.Selection()
	if sel.Empty() {
		return false
	}
	s.replace(sel.Start, sel.End, "")
	s.cursor = sel.Start
	s.anchor = sel.Start
	return true
}

// replace swaps the units in [start, end) for str and refreshes the layout.
func (s *Session) replace(start, end int, str string) {
	b0, b1 := s.text.ByteRange(textpos.Range{Start: start, End: end})
	src := s.text.String()
	next := src[:b0] + str + src[b1:]
	s.text = textpos.NewText(next)
	s.layout = lineindex.Build(next)
	s.dirty = true
}

// notifyEdit runs after every mutation: the bracket cache no longer
// describes the text, and the scheduler gets a throttled notification.
func (s *Session) notifyEdit() {
	s.brackets.Reset()
	s.ensureCursorVisible()
	s.requestHighlight()
}

// ensureCursorVisible adjusts the scroll row and reports whether it moved.
func (s *Session) ensureCursorVisible() bool {
	if s.height <= 0 {
		return false
	}
	row, _ := s.CursorPosition()
	prev := s.scroll
	// Far jumps center the cursor, near ones pin it to the edge.
	if row < s.scroll-1 || row >= s.scroll+s.height+1 {
		s.scroll = max(0, row-s.height/2)
	} else if row < s.scroll {
		s.scroll = row
	} else if row >= s.scroll+s.height {
		s.scroll = row - s.height + 1
	}
	return s.scroll != prev
}
