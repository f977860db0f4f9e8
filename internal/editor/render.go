package editor

import (
	"fmt"
	"unicode/utf16"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/codepad/internal/brackets"
	"github.com/kobzarvs/codepad/internal/highlight"
	"github.com/kobzarvs/codepad/internal/lineindex"
	"github.com/kobzarvs/codepad/internal/textpos"
)

// Render draws the text area, gutter and status line. The bottom row is the
// status line; everything above it is text.
func (s *Session) Render(scr tcell.Screen) {
	w, h := scr.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := max(h-1, 0)
	s.SetViewSize(w, viewHeight)
	if s.ensureCursorVisible() {
		s.requestHighlight()
	}

	base := s.palette.Base()
	scr.SetStyle(base)
	scr.Clear()

	gutterWidth := s.gutterWidth()
	curRow, _ := s.CursorPosition()
	frame := renderFrame{
		runs:      s.runs(),
		selection: s.Selection(),
		matches:   s.MatchBrackets(),
		curRow:    curRow,
	}
	firstLine := s.firstGutterLine(viewHeight)
	for y := 0; y < viewHeight; y++ {
		row := s.scroll + y
		if row >= len(s.layout) {
			clearLine(scr, y, w, base)
			continue
		}
		if gutterWidth > 0 {
			s.drawGutter(scr, y, gutterWidth, firstLine+y+1, row == curRow)
		}
		s.drawLine(scr, y, w, gutterWidth, row, &frame)
	}
	if h > 1 {
		s.renderStatusline(scr, w, h-1)
	}

	cy := curRow - s.scroll
	if cy < 0 || cy >= viewHeight {
		scr.HideCursor()
		scr.Show()
		return
	}
	cx := gutterWidth + s.visualCol(s.layout[curRow], s.cursor)
	if cx >= w {
		cx = w - 1
	}
	scr.SetCursorStyle(tcell.CursorStyleSteadyBar)
	scr.ShowCursor(cx, cy)
	scr.Show()
}

type renderFrame struct {
	runs      []highlight.Run
	run       int
	selection textpos.Range
	matches   []brackets.Match
	curRow    int
}

// styleAt walks the runs forward; rows are drawn top to bottom so the index
// only ever advances.
func (f *renderFrame) styleAt(off int, base tcell.Style) tcell.Style {
	for f.run < len(f.runs) && f.runs[f.run].Range.End <= off {
		f.run++
	}
	if f.run < len(f.runs) && f.runs[f.run].Range.Contains(off) {
		return f.runs[f.run].Style
	}
	return base
}

func (f *renderFrame) isBracket(off int) bool {
	for _, m := range f.matches {
		if m.Open == off || m.Close == off {
			return true
		}
	}
	return false
}

// runs returns the applied highlight runs. A result built for another text
// length is still drawn until its replacement lands, up to the shorter
// length.
func (s *Session) runs() []highlight.Run {
	if s.applied == nil {
		return nil
	}
	return s.applied.Runs()
}

func (s *Session) gutterWidth() int {
	if s.lineNumberMode == LineNumberOff {
		return 0
	}
	// Format: " " + digits + " "
	return 1 + lineindex.Width(max(s.lines.LineCount(), len(s.layout))) + 1
}

// firstGutterLine finds the number of the top row in the gutter cache. Rows
// below it are numbered consecutively, so a cache that trails the live text
// shifts nothing but the first number.
func (s *Session) firstGutterLine(viewHeight int) int {
	last := min(s.scroll+max(viewHeight, 1), len(s.layout)) - 1
	visible := textpos.Range{Start: s.layout[s.scroll], End: s.lineEnd(last)}
	first, _ := lineindex.VisibleLines(s.lines, visible)
	return first
}

func (s *Session) drawGutter(scr tcell.Screen, y, gutterWidth, num int, active bool) {
	digits := gutterWidth - 2
	style := s.palette.Gutter()
	if active {
		style = s.palette.GutterActive()
	}
	numStr := fmt.Sprintf(" %*d ", digits, num)
	x := 0
	for _, r := range numStr {
		if x >= gutterWidth {
			break
		}
		scr.SetContent(x, y, r, nil, style)
		x++
	}
}

func (s *Session) drawLine(scr tcell.Screen, y, w, gutterWidth, row int, f *renderFrame) {
	start := s.layout[row]
	end := s.lineEnd(row)
	lineStyle := s.palette.Base()
	if row == f.curRow && f.selection.Empty() {
		lineStyle = s.palette.CurrentLineStyle()
	}
	for x := gutterWidth; x < w; x++ {
		scr.SetContent(x, y, ' ', nil, lineStyle)
	}

	_, bg, _ := lineStyle.Decompose()
	col := 0
	off := start
	for _, r := range s.text.Slice(textpos.Range{Start: start, End: end}) {
		style := f.styleAt(off, s.palette.Base()).Background(bg)
		switch {
		case f.selection.Contains(off):
			style = style.Background(s.palette.Selection)
		case f.isBracket(off):
			style = style.Background(s.palette.BracketMatch)
		}

		width := runewidth.RuneWidth(r)
		ch := r
		if r == '\t' {
			width = s.tabWidth - col%s.tabWidth
			ch = ' '
		} else if width < 1 {
			width = 1
		}
		for i := 0; i < width; i++ {
			x := gutterWidth + col + i
			if x >= w {
				return
			}
			if i == 0 {
				scr.SetContent(x, y, ch, nil, style)
			} else if r == '\t' {
				scr.SetContent(x, y, ' ', nil, style)
			}
		}
		col += width
		off += utf16.RuneLen(r)
	}
}

// visualCol is the screen column of unit offset off on the line starting at
// lineStart.
func (s *Session) visualCol(lineStart, off int) int {
	col := 0
	for _, r := range s.text.Slice(textpos.Range{Start: lineStart, End: off}) {
		if r == '\t' {
			col += s.tabWidth - col%s.tabWidth
			continue
		}
		col += max(runewidth.RuneWidth(r), 1)
	}
	return col
}

func (s *Session) renderStatusline(scr tcell.Screen, w, y int) {
	style := s.palette.Gutter()
	clearLine(scr, y, w, style)

	name := s.path
	if name == "" {
		name = "[scratch]"
	}
	if s.dirty {
		name += " [+]"
	}
	lang := "plain"
	if s.lang != nil {
		lang = s.lang.Name
	}
	row, col := s.CursorPosition()
	right := fmt.Sprintf("%s  %d:%d  v%d", lang, row+1, col+1, s.CurrentVersion())
	if s.branch != "" {
		right = s.branch + "  " + right
	}

	x := 0
	for _, r := range " " + name {
		if x >= w {
			break
		}
		scr.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
	rx := w - runewidth.StringWidth(right) - 1
	if rx <= x {
		return
	}
	for _, r := range right {
		scr.SetContent(rx, y, r, nil, style)
		rx += max(runewidth.RuneWidth(r), 1)
	}
}

func clearLine(scr tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		scr.SetContent(x, y, ' ', nil, style)
	}
}
