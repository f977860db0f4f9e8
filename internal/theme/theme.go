// Package theme resolves configured color names into tcell colors and styles.
package theme

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/codepad/internal/config"
)

// Palette is the fixed set of named colors the editing core draws with.
type Palette struct {
	Background           tcell.Color
	Text                 tcell.Color
	Keyword              tcell.Color
	String               tcell.Color
	Comment              tcell.Color
	Number               tcell.Color
	Function             tcell.Color
	Operator             tcell.Color
	Type                 tcell.Color
	Property             tcell.Color
	LineNumber           tcell.Color
	LineNumberBackground tcell.Color
	Cursor               tcell.Color
	Selection            tcell.Color
	CurrentLine          tcell.Color
	BracketMatch         tcell.Color
	MinimapBackground    tcell.Color
	IndentGuide          tcell.Color
	Error                tcell.Color
	Warning              tcell.Color
}

func FromConfig(t config.Theme) Palette {
	bg := parseColor(t.Background, tcell.ColorBlack)
	fg := parseColor(t.Text, tcell.ColorWhite)
	return Palette{
		Background:           bg,
		Text:                 fg,
		Keyword:              parseColor(t.Keyword, fg),
		String:               parseColor(t.String, fg),
		Comment:              parseColor(t.Comment, fg),
		Number:               parseColor(t.Number, fg),
		Function:             parseColor(t.Function, fg),
		Operator:             parseColor(t.Operator, fg),
		Type:                 parseColor(t.Type, fg),
		Property:             parseColor(t.Property, fg),
		LineNumber:           parseColor(t.LineNumber, tcell.ColorGray),
		LineNumberBackground: parseColor(t.LineNumberBackground, bg),
		Cursor:               parseColor(t.Cursor, fg),
		Selection:            parseColor(t.Selection, tcell.ColorNavy),
		CurrentLine:          parseColor(t.CurrentLine, bg),
		BracketMatch:         parseColor(t.BracketMatch, tcell.ColorDarkSlateGray),
		MinimapBackground:    parseColor(t.MinimapBackground, bg),
		IndentGuide:          parseColor(t.IndentGuide, tcell.ColorGray),
		Error:                parseColor(t.Error, tcell.ColorRed),
		Warning:              parseColor(t.Warning, tcell.ColorYellow),
	}
}

// Base is the style of text that received no syntax color.
func (p Palette) Base() tcell.Style {
	return tcell.StyleDefault.Foreground(p.Text).Background(p.Background)
}

func (p Palette) Foreground(c tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(c).Background(p.Background)
}

func (p Palette) Gutter() tcell.Style {
	return tcell.StyleDefault.Foreground(p.LineNumber).Background(p.LineNumberBackground)
}

func (p Palette) GutterActive() tcell.Style {
	return tcell.StyleDefault.Foreground(p.Text).Background(p.LineNumberBackground)
}

func (p Palette) CurrentLineStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(p.Text).Background(p.CurrentLine)
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
