package config

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// ChromaTheme derives a Theme from a named chroma style. Colors the style does
// not define stay empty so the defaults survive mergeTheme.
func ChromaTheme(name string) (Theme, bool) {
	sty, ok := styles.Registry[name]
	if !ok || sty == nil {
		return Theme{}, false
	}
	fg := func(tt chroma.TokenType) string {
		e := sty.Get(tt)
		if !e.Colour.IsSet() {
			return ""
		}
		return e.Colour.String()
	}
	bg := func(tt chroma.TokenType) string {
		e := sty.Get(tt)
		if !e.Background.IsSet() {
			return ""
		}
		return e.Background.String()
	}
	t := Theme{
		Theme:                name,
		Background:           bg(chroma.Background),
		Text:                 fg(chroma.Background),
		Keyword:              fg(chroma.Keyword),
		String:               fg(chroma.LiteralString),
		Comment:              fg(chroma.Comment),
		Number:               fg(chroma.LiteralNumber),
		Function:             fg(chroma.NameFunction),
		Operator:             fg(chroma.Operator),
		Type:                 fg(chroma.KeywordType),
		Property:             fg(chroma.NameAttribute),
		LineNumber:           fg(chroma.LineNumbers),
		LineNumberBackground: bg(chroma.LineNumbers),
		CurrentLine:          bg(chroma.LineHighlight),
		Error:                fg(chroma.Error),
		Warning:              fg(chroma.NameException),
	}
	if t.Text == "" {
		t.Text = fg(chroma.Text)
	}
	if t.MinimapBackground == "" {
		t.MinimapBackground = t.Background
	}
	return t, true
}
