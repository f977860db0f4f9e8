package theme

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/codepad/internal/config"
)

func TestParseColor(t *testing.T) {
	if got := parseColor("#FF0000", tcell.ColorBlack); got != tcell.NewRGBColor(255, 0, 0) {
		t.Fatalf("parseColor hex = %v", got)
	}
	if got := parseColor("red", tcell.ColorBlack); got != tcell.ColorRed {
		t.Fatalf("parseColor name = %v, want red", got)
	}
	if got := parseColor("#zz0000", tcell.ColorBlue); got != tcell.ColorBlue {
		t.Fatalf("parseColor invalid hex = %v, want fallback", got)
	}
	if got := parseColor("", tcell.ColorGreen); got != tcell.ColorGreen {
		t.Fatalf("parseColor empty = %v, want fallback", got)
	}
}

func TestFromConfigFallsBackToText(t *testing.T) {
	p := FromConfig(config.Theme{Text: "#010203", Background: "#000000"})
	want := tcell.NewRGBColor(1, 2, 3)
	if p.Keyword != want || p.Comment != want {
		t.Fatalf("syntax colors should fall back to text color, got keyword=%v comment=%v", p.Keyword, p.Comment)
	}
	fg, bg, _ := p.Base().Decompose()
	if fg != want || bg != tcell.NewRGBColor(0, 0, 0) {
		t.Fatalf("Base = %v/%v", fg, bg)
	}
}

func TestFromConfigDefaults(t *testing.T) {
	p := FromConfig(config.Default().Theme)
	if p.Keyword == p.Text || p.Comment == p.String {
		t.Fatalf("default theme colors collapsed: %#v", p)
	}
}
