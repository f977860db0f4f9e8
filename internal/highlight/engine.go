// Package highlight implements regex based syntax coloring.
//
// A pass resolves comments and strings over the whole document first, since a
// block comment opened far above the viewport still decides what is code
// inside it. Keywords, numbers and call sites are then searched only in the
// code gaps that intersect the requested range, which keeps the per-keystroke
// cost proportional to the viewport instead of the document.
package highlight

import (
	"regexp"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/logger"
	"github.com/kobzarvs/codepad/internal/textpos"
	"github.com/kobzarvs/codepad/internal/theme"
)

type Options struct {
	// MaxChars is the size ceiling in UTF-16 units above which only the base
	// style is applied.
	MaxChars int
}

// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	patterns *PatternSet
	palette  theme.Palette
	font     config.Font
	maxChars int
}

func New(ps *PatternSet, palette theme.Palette, font config.Font, opts Options) *Engine {
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = config.DefaultMaxHighlightChars
	}
	return &Engine{
		patterns: ps,
		palette:  palette,
		font:     font,
		maxChars: maxChars,
	}
}

// Highlight colors text. visible, when non-nil, restricts every attribute
// write to that range.
func Highlight(text string, ps *PatternSet, palette theme.Palette, font config.Font, visible *textpos.Range) *AttributedText {
	return New(ps, palette, font, Options{}).Highlight(text, visible)
}

func (e *Engine) Highlight(text string, visible *textpos.Range) *AttributedText {
	return e.HighlightText(textpos.NewText(text), visible)
}

func (e *Engine) Patterns() *PatternSet {
	return e.patterns
}

func (e *Engine) HighlightText(t *textpos.Text, visible *textpos.Range) *AttributedText {
	out := newAttributed(t, e.font, e.palette.Base())
	if t.Len() == 0 || e.patterns == nil {
		return out
	}
	if t.Len() > e.maxChars {
		logger.Debug("highlight skipped for large text", "length", t.Len(), "limit", e.maxChars)
		return out
	}

	window := textpos.Range{End: t.Len()}
	if visible != nil {
		window = visible.Clamp(t.Len())
		if window.Empty() {
			return out
		}
	}

	accepted := ScanContext(t, e.patterns)
	for _, m := range accepted {
		if r, ok := m.Range.Intersect(window); ok {
			out.apply(r, m.Kind, e.style(m.Kind))
		}
	}

	for _, gap := range CodeGaps(t.Len(), accepted) {
		clip, ok := gap.Intersect(window)
		if !ok {
			continue
		}
		e.scanGap(out, t, gap, clip)
	}
	if out.dropped > 0 {
		logger.Debug("attribute writes skipped", "count", out.dropped, "length", t.Len())
	}
	return out
}

// scanGap runs the code patterns over the part of gap that clip covers.
// The searched text is widened to whole lines (within the gap) so tokens cut
// by the viewport edge are still recognized; writes stay inside clip.
func (e *Engine) scanGap(out *AttributedText, t *textpos.Text, gap, clip textpos.Range) {
	src := t.String()
	gb0, gb1 := t.ByteRange(gap)
	b0, b1 := t.ByteRange(clip)
	for b0 > gb0 && src[b0-1] != '\n' {
		b0--
	}
	for b1 < gb1 && src[b1] != '\n' {
		b1++
	}
	sub := src[b0:b1]
	ps := e.patterns

	paint := func(re *regexp.Regexp, kind Kind) {
		if re == nil {
			return
		}
		style := e.style(kind)
		for _, loc := range re.FindAllStringIndex(sub, -1) {
			e.write(out, t, clip, b0+loc[0], b0+loc[1], kind, style)
		}
	}

	paint(ps.Number, Number)
	for _, re := range ps.Keywords {
		paint(re, Keyword)
	}
	for _, re := range ps.Builtins {
		paint(re, Builtin)
	}
	if ps.Function != nil {
		style := e.style(Function)
		for _, loc := range ps.Function.FindAllStringSubmatchIndex(sub, -1) {
			start, end := loc[0], loc[1]
			if len(loc) >= 4 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}
			e.write(out, t, clip, b0+start, b0+end, Function, style)
		}
	}
}

func (e *Engine) write(out *AttributedText, t *textpos.Text, clip textpos.Range, b0, b1 int, kind Kind, style tcell.Style) {
	if b1 <= b0 {
		return
	}
	r, ok := t.UnitRange(b0, b1).Intersect(clip)
	if !ok {
		return
	}
	out.apply(r, kind, style)
}

func (e *Engine) style(kind Kind) tcell.Style {
	p := e.palette
	switch kind {
	case Comment:
		return p.Foreground(p.Comment)
	case String:
		return p.Foreground(p.String)
	case Number:
		return p.Foreground(p.Number)
	case Keyword:
		return p.Foreground(p.Keyword)
	case Builtin:
		return p.Foreground(p.Type)
	case Function:
		return p.Foreground(p.Function)
	}
	return p.Base()
}
