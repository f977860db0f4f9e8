package highlight

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/textpos"
)

type Kind int

const (
	Comment Kind = iota + 1
	String
	Number
	Keyword
	Builtin
	Function
)

func (k Kind) String() string {
	switch k {
	case Comment:
		return "comment"
	case String:
		return "string"
	case Number:
		return "number"
	case Keyword:
		return "keyword"
	case Builtin:
		return "builtin"
	case Function:
		return "function"
	}
	return "plain"
}

// Span is one attribute write. Later spans override earlier ones.
type Span struct {
	Range textpos.Range
	Kind  Kind
	Style tcell.Style
}

// Run is a maximal stretch of text drawn with one style. Kind is zero for
// text that only carries the base style.
type Run struct {
	Range textpos.Range
	Kind  Kind
	Style tcell.Style
}

// AttributedText is the output of a highlight pass: the base style that covers
// the whole text plus the syntax writes in application order.
type AttributedText struct {
	Text   string
	Length int
	Font   config.Font
	Base   tcell.Style
	Spans  []Span

	dropped int
}

func newAttributed(t *textpos.Text, font config.Font, base tcell.Style) *AttributedText {
	return &AttributedText{
		Text:   t.String(),
		Length: t.Len(),
		Font:   font,
		Base:   base,
	}
}

// apply records a write after validating it against the text bounds.
func (a *AttributedText) apply(r textpos.Range, kind Kind, style tcell.Style) bool {
	if r.Start < 0 || r.End > a.Length || r.Empty() {
		a.dropped++
		return false
	}
	a.Spans = append(a.Spans, Span{Range: r, Kind: kind, Style: style})
	return true
}

// StyleAt returns the effective style at a UTF-16 offset.
func (a *AttributedText) StyleAt(off int) tcell.Style {
	for i := len(a.Spans) - 1; i >= 0; i-- {
		if a.Spans[i].Range.Contains(off) {
			return a.Spans[i].Style
		}
	}
	return a.Base
}

// KindAt returns the kind of the last write covering off.
func (a *AttributedText) KindAt(off int) (Kind, bool) {
	for i := len(a.Spans) - 1; i >= 0; i-- {
		if a.Spans[i].Range.Contains(off) {
			return a.Spans[i].Kind, true
		}
	}
	return 0, false
}

// Colors returns the distinct foreground and background colors in effect.
func (a *AttributedText) Colors() []tcell.Color {
	seen := make(map[tcell.Color]bool)
	var out []tcell.Color
	add := func(st tcell.Style) {
		fg, bg, _ := st.Decompose()
		for _, c := range []tcell.Color{fg, bg} {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	add(a.Base)
	for _, sp := range a.Spans {
		add(sp.Style)
	}
	return out
}

// Runs flattens the writes into contiguous, non-overlapping runs covering the
// whole text.
func (a *AttributedText) Runs() []Run {
	if a.Length == 0 {
		return nil
	}
	if len(a.Spans) == 0 {
		return []Run{{Range: textpos.Range{End: a.Length}, Style: a.Base}}
	}
	lo, hi := a.Length, 0
	for _, sp := range a.Spans {
		lo = min(lo, sp.Range.Start)
		hi = max(hi, sp.Range.End)
	}
	// Paint span indices over the covered extent only; it is viewport sized.
	owner := make([]int32, hi-lo)
	for i := range owner {
		owner[i] = -1
	}
	for i, sp := range a.Spans {
		for u := sp.Range.Start; u < sp.Range.End; u++ {
			owner[u-lo] = int32(i)
		}
	}

	var runs []Run
	push := func(start, end int, idx int32) {
		r := Run{Range: textpos.Range{Start: start, End: end}, Style: a.Base}
		if idx >= 0 {
			r.Kind = a.Spans[idx].Kind
			r.Style = a.Spans[idx].Style
		}
		if n := len(runs); n > 0 && runs[n-1].Style == r.Style && runs[n-1].Kind == r.Kind && runs[n-1].Range.End == start {
			runs[n-1].Range.End = end
			return
		}
		runs = append(runs, r)
	}
	if lo > 0 {
		push(0, lo, -1)
	}
	start := lo
	for u := lo + 1; u <= hi; u++ {
		if u == hi || owner[u-lo] != owner[start-lo] {
			push(start, u, owner[start-lo])
			start = u
		}
	}
	if hi < a.Length {
		push(hi, a.Length, -1)
	}
	return runs
}
