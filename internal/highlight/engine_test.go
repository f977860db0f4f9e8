package highlight

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/textpos"
	"github.com/kobzarvs/codepad/internal/theme"
)

func builtin(t *testing.T, name string) config.Language {
	t.Helper()
	lang := config.BuiltinLanguages().Lookup(name)
	if lang == nil {
		t.Fatalf("no built-in language %q", name)
	}
	return *lang
}

func newTestEngine(t *testing.T, name string) *Engine {
	t.Helper()
	cfg := config.Default()
	return New(Compile(builtin(t, name)), theme.FromConfig(cfg.Theme), cfg.Font, Options{})
}

func kindAt(t *testing.T, a *AttributedText, off int) Kind {
	t.Helper()
	k, _ := a.KindAt(off)
	return k
}

func TestHighlightEmptyText(t *testing.T) {
	e := newTestEngine(t, "go")
	out := e.Highlight("", nil)
	if out.Length != 0 || len(out.Spans) != 0 {
		t.Fatalf("empty text: length=%d writes=%d, want 0/0", out.Length, len(out.Spans))
	}
	if out.Base != theme.FromConfig(config.Default().Theme).Base() {
		t.Fatalf("empty text lost its base style")
	}
}

func TestHighlightCommentWinsOverString(t *testing.T) {
	e := newTestEngine(t, "go")
	src := `// say "hi" now`
	out := e.Highlight(src, nil)
	for i := 0; i < len(src); i++ {
		if k := kindAt(t, out, i); k != Comment {
			t.Fatalf("offset %d kind = %v, want comment", i, k)
		}
	}
	for _, sp := range out.Spans {
		if sp.Kind == String {
			t.Fatalf("unexpected string span %v inside comment", sp.Range)
		}
	}
}

func TestHighlightCommentAfterStringWithMarker(t *testing.T) {
	e := newTestEngine(t, "python")
	src := `x = "#" # if return`
	out := e.Highlight(src, nil)
	for i := 8; i < len(src); i++ {
		if k := kindAt(t, out, i); k != Comment {
			t.Fatalf("offset %d kind = %v, want comment", i, k)
		}
	}
	for _, sp := range out.Spans {
		if sp.Kind == Keyword {
			t.Fatalf("keyword span %v inside trailing comment", sp.Range)
		}
	}
}

func TestHighlightPythonScenario(t *testing.T) {
	e := newTestEngine(t, "python")
	src := "# comment\ndef f():\n    return 1"
	out := e.Highlight(src, nil)

	for i := 0; i < 9; i++ {
		if k := kindAt(t, out, i); k != Comment {
			t.Fatalf("offset %d kind = %v, want comment", i, k)
		}
	}
	cases := []struct {
		off  int
		want Kind
	}{
		{10, Keyword}, {12, Keyword}, // def
		{14, Function},               // f
		{23, Keyword}, {28, Keyword}, // return
		{30, Number}, // 1
	}
	for _, c := range cases {
		if k := kindAt(t, out, c.off); k != c.want {
			t.Fatalf("offset %d (%q) kind = %v, want %v", c.off, src[c.off], k, c.want)
		}
	}
	for _, off := range []int{13, 15, 16, 17, 9} {
		if k, ok := out.KindAt(off); ok {
			t.Fatalf("offset %d (%q) colored %v, want plain", off, src[off], k)
		}
	}
}

func TestHighlightFunctionColorsIdentifierOnly(t *testing.T) {
	e := newTestEngine(t, "go")
	src := "x := compute(1)"
	out := e.Highlight(src, nil)
	if k := kindAt(t, out, 5); k != Function {
		t.Fatalf("compute kind = %v, want function", k)
	}
	if _, ok := out.KindAt(12); ok {
		t.Fatalf("parenthesis must not be colored")
	}
	if k := kindAt(t, out, 13); k != Number {
		t.Fatalf("argument kind = %v, want number", k)
	}
}

func TestHighlightBlockCommentAboveViewport(t *testing.T) {
	e := newTestEngine(t, "go")
	var b strings.Builder
	b.WriteString("/*\n")
	for i := 0; i < 50; i++ {
		b.WriteString("func x() { return 1 }\n")
	}
	b.WriteString("*/\nfunc y() {}\n")
	src := b.String()

	mid := strings.Index(src, "func") + 22*25
	visible := textpos.Range{Start: mid, End: mid + 40}
	out := e.Highlight(src, &visible)
	for off := visible.Start; off < visible.End; off++ {
		if k := kindAt(t, out, off); k != Comment {
			t.Fatalf("offset %d kind = %v, want comment", off, k)
		}
	}
}

func TestHighlightViewportRestriction(t *testing.T) {
	e := newTestEngine(t, "go")
	var b strings.Builder
	for i := 0; i < 2000; i++ {
		b.WriteString("func f() { s := \"str\" // note\n\treturn len(s) + 42 }\n")
	}
	src := b.String()
	visible := textpos.Range{Start: 30_017, End: 31_503}

	narrow := e.Highlight(src, &visible)
	for _, sp := range narrow.Spans {
		if sp.Range.Start < visible.Start || sp.Range.End > visible.End {
			t.Fatalf("write %v outside visible range %v", sp.Range, visible)
		}
	}

	full := e.Highlight(src, nil)
	if len(narrow.Spans) >= len(full.Spans) {
		t.Fatalf("narrow writes = %d, full writes = %d", len(narrow.Spans), len(full.Spans))
	}
	for off := visible.Start; off < visible.End; off++ {
		if narrow.StyleAt(off) != full.StyleAt(off) {
			t.Fatalf("offset %d styled differently in viewport pass", off)
		}
	}
}

func TestHighlightLargeFileDegrades(t *testing.T) {
	e := newTestEngine(t, "go")
	chunk := `func main() { x := "quoted" } // c` + "\n"
	src := strings.Repeat(chunk, 200_000/len(chunk)+1)[:200_000]
	out := e.Highlight(src, nil)
	if len(out.Spans) != 0 {
		t.Fatalf("writes = %d, want 0 for oversized text", len(out.Spans))
	}
	if n := len(out.Colors()); n != 2 {
		t.Fatalf("distinct colors = %d, want 2", n)
	}
	if out.Length != 200_000 {
		t.Fatalf("Length = %d", out.Length)
	}
}

func TestHighlightIsDeterministic(t *testing.T) {
	e := newTestEngine(t, "javascript")
	src := "const a = `t` + 'x'; /* c */ console.log(a, 0x1F)"
	r := textpos.Range{Start: 4, End: 40}
	a := e.Highlight(src, &r)
	b := e.Highlight(src, &r)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated highlight differs")
	}
}

func TestHighlightUTF16Offsets(t *testing.T) {
	e := newTestEngine(t, "go")
	src := "s := \"😀\"; return"
	out := e.Highlight(src, nil)
	// The emoji is two code units, so the string spans [5, 9).
	if k := kindAt(t, out, 8); k != String {
		t.Fatalf("closing quote kind = %v, want string", k)
	}
	if k := kindAt(t, out, 11); k != Keyword {
		t.Fatalf("return kind = %v, want keyword", k)
	}
	if out.Length != textpos.UnitLen(src) {
		t.Fatalf("Length = %d, want %d", out.Length, textpos.UnitLen(src))
	}
}

func TestHighlightMalformedPatternOmitted(t *testing.T) {
	lang := config.Language{
		Name:        "broken",
		Keywords:    []string{"let"},
		LineComment: `//.*`,
		Number:      `(\d+`,
		Strings:     []string{`"[^"]*"`, `[unterminated`},
	}
	ps := Compile(lang)
	if ps.Omitted != 2 {
		t.Fatalf("Omitted = %d, want 2", ps.Omitted)
	}
	cfg := config.Default()
	out := New(ps, theme.FromConfig(cfg.Theme), cfg.Font, Options{}).Highlight(`let x = "1" // 2`, nil)
	if k := kindAt(t, out, 0); k != Keyword {
		t.Fatalf("let kind = %v, want keyword", k)
	}
	if k := kindAt(t, out, 9); k != String {
		t.Fatalf("string kind = %v, want string", k)
	}
}

func TestHighlightEmptyVisibleRange(t *testing.T) {
	e := newTestEngine(t, "go")
	r := textpos.Range{Start: 500, End: 600}
	out := e.Highlight("func main() {}", &r)
	if len(out.Spans) != 0 {
		t.Fatalf("writes = %d for a range past the end", len(out.Spans))
	}
}

func TestRunsCoverText(t *testing.T) {
	e := newTestEngine(t, "go")
	src := "a := 1 // x\nb := \"y\""
	out := e.Highlight(src, nil)
	runs := out.Runs()
	pos := 0
	for _, r := range runs {
		if r.Range.Start != pos {
			t.Fatalf("run %v starts at %d, want %d", r.Range, r.Range.Start, pos)
		}
		for off := r.Range.Start; off < r.Range.End; off++ {
			if out.StyleAt(off) != r.Style {
				t.Fatalf("run style differs from StyleAt(%d)", off)
			}
		}
		pos = r.Range.End
	}
	if pos != out.Length {
		t.Fatalf("runs end at %d, want %d", pos, out.Length)
	}
}

func TestApplyRejectsOutOfBounds(t *testing.T) {
	out := &AttributedText{Length: 5}
	if out.apply(textpos.Range{Start: 3, End: 9}, Keyword, out.Base) {
		t.Fatalf("apply accepted an out-of-bounds range")
	}
	if out.dropped != 1 || len(out.Spans) != 0 {
		t.Fatalf("dropped=%d writes=%d", out.dropped, len(out.Spans))
	}
}

func TestRegistryCachesPatternSets(t *testing.T) {
	r := NewRegistry()
	lang := builtin(t, "python")
	a := r.Get(lang)
	b := r.Get(lang)
	if a != b {
		t.Fatalf("Registry compiled the same language twice")
	}
	r.Invalidate("Python")
	if c := r.Get(lang); c == a {
		t.Fatalf("Invalidate did not drop the cached set")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
}
