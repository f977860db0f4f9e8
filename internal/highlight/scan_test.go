package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/textpos"
)

func scanAlphabet() *rapid.Generator[string] {
	return rapid.StringOf(rapid.SampledFrom([]rune{
		'a', 'f', ' ', '\n', '"', '\'', '`', '/', '*', '#', '1', '\\', 'é', '😀',
	}))
}

func scanLang(t *testing.T, name, src string) []TokenMatch {
	t.Helper()
	lang := config.BuiltinLanguages().Lookup(name)
	require.NotNil(t, lang)
	return ScanContext(textpos.NewText(src), Compile(*lang))
}

func TestScanContextFirstWins(t *testing.T) {
	got := scanLang(t, "go", `// say "hi" now`)
	require.Equal(t, []TokenMatch{
		{Range: textpos.Range{Start: 0, End: 15}, Kind: Comment},
	}, got)
}

func TestScanContextPrefersLongerOnTie(t *testing.T) {
	got := scanLang(t, "python", `"""a""" + ""`)
	require.Equal(t, []TokenMatch{
		{Range: textpos.Range{Start: 0, End: 7}, Kind: String},
		{Range: textpos.Range{Start: 10, End: 12}, Kind: String},
	}, got)
}

func TestScanContextCommentAfterStringWithMarker(t *testing.T) {
	got := scanLang(t, "python", `x = "#" # if return`)
	require.Equal(t, []TokenMatch{
		{Range: textpos.Range{Start: 4, End: 7}, Kind: String},
		{Range: textpos.Range{Start: 8, End: 19}, Kind: Comment},
	}, got)

	got = scanLang(t, "go", `u := "http://x" // if`)
	require.Equal(t, []TokenMatch{
		{Range: textpos.Range{Start: 5, End: 15}, Kind: String},
		{Range: textpos.Range{Start: 16, End: 21}, Kind: Comment},
	}, got)
}

func TestScanContextStringAfterCommentedQuote(t *testing.T) {
	got := scanLang(t, "go", `/* " */ s := "a"`)
	require.Equal(t, []TokenMatch{
		{Range: textpos.Range{Start: 0, End: 7}, Kind: Comment},
		{Range: textpos.Range{Start: 13, End: 16}, Kind: String},
	}, got)
}

func TestCodeGaps(t *testing.T) {
	accepted := []TokenMatch{
		{Range: textpos.Range{Start: 2, End: 4}},
		{Range: textpos.Range{Start: 4, End: 6}},
		{Range: textpos.Range{Start: 8, End: 10}},
	}
	require.Equal(t, []textpos.Range{{Start: 0, End: 2}, {Start: 6, End: 8}}, CodeGaps(10, accepted))
	require.Equal(t, []textpos.Range{{Start: 0, End: 5}}, CodeGaps(5, nil))
	require.Empty(t, CodeGaps(0, nil))
}

func TestScanContextProperties(t *testing.T) {
	langs := config.BuiltinLanguages()
	sets := []*PatternSet{
		Compile(*langs.Lookup("go")),
		Compile(*langs.Lookup("python")),
		Compile(*langs.Lookup("javascript")),
	}
	rapid.Check(t, func(rt *rapid.T) {
		src := scanAlphabet().Draw(rt, "src")
		ps := rapid.SampledFrom(sets).Draw(rt, "patterns")
		txt := textpos.NewText(src)

		accepted := ScanContext(txt, ps)
		for i := 1; i < len(accepted); i++ {
			require.LessOrEqual(rt, accepted[i-1].Range.End, accepted[i].Range.Start, "regions overlap")
		}
		for i := range accepted {
			for j := range accepted {
				if i != j {
					_, shared := accepted[i].Range.Intersect(accepted[j].Range)
					require.False(rt, shared)
				}
			}
		}

		// Gaps and accepted regions tile [0, len) exactly.
		covered := make([]int, txt.Len())
		for _, m := range accepted {
			for u := m.Range.Start; u < m.Range.End; u++ {
				covered[u]++
			}
		}
		for _, g := range CodeGaps(txt.Len(), accepted) {
			require.False(rt, g.Empty())
			for u := g.Start; u < g.End; u++ {
				covered[u]++
			}
		}
		for u, n := range covered {
			require.Equal(rt, 1, n, "unit %d covered %d times", u, n)
		}
	})
}

func TestCommentPrecedenceProperty(t *testing.T) {
	ps := Compile(*config.BuiltinLanguages().Lookup("go"))
	rapid.Check(t, func(rt *rapid.T) {
		before := rapid.StringMatching(`[a-z ]{0,8}`).Draw(rt, "before")
		inner := rapid.StringMatching(`[a-z ]{0,8}`).Draw(rt, "inner")
		after := rapid.StringMatching(`[a-z ]{0,8}`).Draw(rt, "after")
		src := "// " + before + `"` + inner + `"` + after
		accepted := ScanContext(textpos.NewText(src), ps)
		require.Len(rt, accepted, 1)
		require.Equal(rt, Comment, accepted[0].Kind)
		require.Equal(rt, textpos.Range{Start: 0, End: len(src)}, accepted[0].Range)
	})
}
