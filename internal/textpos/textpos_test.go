package textpos

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRangeIntersect(t *testing.T) {
	r := Range{Start: 2, End: 8}
	got, ok := r.Intersect(Range{Start: 5, End: 20})
	if !ok || got != (Range{Start: 5, End: 8}) {
		t.Fatalf("Intersect = %v %v, want {5 8} true", got, ok)
	}
	if _, ok := r.Intersect(Range{Start: 8, End: 10}); ok {
		t.Fatalf("touching ranges must not intersect")
	}
	if got := (Range{Start: -3, End: 50}).Clamp(10); got != (Range{Start: 0, End: 10}) {
		t.Fatalf("Clamp = %v, want {0 10}", got)
	}
	if got := (Range{Start: 7, End: 3}).Clamp(10); !got.Empty() {
		t.Fatalf("Clamp of inverted range = %v, want empty", got)
	}
}

func TestTextASCII(t *testing.T) {
	txt := NewText("a\nbb\nccc")
	if !txt.ascii {
		t.Fatalf("ascii = false, want true")
	}
	if txt.Len() != 8 {
		t.Fatalf("Len = %d, want 8", txt.Len())
	}
	if got := txt.Slice(Range{Start: 2, End: 4}); got != "bb" {
		t.Fatalf("Slice = %q, want %q", got, "bb")
	}
}

func TestTextSurrogatePairs(t *testing.T) {
	// "é" is one unit / two bytes, "😀" is two units / four bytes.
	txt := NewText("é😀x")
	if txt.Len() != 4 {
		t.Fatalf("Len = %d, want 4", txt.Len())
	}
	if got := txt.UnitOf(2); got != 1 {
		t.Fatalf("UnitOf(2) = %d, want 1", got)
	}
	if got := txt.UnitOf(6); got != 3 {
		t.Fatalf("UnitOf(6) = %d, want 3", got)
	}
	if got := txt.ByteOf(2); got != 2 {
		t.Fatalf("ByteOf(2) inside surrogate pair = %d, want 2", got)
	}
	if got := txt.ByteOf(3); got != 6 {
		t.Fatalf("ByteOf(3) = %d, want 6", got)
	}
	units := txt.Units()
	if len(units) != 4 || units[3] != 'x' {
		t.Fatalf("Units = %v", units)
	}
}

func TestTextMappingProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringOf(rapid.SampledFrom([]rune{'a', '\n', 'é', '😀', '"', '中'})).Draw(rt, "text")
		txt := NewText(s)
		want := len(utf16.Encode([]rune(s)))
		require.Equal(rt, want, txt.Len())
		require.Equal(rt, want, UnitLen(s))
		require.Len(rt, txt.Units(), want)

		pos := 0
		for i, r := range s {
			require.Equal(rt, pos, txt.UnitOf(i))
			require.Equal(rt, i, txt.ByteOf(pos))
			pos += utf16.RuneLen(r)
		}
		require.Equal(rt, want, txt.UnitOf(len(s)))
		require.Equal(rt, len(s), txt.ByteOf(want))
	})
}
