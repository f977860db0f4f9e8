// Package textpos defines the coordinate space shared by the editing core.
//
// Every public offset in codepad (ranges, cursor, selection, line starts,
// bracket positions) is measured in UTF-16 code units, the unit the layout
// engine reports. Go's regexp package reports byte offsets, so Text keeps the
// mapping between the two.
package textpos

import (
	"slices"
	"sync"
	"unicode/utf16"
	"unicode/utf8"
)

// Range is a half-open span [Start, End) of UTF-16 code units.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) Empty() bool {
	return r.End <= r.Start
}

func (r Range) Contains(off int) bool {
	return off >= r.Start && off < r.End
}

// Intersect returns the common part of r and o. ok is false when they share
// no code unit.
func (r Range) Intersect(o Range) (Range, bool) {
	out := Range{Start: max(r.Start, o.Start), End: min(r.End, o.End)}
	if out.Empty() {
		return Range{}, false
	}
	return out, true
}

// Clamp limits r to [0, limit].
func (r Range) Clamp(limit int) Range {
	if limit < 0 {
		limit = 0
	}
	r.Start = min(max(r.Start, 0), limit)
	r.End = min(max(r.End, r.Start), limit)
	return r
}

// Text is an immutable snapshot of a document with a UTF-16 index.
// It is safe for concurrent readers.
type Text struct {
	s     string
	units int
	ascii bool
	// byteStarts[i] and unitStarts[i] locate the i-th rune; both end with a
	// sentinel for the end of text. Only populated for non-ASCII text.
	byteStarts []int
	unitStarts []int

	encodeOnce sync.Once
	encoded    []uint16
}

func NewText(s string) *Text {
	t := &Text{s: s, ascii: true}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			t.ascii = false
			break
		}
	}
	if t.ascii {
		t.units = len(s)
		return t
	}
	n := utf8.RuneCountInString(s)
	t.byteStarts = make([]int, 0, n+1)
	t.unitStarts = make([]int, 0, n+1)
	units := 0
	for i, r := range s {
		t.byteStarts = append(t.byteStarts, i)
		t.unitStarts = append(t.unitStarts, units)
		units += utf16.RuneLen(r)
	}
	t.byteStarts = append(t.byteStarts, len(s))
	t.unitStarts = append(t.unitStarts, units)
	t.units = units
	return t
}

func (t *Text) String() string {
	return t.s
}

// Len returns the length in UTF-16 code units.
func (t *Text) Len() int {
	return t.units
}

// UnitOf converts a byte offset into a UTF-16 offset. Offsets are clamped to
// the text; a byte offset inside a multi-byte rune maps to that rune's start.
func (t *Text) UnitOf(byteOff int) int {
	byteOff = min(max(byteOff, 0), len(t.s))
	if t.ascii {
		return byteOff
	}
	i, found := slices.BinarySearch(t.byteStarts, byteOff)
	if found {
		return t.unitStarts[i]
	}
	return t.unitStarts[i-1]
}

// ByteOf converts a UTF-16 offset into a byte offset. A unit that falls on the
// low half of a surrogate pair maps to the start of the pair.
func (t *Text) ByteOf(unit int) int {
	unit = min(max(unit, 0), t.units)
	if t.ascii {
		return unit
	}
	i, found := slices.BinarySearch(t.unitStarts, unit)
	if found {
		return t.byteStarts[i]
	}
	return t.byteStarts[i-1]
}

// ByteRange converts a unit range into byte offsets suitable for slicing.
func (t *Text) ByteRange(r Range) (int, int) {
	r = r.Clamp(t.units)
	return t.ByteOf(r.Start), t.ByteOf(r.End)
}

// UnitRange converts a byte span, as reported by regexp, into a unit range.
func (t *Text) UnitRange(b0, b1 int) Range {
	return Range{Start: t.UnitOf(b0), End: t.UnitOf(b1)}
}

// Units returns the UTF-16 encoding of the text. It is computed once and
// shared; callers must not modify it.
func (t *Text) Units() []uint16 {
	t.encodeOnce.Do(func() {
		if t.ascii {
			t.encoded = make([]uint16, len(t.s))
			for i := 0; i < len(t.s); i++ {
				t.encoded[i] = uint16(t.s[i])
			}
			return
		}
		t.encoded = utf16.Encode([]rune(t.s))
	})
	return t.encoded
}

// Slice returns the substring covered by r.
func (t *Text) Slice(r Range) string {
	b0, b1 := t.ByteRange(r)
	return t.s[b0:b1]
}

// UnitLen returns the UTF-16 length of s without building an index.
func UnitLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
