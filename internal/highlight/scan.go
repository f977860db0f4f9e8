package highlight

import (
	"cmp"
	"regexp"
	"unicode/utf8"

	"github.com/kobzarvs/codepad/internal/textpos"
)

// TokenMatch is a comment or string region found by the context scan.
type TokenMatch struct {
	Range textpos.Range
	Kind  Kind
}

// ScanContext finds every comment and string region of the whole document.
// Regions are claimed left to right: the match starting first wins, a longer
// match wins a tie, and comments win a tie with strings of the same length.
// A pattern whose next match started inside a claimed region is searched
// again from the end of that region, so a "#" inside a string does not hide
// the comment that follows the string.
func ScanContext(t *textpos.Text, ps *PatternSet) []TokenMatch {
	if ps == nil || t.Len() == 0 {
		return nil
	}
	var scanners []contextScanner
	add := func(re *regexp.Regexp, kind Kind) {
		if re != nil {
			scanners = append(scanners, contextScanner{re: re, kind: kind})
		}
	}
	add(ps.LineComment, Comment)
	add(ps.BlockComment, Comment)
	for _, re := range ps.Strings {
		add(re, String)
	}

	src := t.String()
	var accepted []TokenMatch
	pos := 0
	for {
		best := -1
		for i := range scanners {
			sc := &scanners[i]
			if !sc.advance(src, pos) {
				continue
			}
			if best < 0 || sc.before(&scanners[best]) {
				best = i
			}
		}
		if best < 0 {
			return accepted
		}
		loc := scanners[best].loc
		accepted = append(accepted, TokenMatch{Range: t.UnitRange(loc[0], loc[1]), Kind: scanners[best].kind})
		pos = loc[1]
	}
}

// contextScanner walks one context pattern through the document.
type contextScanner struct {
	re   *regexp.Regexp
	kind Kind
	loc  []int // next non-empty match in bytes, nil before the first search
	done bool
}

// advance makes loc the next non-empty match starting at or after pos and
// reports whether one exists.
func (sc *contextScanner) advance(src string, pos int) bool {
	if sc.done {
		return false
	}
	if sc.loc != nil && sc.loc[0] >= pos {
		return true
	}
	from := pos
	for from <= len(src) {
		loc := sc.re.FindStringIndex(src[from:])
		if loc == nil {
			break
		}
		start, end := from+loc[0], from+loc[1]
		if end > start {
			sc.loc = []int{start, end}
			return true
		}
		// Skip past an empty match by one rune.
		_, size := utf8.DecodeRuneInString(src[start:])
		from = start + max(size, 1)
	}
	sc.done = true
	sc.loc = nil
	return false
}

func (sc *contextScanner) before(o *contextScanner) bool {
	if c := cmp.Compare(sc.loc[0], o.loc[0]); c != 0 {
		return c < 0
	}
	return sc.loc[1] > o.loc[1]
}

// CodeGaps returns the complement of accepted within [0, length). accepted
// must be sorted and disjoint, as returned by ScanContext.
func CodeGaps(length int, accepted []TokenMatch) []textpos.Range {
	var gaps []textpos.Range
	pos := 0
	for _, m := range accepted {
		if m.Range.Start > pos {
			gaps = append(gaps, textpos.Range{Start: pos, End: m.Range.Start})
		}
		pos = max(pos, m.Range.End)
	}
	if pos < length {
		gaps = append(gaps, textpos.Range{Start: pos, End: length})
	}
	return gaps
}
