// Package brackets finds the bracket partner of the character before the
// cursor and remembers the answer for the last queried offset.
package brackets

import (
	"fmt"
	"unicode/utf16"
)

// Pair is an open/close bracket couple in UTF-16 code units.
type Pair struct {
	Open  uint16
	Close uint16
}

// DefaultPairs are used when the configuration names none.
var DefaultPairs = []Pair{{'(', ')'}, {'[', ']'}, {'{', '}'}}

// ParsePairs converts two-character strings such as "()" into pairs.
func ParsePairs(specs []string) ([]Pair, error) {
	if len(specs) == 0 {
		return DefaultPairs, nil
	}
	pairs := make([]Pair, 0, len(specs))
	for _, s := range specs {
		units := utf16.Encode([]rune(s))
		if len(units) != 2 || units[0] == units[1] {
			return nil, fmt.Errorf("invalid bracket pair %q: want two distinct characters", s)
		}
		pairs = append(pairs, Pair{Open: units[0], Close: units[1]})
	}
	return pairs, nil
}

// Match holds the offsets of an open bracket and its partner.
type Match struct {
	Open  int
	Close int
}

// Cache memoizes the result for the exact cursor offset of the last query.
// Moving the cursor anywhere else rescans. It is not safe for concurrent use;
// the editor queries it from the UI goroutine only.
type Cache struct {
	valid   bool
	offset  int
	matches []Match
	scans   int
}

// MatchFor returns the bracket pair adjacent to cursor, or nil.
func (c *Cache) MatchFor(cursor int, units []uint16, pairs []Pair) []Match {
	if c.valid && c.offset == cursor {
		return c.matches
	}
	c.scans++
	c.valid = true
	c.offset = cursor
	c.matches = scan(cursor, units, pairs)
	return c.matches
}

// Reset forgets the cached answer. Callers reset after any text change.
func (c *Cache) Reset() {
	c.valid = false
	c.offset = 0
	c.matches = nil
}

// Scans reports how many times MatchFor had to scan the text.
func (c *Cache) Scans() int {
	return c.scans
}

func scan(cursor int, units []uint16, pairs []Pair) []Match {
	if cursor <= 0 || cursor > len(units) {
		return nil
	}
	at := cursor - 1
	ch := units[at]
	for _, p := range pairs {
		switch ch {
		case p.Close:
			if open, ok := scanBackward(units, at, p); ok {
				return []Match{{Open: open, Close: at}}
			}
			return nil
		case p.Open:
			if closeAt, ok := scanForward(units, at, p); ok {
				return []Match{{Open: at, Close: closeAt}}
			}
			return nil
		}
	}
	return nil
}

func scanBackward(units []uint16, from int, p Pair) (int, bool) {
	depth := 0
	for i := from; i >= 0; i-- {
		switch units[i] {
		case p.Close:
			depth++
		case p.Open:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func scanForward(units []uint16, from int, p Pair) (int, bool) {
	depth := 0
	for i := from; i < len(units); i++ {
		switch units[i] {
		case p.Open:
			depth++
		case p.Close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
