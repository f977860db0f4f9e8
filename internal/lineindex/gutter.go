package lineindex

import (
	"math"
	"strconv"

	"github.com/kobzarvs/codepad/internal/textpos"
)

// VisibleLines returns the first and last line whose text intersects visible.
// The first line is found with one binary search instead of a scan from the
// top of the document.
func VisibleLines(c *Cache, visible textpos.Range) (first, last int) {
	s := c.snapshot()
	first = Find(s, visible.Start)
	end := visible.End - 1
	if end < visible.Start {
		end = visible.Start
	}
	last = Find(s, end)
	return first, last
}

// Width is the number of digit columns needed for lineCount line numbers.
func Width(lineCount int) int {
	digits := len(strconv.Itoa(max(lineCount, 1)))
	if digits < 2 {
		digits = 2
	}
	return digits
}

// BufferLines converts a pixel (point) buffer into whole lines of
// lineHeight, rounding up.
func BufferLines(bufferPoints, lineHeight float64) int {
	if bufferPoints <= 0 || lineHeight <= 0 {
		return 0
	}
	return int(math.Ceil(bufferPoints / lineHeight))
}
