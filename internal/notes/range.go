package notes

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidRange is matched by every *InvalidRangeError via errors.Is.
var ErrInvalidRange = errors.New("invalid range")

// InvalidRangeError reports bounds that do not form a range.
type InvalidRangeError struct {
	Start int
	End   int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start=%d end=%d", e.Start, e.End)
}

// Is lets errors.Is(err, ErrInvalidRange) match.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// Range is a half-open interval [Start, End) of rune offsets.
type Range struct {
	Start int
	End   int
}

// NewRange builds a range from explicit bounds. It fails when end < start or
// start is negative; the bounds are never clamped.
func NewRange(start, end int) (Range, error) {
	if start < 0 || end < start {
		return Range{}, &InvalidRangeError{Start: start, End: end}
	}
	return Range{Start: start, End: end}, nil
}

// RangeOf builds the range text occupies when it begins at start.
func RangeOf(start int, text string) Range {
	return Range{Start: start, End: start + utf8.RuneCountInString(text)}
}

// Contains reports whether offset lies in [Start, End).
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// Len returns the number of runes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
