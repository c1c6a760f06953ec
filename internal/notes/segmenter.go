package notes

import "strings"

// Segmenter splits a line into ordered word tokens. Implementations must be
// deterministic for a given input. Tokenize assumes the tokens concatenate
// back to the input; see Reconstructs.
type Segmenter interface {
	Segment(text string) []string
}

// SegmenterFunc adapts an ordinary function to Segmenter.
type SegmenterFunc func(text string) []string

// Segment implements Segmenter.
func (f SegmenterFunc) Segment(text string) []string {
	return f(text)
}

// Reconstructs reports whether tokens concatenate back to text exactly. A
// false result means word ranges produced from tokens will drift away from
// real cursor offsets.
func Reconstructs(text string, tokens []string) bool {
	var b strings.Builder
	b.Grow(len(text))
	for _, t := range tokens {
		b.WriteString(t)
	}
	return b.String() == text
}
