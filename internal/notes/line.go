package notes

import (
	"fmt"

	"github.com/samber/lo"
)

// Line is the ordered sequence of words of one line of text.
type Line []Word

// Tokenize segments text once and classifies every token against idx. The
// first word starts at offset 0.
func Tokenize(seg Segmenter, idx Index, text string) Line {
	return TokenizeAt(seg, idx, text, 0)
}

// TokenizeAt is Tokenize with the first word starting at lineStart. Each word
// begins where the previous one ended; token positions are not checked
// against text. It panics if lineStart is negative.
func TokenizeAt(seg Segmenter, idx Index, text string, lineStart int) Line {
	if lineStart < 0 {
		panic(fmt.Sprintf("notes: negative line start %d", lineStart))
	}
	tokens := seg.Segment(text)
	line := make(Line, 0, len(tokens))
	offset := lineStart
	for _, tok := range tokens {
		w := Classify(idx, tok, offset)
		line = append(line, w)
		offset = w.Span().End
	}
	return line
}

// FindAt returns the word whose range contains offset.
func FindAt(line Line, offset int) (Word, bool) {
	return lo.Find(line, func(w Word) bool {
		return w.Span().Contains(offset)
	})
}

// FindAt is the method form of FindAt.
func (l Line) FindAt(offset int) (Word, bool) {
	return FindAt(l, offset)
}

// Links returns the Link words of the line in order.
func (l Line) Links() []Link {
	return lo.FilterMap(l, func(w Word, _ int) (Link, bool) {
		return IsLink(w)
	})
}

// End returns the offset just past the last word, or 0 for an empty line.
func (l Line) End() int {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].Span().End
}
