// Package segment provides the word segmentation backends used to split note
// lines before classification. Every backend is lossless: its tokens
// concatenate back to the input.
package segment

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/grindlemire/memonoa/internal/notes"
)

// Backend names accepted by ByName.
const (
	NameScript = "script"
	NameWord   = "word"
	NameSpace  = "space"
)

var backends = map[string]notes.Segmenter{
	NameScript: Script{},
	NameWord:   Word{},
	NameSpace:  Space{},
}

// ByName returns the backend registered under name.
func ByName(name string) (notes.Segmenter, error) {
	seg, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown segmenter %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return seg, nil
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Word splits on Unicode (UAX #29) word boundaries. Han and Hiragana come out
// one rune per token.
type Word struct{}

// Segment implements notes.Segmenter.
func (Word) Segment(text string) []string {
	var tokens []string
	state := -1
	for len(text) > 0 {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		tokens = append(tokens, word)
	}
	return tokens
}

// Script splits on word boundaries and then joins neighbouring tokens written
// in the same CJK script, so "私はRustaceanです" becomes 私|は|Rustacean|です.
// Words mixing kanji and kana split at the script change (食べる becomes
// 食|べる), so a note named after such a word never links.
type Script struct{}

// Segment implements notes.Segmenter.
func (Script) Segment(text string) []string {
	words := Word{}.Segment(text)
	if len(words) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(words))
	cur := words[0]
	curScript := scriptOf(cur)
	for _, w := range words[1:] {
		s := scriptOf(w)
		if s != nil && s == curScript {
			cur += w
			continue
		}
		tokens = append(tokens, cur)
		cur, curScript = w, s
	}
	return append(tokens, cur)
}

// scriptOf returns the CJK script table of a token, or nil for anything else.
func scriptOf(token string) *unicode.RangeTable {
	for _, r := range token {
		switch {
		case unicode.Is(unicode.Han, r):
			return unicode.Han
		case unicode.Is(unicode.Hiragana, r):
			return unicode.Hiragana
		case unicode.Is(unicode.Katakana, r):
			return unicode.Katakana
		}
		return nil
	}
	return nil
}

// Space splits on whitespace. Runs of whitespace are kept as tokens of their
// own so offsets stay aligned.
type Space struct{}

// Segment implements notes.Segmenter.
func (Space) Segment(text string) []string {
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range text {
		sp := unicode.IsSpace(r)
		if i > start && sp != inSpace {
			tokens = append(tokens, text[start:i])
			start = i
		}
		inSpace = sp
	}
	if start < len(text) {
		tokens = append(tokens, text[start:])
	}
	return tokens
}
