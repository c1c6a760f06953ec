package lsp

import (
	"github.com/grindlemire/memonoa/internal/log"
	"github.com/grindlemire/memonoa/internal/notes"
)

// CursorContext contains resolved information about the cursor position.
// Providers receive this instead of raw positions, centralizing all
// "what is under the cursor" logic.
type CursorContext struct {
	Document *Document
	Position Position

	// Line is the text of the cursor line and Offset the cursor's rune
	// offset within it.
	Line   string
	Offset int

	// Resolved is false when no index snapshot could be taken; Words and
	// Word are then empty and nothing links.
	Resolved bool
	Words    notes.Line
	Word     notes.Word // nil when no word covers the cursor
}

// Link returns the link under the cursor, if any.
func (c *CursorContext) Link() (notes.Link, bool) {
	if c.Word == nil {
		return notes.Link{}, false
	}
	return notes.IsLink(c.Word)
}

// WordRange returns the LSP range of the word under the cursor.
func (c *CursorContext) WordRange() Range {
	if c.Word == nil {
		return Range{Start: c.Position, End: c.Position}
	}
	return lineRange(c.Position.Line, c.Line, c.Word.Span())
}

// ResolveCursorContext tokenizes the cursor line against a snapshot of index
// and finds the word under the cursor. The line is retokenized on every call.
func ResolveCursorContext(doc *Document, pos Position, index IndexSource, seg notes.Segmenter) *CursorContext {
	line := doc.Line(pos.Line)
	ctx := &CursorContext{
		Document: doc,
		Position: pos,
		Line:     line,
		Offset:   UTF16ToRuneOffset(line, pos.Character),
	}

	snap, ok := index.Snapshot()
	if !ok {
		log.Server("Index busy, leaving %s:%d:%d unresolved", doc.URI, pos.Line, pos.Character)
		return ctx
	}

	ctx.Resolved = true
	ctx.Words = notes.Tokenize(seg, snap, line)
	if w, found := ctx.Words.FindAt(ctx.Offset); found {
		ctx.Word = w
	}
	return ctx
}

// lineRange converts a rune range on line n into an LSP range.
func lineRange(n int, line string, r notes.Range) Range {
	return Range{
		Start: Position{Line: n, Character: RuneToUTF16Offset(line, r.Start)},
		End:   Position{Line: n, Character: RuneToUTF16Offset(line, r.End)},
	}
}

// checkedSegmenter logs when a segmentation does not reproduce its input,
// since word ranges would then drift from the editor's offsets.
type checkedSegmenter struct {
	inner notes.Segmenter
}

func (c checkedSegmenter) Segment(text string) []string {
	tokens := c.inner.Segment(text)
	if !notes.Reconstructs(text, tokens) {
		log.Warn("Segmentation of %q is lossy (%d tokens); word offsets may be wrong", text, len(tokens))
	}
	return tokens
}
