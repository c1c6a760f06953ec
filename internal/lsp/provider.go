package lsp

import (
	"github.com/grindlemire/memonoa/internal/docindex"
	"github.com/grindlemire/memonoa/internal/notes"
)

// DefinitionProvider resolves go-to-definition for a cursor position.
type DefinitionProvider interface {
	Definition(ctx *CursorContext) ([]Location, error)
}

// HoverProvider produces hover documentation for a cursor position.
type HoverProvider interface {
	Hover(ctx *CursorContext) (*Hover, error)
}

// DocumentLinkProvider lists every link in a document.
type DocumentLinkProvider interface {
	DocumentLinks(doc *Document) ([]DocumentLink, error)
}

// IndexSource hands out point-in-time views of the note index. Snapshot
// reports false when no view can be taken without blocking.
type IndexSource interface {
	Snapshot() (docindex.Snapshot, bool)
}

// Registry holds all registered LSP providers and what they need to resolve
// cursor contexts. The router dispatches to these providers when handling
// requests.
type Registry struct {
	Definition   DefinitionProvider
	Hover        HoverProvider
	DocumentLink DocumentLinkProvider

	index     IndexSource
	segmenter notes.Segmenter
}

// NewRegistry creates a registry with the default providers.
func NewRegistry(index IndexSource, seg notes.Segmenter) *Registry {
	return &Registry{
		Definition:   &definitionProvider{},
		Hover:        &hoverProvider{},
		DocumentLink: &documentLinkProvider{index: index, segmenter: seg},
		index:        index,
		segmenter:    seg,
	}
}

// Resolve builds the cursor context for pos in doc.
func (r *Registry) Resolve(doc *Document, pos Position) *CursorContext {
	return ResolveCursorContext(doc, pos, r.index, r.segmenter)
}
