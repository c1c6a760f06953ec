package lsp

import (
	"github.com/grindlemire/memonoa/internal/log"
	"github.com/grindlemire/memonoa/internal/notes"
)

// DocumentLinkParams represents textDocument/documentLink parameters.
type DocumentLinkParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// DocumentLink is a range in a document that points at another note.
type DocumentLink struct {
	Range   Range  `json:"range"`
	Target  string `json:"target,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
}

// documentLinkProvider implements DocumentLinkProvider.
type documentLinkProvider struct {
	index     IndexSource
	segmenter notes.Segmenter
}

// DocumentLinks tokenizes every line against a single index snapshot.
func (p *documentLinkProvider) DocumentLinks(doc *Document) ([]DocumentLink, error) {
	links := []DocumentLink{}

	snap, ok := p.index.Snapshot()
	if !ok {
		log.Server("Index busy, no document links for %s", doc.URI)
		return links, nil
	}

	for n, text := range doc.Lines() {
		for _, l := range notes.Tokenize(p.segmenter, snap, text).Links() {
			links = append(links, DocumentLink{
				Range:   lineRange(n, text, l.Range),
				Target:  PathToURI(l.Path),
				Tooltip: l.Path,
			})
		}
	}
	return links, nil
}
