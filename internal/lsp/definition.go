package lsp

import (
	"github.com/grindlemire/memonoa/internal/log"
)

// TextDocumentPositionParams is shared by definition and hover requests.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// definitionProvider implements DefinitionProvider. A link resolves to the
// start of the note it names.
type definitionProvider struct{}

func (d *definitionProvider) Definition(ctx *CursorContext) ([]Location, error) {
	link, ok := ctx.Link()
	if !ok {
		log.Server("No definition at %s:%d:%d (resolved=%v)",
			ctx.Document.URI, ctx.Position.Line, ctx.Position.Character, ctx.Resolved)
		return nil, nil
	}

	log.Server("Definition %q -> %s", link.Value, link.Path)
	return []Location{{
		URI:   PathToURI(link.Path),
		Range: Range{},
	}}, nil
}
