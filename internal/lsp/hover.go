package lsp

import "fmt"

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// MarkupContent represents markup content.
type MarkupContent struct {
	Kind  string `json:"kind"` // "plaintext" or "markdown"
	Value string `json:"value"`
}

// hoverProvider implements HoverProvider. Only links have hover content.
type hoverProvider struct{}

func (h *hoverProvider) Hover(ctx *CursorContext) (*Hover, error) {
	link, ok := ctx.Link()
	if !ok {
		return nil, nil
	}

	r := ctx.WordRange()
	return &Hover{
		Contents: MarkupContent{
			Kind:  "markdown",
			Value: fmt.Sprintf("**%s**\n\n`%s`", link.Value, link.Path),
		},
		Range: &r,
	}, nil
}
