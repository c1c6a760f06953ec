package lsp

import (
	"encoding/json"

	"github.com/grindlemire/memonoa/internal/log"
)

// Router dispatches LSP method requests to the appropriate handler.
// Language feature methods are dispatched through providers in the Registry.
// Lifecycle and document sync methods are handled directly by the Server.
type Router struct {
	server   *Server
	registry *Registry
}

// NewRouter creates a new Router with the given server and optional provider registry.
func NewRouter(server *Server, registry *Registry) *Router {
	return &Router{
		server:   server,
		registry: registry,
	}
}

// Route dispatches a request to the appropriate handler.
func (r *Router) Route(req Request) (any, *Error) {
	switch req.Method {
	// Lifecycle
	case "initialize":
		return r.server.handleInitialize(req.Params)
	case "initialized":
		return r.server.handleInitialized()
	case "shutdown":
		return r.server.handleShutdown()
	case "exit":
		r.server.handleExit()
		return nil, nil

	// Document synchronization
	case "textDocument/didOpen":
		return r.server.handleDidOpen(req.Params)
	case "textDocument/didChange":
		return r.server.handleDidChange(req.Params)
	case "textDocument/didClose":
		return r.server.handleDidClose(req.Params)
	case "textDocument/didSave":
		return r.server.handleDidSave(req.Params)

	// Language features
	case "textDocument/definition":
		return r.handleDefinition(req.Params)
	case "textDocument/hover":
		return r.handleHover(req.Params)
	case "textDocument/documentLink":
		return r.handleDocumentLink(req.Params)

	// Workspace
	case "workspace/executeCommand":
		return r.server.handleExecuteCommand(req.Params)

	default:
		log.Server("Unknown method: %s", req.Method)
		return nil, &Error{Code: CodeMethodNotFound, Message: "Method not found: " + req.Method}
	}
}

func (r *Router) handleDefinition(params json.RawMessage) (any, *Error) {
	if r.registry != nil && r.registry.Definition != nil {
		return r.dispatchPositional(params, func(ctx *CursorContext) (any, error) {
			return r.registry.Definition.Definition(ctx)
		})
	}
	return nil, nil
}

func (r *Router) handleHover(params json.RawMessage) (any, *Error) {
	if r.registry != nil && r.registry.Hover != nil {
		return r.dispatchPositional(params, func(ctx *CursorContext) (any, error) {
			return r.registry.Hover.Hover(ctx)
		})
	}
	return nil, nil
}

func (r *Router) handleDocumentLink(params json.RawMessage) (any, *Error) {
	if r.registry == nil || r.registry.DocumentLink == nil {
		return []DocumentLink{}, nil
	}

	var p DocumentLinkParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	doc := r.server.docs.Get(p.TextDocument.URI)
	if doc == nil {
		return []DocumentLink{}, nil
	}

	result, err := r.registry.DocumentLink.DocumentLinks(doc)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return result, nil
}

// dispatchPositional is a helper that parses a textDocument/position request,
// resolves a CursorContext, and dispatches to a provider function.
func (r *Router) dispatchPositional(params json.RawMessage, fn func(ctx *CursorContext) (any, error)) (any, *Error) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	doc := r.server.docs.Get(p.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	ctx := r.registry.Resolve(doc, p.Position)
	result, err := fn(ctx)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return result, nil
}
