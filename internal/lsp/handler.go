package lsp

import (
	"context"
	"encoding/json"
	"os"

	"github.com/grindlemire/memonoa/internal/docindex"
	"github.com/grindlemire/memonoa/internal/log"
)

// InitializeParams represents the parameters for the initialize request.
type InitializeParams struct {
	ProcessID             *int               `json:"processId"`
	RootURI               string             `json:"rootUri"`
	RootPath              string             `json:"rootPath"`
	Capabilities          ClientCapabilities `json:"capabilities"`
	InitializationOptions json.RawMessage    `json:"initializationOptions,omitempty"`
}

// ClientCapabilities represents client capabilities.
type ClientCapabilities struct {
	TextDocument TextDocumentClientCapabilities `json:"textDocument,omitempty"`
}

// TextDocumentClientCapabilities represents text document capabilities.
type TextDocumentClientCapabilities struct {
	Synchronization *SynchronizationCapabilities `json:"synchronization,omitempty"`
	Hover           *DynamicCapability           `json:"hover,omitempty"`
	Definition      *DynamicCapability           `json:"definition,omitempty"`
	DocumentLink    *DynamicCapability           `json:"documentLink,omitempty"`
}

// SynchronizationCapabilities represents synchronization capabilities.
type SynchronizationCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
	WillSave            bool `json:"willSave,omitempty"`
	WillSaveWaitUntil   bool `json:"willSaveWaitUntil,omitempty"`
	DidSave             bool `json:"didSave,omitempty"`
}

// DynamicCapability is the common shape of per-feature client capabilities.
type DynamicCapability struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

// InitializeResult represents the result of the initialize request.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

// ServerInfo identifies the server to the client.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ServerCapabilities represents server capabilities.
type ServerCapabilities struct {
	TextDocumentSync       *TextDocumentSyncOptions `json:"textDocumentSync,omitempty"`
	HoverProvider          bool                     `json:"hoverProvider,omitempty"`
	DefinitionProvider     bool                     `json:"definitionProvider,omitempty"`
	DocumentLinkProvider   *DocumentLinkOptions     `json:"documentLinkProvider,omitempty"`
	ExecuteCommandProvider *ExecuteCommandOptions   `json:"executeCommandProvider,omitempty"`
}

// DocumentLinkOptions represents document link capabilities.
type DocumentLinkOptions struct {
	ResolveProvider bool `json:"resolveProvider"`
}

// ExecuteCommandOptions lists the commands the server executes.
type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

// TextDocumentSyncOptions represents text document sync options.
type TextDocumentSyncOptions struct {
	OpenClose bool                 `json:"openClose"`
	Change    TextDocumentSyncKind `json:"change"`
	Save      *SaveOptions         `json:"save,omitempty"`
}

// TextDocumentSyncKind represents how documents are synced.
type TextDocumentSyncKind int

const (
	// TextDocumentSyncKindNone means documents should not be synced.
	TextDocumentSyncKindNone TextDocumentSyncKind = 0
	// TextDocumentSyncKindFull means full documents are synced.
	TextDocumentSyncKindFull TextDocumentSyncKind = 1
	// TextDocumentSyncKindIncremental means incremental updates are sent.
	TextDocumentSyncKindIncremental TextDocumentSyncKind = 2
)

// SaveOptions represents save options.
type SaveOptions struct {
	IncludeText bool `json:"includeText,omitempty"`
}

// Version is reported in serverInfo.
var Version = "dev"

// handleInitialize handles the initialize request. The notes directory is
// scanned before the response is sent so the first definition request
// already sees the full index.
func (s *Server) handleInitialize(params json.RawMessage) (any, *Error) {
	var p InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	s.rootURI = p.RootURI
	if s.rootURI == "" && p.RootPath != "" {
		s.rootURI = PathToURI(p.RootPath)
	}
	log.Server("Initialize with root: %s", s.rootURI)

	root, err := s.resolveRoot()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: "resolving notes root: " + err.Error()}
	}
	s.indexOpts = docindex.Options{
		Root:       root,
		Extensions: s.opts.Extensions,
		Recursive:  s.opts.Recursive,
	}

	n, err := docindex.Rescan(context.Background(), s.store, s.indexOpts)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: "scanning notes: " + err.Error()}
	}
	log.Server("Indexed %d notes under %s", n, root)

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: true,
				},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			DocumentLinkProvider: &DocumentLinkOptions{
				ResolveProvider: false,
			},
			ExecuteCommandProvider: &ExecuteCommandOptions{
				Commands: []string{CommandReindex},
			},
		},
		ServerInfo: &ServerInfo{Name: "memonoa", Version: Version},
	}

	return result, nil
}

// resolveRoot picks the notes directory: configured root, then the client's
// root, then the working directory.
func (s *Server) resolveRoot() (string, error) {
	if s.opts.Root != "" {
		return s.opts.Root, nil
	}
	if s.rootURI != "" {
		return uriToPath(s.rootURI), nil
	}
	return os.Getwd()
}

// handleInitialized handles the initialized notification.
func (s *Server) handleInitialized() (any, *Error) {
	s.initialized = true
	log.Server("Server initialized")
	if s.indexOpts.Root != "" {
		s.readyOnce.Do(func() { close(s.ready) })
	}
	return nil, nil
}

// handleShutdown handles the shutdown request.
func (s *Server) handleShutdown() (any, *Error) {
	log.Server("Shutdown requested")
	s.shutdown = true
	return nil, nil
}

// handleExit handles the exit notification.
func (s *Server) handleExit() {
	log.Server("Exit requested")
	s.shutdown = true
}

// DidOpenParams represents textDocument/didOpen parameters.
type DidOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// TextDocumentItem represents an item passed in didOpen.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// handleDidOpen handles textDocument/didOpen.
func (s *Server) handleDidOpen(params json.RawMessage) (any, *Error) {
	var p DidOpenParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	log.Server("Document opened: %s", p.TextDocument.URI)
	s.docs.Open(p.TextDocument.URI, p.TextDocument.Text, p.TextDocument.Version)
	return nil, nil
}

// DidChangeParams represents textDocument/didChange parameters.
type DidChangeParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// VersionedTextDocumentIdentifier represents a versioned document ID.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// TextDocumentContentChangeEvent represents a content change.
type TextDocumentContentChangeEvent struct {
	// Full text sync: Text contains the whole document
	Text string `json:"text"`
}

// handleDidChange handles textDocument/didChange.
func (s *Server) handleDidChange(params json.RawMessage) (any, *Error) {
	var p DidChangeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	log.Server("Document changed: %s", p.TextDocument.URI)

	if len(p.ContentChanges) == 0 {
		return nil, nil
	}

	// We use full document sync, so take the last change
	newContent := p.ContentChanges[len(p.ContentChanges)-1].Text
	s.docs.Update(p.TextDocument.URI, newContent, p.TextDocument.Version)
	return nil, nil
}

// DidCloseParams represents textDocument/didClose parameters.
type DidCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// TextDocumentIdentifier represents a document identifier.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// handleDidClose handles textDocument/didClose.
func (s *Server) handleDidClose(params json.RawMessage) (any, *Error) {
	var p DidCloseParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	log.Server("Document closed: %s", p.TextDocument.URI)
	s.docs.Close(p.TextDocument.URI)
	return nil, nil
}

// DidSaveParams represents textDocument/didSave parameters.
type DidSaveParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         *string                `json:"text,omitempty"`
}

// handleDidSave handles textDocument/didSave.
func (s *Server) handleDidSave(params json.RawMessage) (any, *Error) {
	var p DidSaveParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	log.Server("Document saved: %s", p.TextDocument.URI)

	// If text is provided, update the document
	if p.Text != nil {
		if doc := s.docs.Get(p.TextDocument.URI); doc != nil {
			s.docs.Update(p.TextDocument.URI, *p.Text, doc.Version+1)
		}
	}

	return nil, nil
}
