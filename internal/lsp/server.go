package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grindlemire/memonoa/internal/docindex"
	"github.com/grindlemire/memonoa/internal/log"
	"github.com/grindlemire/memonoa/internal/notes"
	"github.com/grindlemire/memonoa/internal/notes/segment"
)

// Options configures a Server.
type Options struct {
	// Segmenter splits note lines into words. Defaults to segment.Script.
	Segmenter notes.Segmenter
	// Root is the notes directory. When empty the client's rootUri is used,
	// then the working directory.
	Root       string
	Extensions []string
	Recursive  bool
	// Watch rescans the notes directory when files are added or removed.
	Watch    bool
	Debounce time.Duration
}

// Server represents the notes LSP server.
type Server struct {
	// Input/output for JSON-RPC communication
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex // protects writer

	router *Router

	// Document management
	docs *DocumentManager

	// Note stem -> path index, shared with the watcher
	store     *docindex.Store
	segmenter notes.Segmenter
	opts      Options

	// Server state
	initialized bool
	shutdown    bool
	rootURI     string
	indexOpts   docindex.Options
	ready       chan struct{}
	readyOnce   sync.Once
}

// NewServer creates a new LSP server that communicates over the given reader/writer.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	if opts.Segmenter == nil {
		opts.Segmenter = segment.Script{}
	}
	s := &Server{
		reader:    bufio.NewReader(reader),
		writer:    writer,
		docs:      NewDocumentManager(),
		store:     docindex.NewStore(nil),
		segmenter: checkedSegmenter{inner: opts.Segmenter},
		opts:      opts,
		ready:     make(chan struct{}),
	}
	s.router = NewRouter(s, NewRegistry(s.store, s.segmenter))
	return s
}

// Store returns the document index the server resolves links against.
func (s *Server) Store() *docindex.Store {
	return s.store
}

// Ready is closed when the client sends initialized after a successful
// initialize, i.e. once the initial scan is in the store.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// IndexOptions returns the scan options resolved during initialize.
func (s *Server) IndexOptions() docindex.Options {
	return s.indexOpts
}

// RunWatcher waits for Ready and then keeps the index in sync with the
// notes directory until ctx is cancelled. It returns immediately when
// watching is disabled.
//
// A watcher failure is logged and swallowed: the server keeps answering from
// the last index and memonoa.reindex still refreshes it. RunWatcher only
// returns nil.
func (s *Server) RunWatcher(ctx context.Context) error {
	if !s.opts.Watch {
		return nil
	}
	select {
	case <-ctx.Done():
		return nil
	case <-s.ready:
	}

	w, err := docindex.NewWatcher(s.store, s.indexOpts, s.opts.Debounce)
	if err == nil {
		err = w.Run(ctx)
	}
	if err != nil {
		log.Warn("Watcher stopped, index will only change on %s: %v", CommandReindex, err)
	}
	return nil
}

// Run starts the LSP server main loop.
func (s *Server) Run(ctx context.Context) error {
	log.Server("LSP server starting")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Server("Connection closed")
				return nil
			}
			log.Server("Error reading message: %v", err)
			return fmt.Errorf("reading message: %w", err)
		}

		log.Debug("Received: %s", string(msg))

		response, err := s.handleMessage(msg)
		if err != nil {
			log.Server("Error handling message: %v", err)
			continue
		}

		if response != nil {
			if err := s.writeMessage(response); err != nil {
				log.Server("Error writing response: %v", err)
				return fmt.Errorf("writing response: %w", err)
			}
		}

		if s.shutdown {
			log.Server("Server shutdown requested")
			return nil
		}
	}
}

// readMessage reads a JSON-RPC message from the input.
// Messages are formatted as HTTP-like headers followed by content:
// Content-Length: <length>\r\n
// \r\n
// <content>
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "Content-Length:") {
			lenStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lenStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	return content, nil
}

// writeMessage writes a JSON-RPC message to the output.
func (s *Server) writeMessage(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(msg))
	if _, err := s.writer.Write([]byte(header)); err != nil {
		return err
	}
	if _, err := s.writer.Write(msg); err != nil {
		return err
	}

	log.Debug("Sent: %s", string(msg))
	return nil
}

// Request represents a JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"` // can be number or string
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Result  any    `json:"result"`
	Error   *Error `json:"error,omitempty"`
}

// Error represents a JSON-RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// handleMessage processes a single JSON-RPC message.
func (s *Server) handleMessage(msg []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		return s.errorResponse(nil, CodeParseError, "Parse error")
	}

	log.Server("Handling method: %s", req.Method)

	result, rpcErr := s.router.Route(req)

	// Notifications don't get responses
	if req.ID == nil {
		return nil, nil
	}

	if rpcErr != nil {
		return s.errorResponse(req.ID, rpcErr.Code, rpcErr.Message)
	}

	resp := Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}
	return json.Marshal(resp)
}

// errorResponse creates an error response.
func (s *Server) errorResponse(id any, code int, message string) ([]byte, error) {
	resp := Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	}
	return json.Marshal(resp)
}
