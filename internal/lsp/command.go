package lsp

import (
	"context"
	"encoding/json"

	"github.com/grindlemire/memonoa/internal/docindex"
	"github.com/grindlemire/memonoa/internal/log"
)

// CommandReindex rescans the notes directory on demand.
const CommandReindex = "memonoa.reindex"

// ExecuteCommandParams represents workspace/executeCommand parameters.
type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// ReindexResult is returned by CommandReindex.
type ReindexResult struct {
	Documents int `json:"documents"`
}

// handleExecuteCommand handles workspace/executeCommand.
func (s *Server) handleExecuteCommand(params json.RawMessage) (any, *Error) {
	var p ExecuteCommandParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	switch p.Command {
	case CommandReindex:
		if s.indexOpts.Root == "" {
			return nil, &Error{Code: CodeInvalidRequest, Message: "server not initialized"}
		}
		n, err := docindex.Rescan(context.Background(), s.store, s.indexOpts)
		if err != nil {
			return nil, &Error{Code: CodeInternalError, Message: err.Error()}
		}
		log.Server("Reindexed %d notes on request", n)
		return ReindexResult{Documents: n}, nil
	default:
		return nil, &Error{Code: CodeInvalidParams, Message: "unknown command: " + p.Command}
	}
}
