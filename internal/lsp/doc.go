// Package lsp implements a Language Server Protocol server for plain-text
// notes.
//
// Any word in a note that exactly matches the stem of another note in the
// workspace becomes a link: the server answers go-to-definition, hover and
// document links for those words. It communicates over stdio using JSON-RPC
// 2.0.
package lsp
