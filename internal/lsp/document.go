package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"
)

// Document represents an open note.
type Document struct {
	URI     string
	Content string
	Version int
}

// Line returns the text of line n without its line terminator, or "" when
// n is out of range.
func (d *Document) Line(n int) string {
	return getLineText(d.Content, n)
}

// Lines returns every line of the document without line terminators.
func (d *Document) Lines() []string {
	lines := strings.Split(d.Content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// DocumentManager tracks all open documents.
type DocumentManager struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentManager creates a new document manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		docs: make(map[string]*Document),
	}
}

// Open opens a new document.
func (dm *DocumentManager) Open(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
	}
	dm.docs[uri] = doc
	return doc
}

// Update replaces the content of a document, opening it if needed. Stored
// documents are never mutated in place so readers can keep using them.
func (dm *DocumentManager) Update(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
	}
	dm.docs[uri] = doc
	return doc
}

// Close closes a document.
func (dm *DocumentManager) Close(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.docs, uri)
}

// Get retrieves a document by URI.
func (dm *DocumentManager) Get(uri string) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.docs[uri]
}

// All returns all open documents.
func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	docs := make([]*Document, 0, len(dm.docs))
	for _, doc := range dm.docs {
		docs = append(docs, doc)
	}
	return docs
}

// Position represents a position in a document (0-indexed). Character counts
// UTF-16 code units, as LSP requires.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range represents a range in a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location represents a location in a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// getLineText returns line n of content without its terminator.
func getLineText(content string, n int) string {
	if n < 0 {
		return ""
	}
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			return ""
		}
		content = content[idx+1:]
	}
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSuffix(content, "\r")
}

// UTF16ToRuneOffset converts a UTF-16 column within line to a rune offset.
// Columns past the end of the line map to the rune count of the line; a
// column in the middle of a surrogate pair maps to that rune.
func UTF16ToRuneOffset(line string, col int) int {
	units := 0
	runes := 0
	for _, r := range line {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > col {
			return runes
		}
		units += n
		runes++
	}
	return runes
}

// RuneToUTF16Offset converts a rune offset within line to a UTF-16 column.
func RuneToUTF16Offset(line string, offset int) int {
	units := 0
	runes := 0
	for _, r := range line {
		if runes >= offset {
			break
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
		runes++
	}
	return units
}

// PathToURI converts a filesystem path to a file:// URI. Drive-letter paths
// get the leading slash URIs require: C:\n\x.md becomes file:///C:/n/x.md.
func PathToURI(path string) string {
	p := filepath.ToSlash(path)
	if hasDriveLetter(p) {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return strings.TrimPrefix(uri, "file://")
	}
	p := u.Path
	if len(p) > 0 && p[0] == '/' && hasDriveLetter(p[1:]) {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}

// hasDriveLetter reports whether p starts with a volume such as "C:".
func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
