package lsp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentManager(t *testing.T) {
	type tc struct {
		operations []func(dm *DocumentManager)
		wantDocs   int
	}

	tests := map[string]tc{
		"open single": {
			operations: []func(dm *DocumentManager){
				func(dm *DocumentManager) {
					dm.Open("file:///a.md", "私はRustaceanです", 1)
				},
			},
			wantDocs: 1,
		},
		"open multiple": {
			operations: []func(dm *DocumentManager){
				func(dm *DocumentManager) {
					dm.Open("file:///a.md", "a", 1)
				},
				func(dm *DocumentManager) {
					dm.Open("file:///b.md", "b", 1)
				},
			},
			wantDocs: 2,
		},
		"open and close": {
			operations: []func(dm *DocumentManager){
				func(dm *DocumentManager) {
					dm.Open("file:///a.md", "a", 1)
				},
				func(dm *DocumentManager) {
					dm.Close("file:///a.md")
				},
			},
			wantDocs: 0,
		},
		"update": {
			operations: []func(dm *DocumentManager){
				func(dm *DocumentManager) {
					dm.Open("file:///a.md", "a", 1)
				},
				func(dm *DocumentManager) {
					dm.Update("file:///a.md", "updated", 2)
				},
			},
			wantDocs: 1,
		},
		"update unopened": {
			operations: []func(dm *DocumentManager){
				func(dm *DocumentManager) {
					dm.Update("file:///a.md", "new", 1)
				},
			},
			wantDocs: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dm := NewDocumentManager()

			for _, op := range tt.operations {
				op(dm)
			}

			assert.Len(t, dm.All(), tt.wantDocs)
		})
	}
}

func TestDocumentUpdateKeepsOldVersion(t *testing.T) {
	dm := NewDocumentManager()
	old := dm.Open("file:///a.md", "before", 1)
	dm.Update("file:///a.md", "after", 2)

	assert.Equal(t, "before", old.Content)
	assert.Equal(t, "after", dm.Get("file:///a.md").Content)
	assert.Equal(t, 2, dm.Get("file:///a.md").Version)
}

func TestDocumentLine(t *testing.T) {
	doc := &Document{Content: "# title\r\n私はRustaceanです\n\nlast"}

	type tc struct {
		line int
		want string
	}

	tests := map[string]tc{
		"crlf trimmed": {line: 0, want: "# title"},
		"japanese":     {line: 1, want: "私はRustaceanです"},
		"blank":        {line: 2, want: ""},
		"last line":    {line: 3, want: "last"},
		"past end":     {line: 4, want: ""},
		"negative":     {line: -1, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.Line(tt.line))
		})
	}

	assert.Equal(t, []string{"# title", "私はRustaceanです", "", "last"}, doc.Lines())
}

func TestUTF16Conversion(t *testing.T) {
	type tc struct {
		line     string
		col      int
		wantRune int
		wantBack int
	}

	tests := map[string]tc{
		"ascii": {
			line:     "hello",
			col:      3,
			wantRune: 3,
			wantBack: 3,
		},
		"bmp japanese is one unit per rune": {
			line:     "私はRustaceanです",
			col:      5,
			wantRune: 5,
			wantBack: 5,
		},
		"after surrogate pair": {
			line:     "😀 Rustacean",
			col:      3,
			wantRune: 2,
			wantBack: 3,
		},
		"inside surrogate pair": {
			line:     "😀x",
			col:      1,
			wantRune: 0,
			wantBack: 0,
		},
		"past end": {
			line:     "ab",
			col:      10,
			wantRune: 2,
			wantBack: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := UTF16ToRuneOffset(tt.line, tt.col)
			assert.Equal(t, tt.wantRune, got)
			assert.Equal(t, tt.wantBack, RuneToUTF16Offset(tt.line, got))
		})
	}
}

func TestURIConversion(t *testing.T) {
	path := filepath.Join(string(filepath.Separator)+"notes", "私.md")
	uri := PathToURI(path)

	assert.Equal(t, "file:///notes/%E7%A7%81.md", uri)
	assert.Equal(t, path, uriToPath(uri))
	assert.Equal(t, "relative/path", uriToPath("relative/path"))
}

func TestURIConversionDriveLetter(t *testing.T) {
	type tc struct {
		path string
		want string
	}

	tests := map[string]tc{
		"upper drive": {path: filepath.FromSlash("C:/n/x.md"), want: "file:///C:/n/x.md"},
		"lower drive": {path: filepath.FromSlash("d:/notes/私.md"), want: "file:///d:/notes/%E7%A7%81.md"},
		"not a drive": {path: filepath.FromSlash("/1:/x.md"), want: "file:///1:/x.md"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			uri := PathToURI(tt.path)
			assert.Equal(t, tt.want, uri)
			assert.Equal(t, tt.path, uriToPath(uri))
		})
	}
}
