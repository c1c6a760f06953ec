package notes

// Word is a classified token. It is implemented only by Link and Normal.
type Word interface {
	// Text returns the literal token text.
	Text() string
	// Span returns the rune range the token occupies in its line.
	Span() Range

	word()
}

// Link is a token that names a known note.
type Link struct {
	Path  string
	Value string
	Range Range
}

// Normal is any token that is not a Link.
type Normal struct {
	Value string
	Range Range
}

func (l Link) Text() string { return l.Value }
func (l Link) Span() Range  { return l.Range }
func (Link) word()          {}

func (n Normal) Text() string { return n.Value }
func (n Normal) Span() Range  { return n.Range }
func (Normal) word()          {}

// IsLink reports whether w is a Link and returns it.
func IsLink(w Word) (Link, bool) {
	l, ok := w.(Link)
	return l, ok
}

// Classify resolves token against idx by exact key match and stamps the
// resulting word with the range starting at start.
func Classify(idx Index, token string, start int) Word {
	r := RangeOf(start, token)
	if path, ok := idx.Lookup(token); ok {
		return Link{Path: path, Value: token, Range: r}
	}
	return Normal{Value: token, Range: r}
}
