package notes

// Index is a read-only view of note stem -> filesystem path. Lookups are
// exact and case-sensitive.
type Index interface {
	Lookup(name string) (path string, ok bool)
}

// MapIndex adapts a plain map to Index.
type MapIndex map[string]string

// Lookup implements Index.
func (m MapIndex) Lookup(name string) (string, bool) {
	path, ok := m[name]
	return path, ok
}

// EmptyIndex resolves nothing; every word classifies as Normal.
var EmptyIndex Index = MapIndex(nil)
