package harness

import (
	"github.com/Jeffail/gabs/v2"
)

// OutputStore keeps step outputs as flat dotted keys
// (steps.<id>.outputs.<name>). The key shape is a caller convention; the
// store itself accepts any string key.
type OutputStore struct {
	values map[string]string
}

func NewOutputStore() *OutputStore {
	return &OutputStore{
		values: make(map[string]string),
	}
}

func (s *OutputStore) Set(key, value string) {
	s.values[key] = value
}

func (s *OutputStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// All returns a copy of the flat output map.
func (s *OutputStore) All() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Tree expands the flat keys into a nested container, so callers can walk
// steps → <id> → outputs → <name> instead of string-matching key prefixes.
func (s *OutputStore) Tree() *gabs.Container {
	tree := gabs.New()
	for k, v := range s.values {
		// SetP splits the dotted key into a nested path.
		tree.SetP(v, k)
	}
	return tree
}

func (s *OutputStore) Reset() {
	s.values = make(map[string]string)
}
