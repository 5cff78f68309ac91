package harness

import (
	"strings"

	"github.com/Jeffail/gabs/v2"
)

// Handler is a zero-argument command mock. Returning an error halts the
// simulation that dispatched it.
type Handler func() (any, error)

// Registry maps text patterns to command mocks and owns the output map for
// one simulation session. It is single-session state: create a fresh
// registry per scenario and carry no expectations across Reset.
type Registry struct {
	order    []string
	handlers map[string]Handler
	outputs  *OutputStore
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		outputs:  NewOutputStore(),
	}
}

// Register stores handler under pattern. Re-registering the same pattern
// replaces the handler but keeps its original dispatch position.
func (r *Registry) Register(pattern string, handler Handler) {
	if _, exists := r.handlers[pattern]; !exists {
		r.order = append(r.order, pattern)
	}
	r.handlers[pattern] = handler
}

// Dispatch runs the first registered handler whose pattern is a substring of
// line, in registration order. Returns a *NoMockError when nothing matches.
func (r *Registry) Dispatch(line string) (any, error) {
	for _, pattern := range r.order {
		if strings.Contains(line, pattern) {
			return r.handlers[pattern]()
		}
	}
	return nil, &NoMockError{Line: line}
}

// SetOutput records an output value directly, bypassing simulation.
func (r *Registry) SetOutput(key, value string) {
	r.outputs.Set(key, value)
}

// Output returns the value recorded under key.
func (r *Registry) Output(key string) (string, bool) {
	return r.outputs.Get(key)
}

// AllOutputs returns a copy of the full output map.
func (r *Registry) AllOutputs() map[string]string {
	return r.outputs.All()
}

// OutputTree returns the outputs expanded into a nested container.
func (r *Registry) OutputTree() *gabs.Container {
	return r.outputs.Tree()
}

// Reset clears both the pattern map and the output map.
func (r *Registry) Reset() {
	r.order = nil
	r.handlers = make(map[string]Handler)
	r.outputs.Reset()
}
