// Package lemmatizer declares the extension point a configured
// morphological analyzer plugs into: something that walks a Text and
// produces a partial LexemeIndex, the way original_source's
// LemmatizerFactory/Lemmatizer pair did by dispatching work across
// worker threads under a MasterLemmatizer. No concrete implementation
// ships here; this package is interfaces plus a lookup registry.
package lemmatizer

import (
	"context"
	"sync"

	"github.com/igelhaus/qubiq/lexeme"
	"github.com/igelhaus/qubiq/text"
)

// Lemmatizer runs against a Text and reports the lexemes it found.
// Start must return promptly; the actual work happens on the
// goroutine it launches, mirroring the original's
// lemmatizer->moveToThread(thread) handoff.
type Lemmatizer interface {
	Start(ctx context.Context) (<-chan *lexeme.LexemeIndex, <-chan error)
}

// Factory constructs Lemmatizers by id, mirroring
// LemmatizerFactory::newLemmatizer. Init is called once with
// implementation-specific configuration before any NewLemmatizer call.
type Factory interface {
	Init(params map[string]string) (bool, error)
	NewLemmatizer(id string, t *text.Text) (Lemmatizer, error)
}

// Registry looks up a configured Factory by id, the way
// MasterLemmatizer held a single injected LemmatizerFactory but
// generalized to more than one kind of lemmatizer coexisting in the
// same process.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates id with f, replacing any prior factory under
// the same id.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = f
}

// Get returns the factory registered under id, if any.
func (r *Registry) Get(id string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[id]
	return f, ok
}
