package catalog

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-nodeconfig/pkg/engine"
	"github.com/goliatone/go-nodeconfig/pkg/schema"
)

type entry struct {
	kind     NodeKind
	compiled *engine.Compiled
}

// Registry holds the known node kinds together with their compiled schemas.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*entry
}

// NewRegistry creates a registry with the built-in node kinds pre-registered.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, kind := range Builtins() {
		if err := r.Register(kind); err != nil {
			// Builtins are static; a failure here is a programming error.
			panic(err)
		}
	}
	return r
}

// NewEmptyRegistry creates a registry without any node kinds.
func NewEmptyRegistry() *Registry {
	return &Registry{kinds: make(map[string]*entry)}
}

// Register compiles the kind's schema and adds or replaces the kind.
func (r *Registry) Register(kind NodeKind) error {
	id := strings.TrimSpace(kind.Kind)
	if id == "" {
		return ErrMissingKind
	}
	compiled, err := engine.Compile(kind.Fields)
	if err != nil {
		return fmt.Errorf("catalog: kind %q: %w", id, err)
	}

	kind = kind.clone()
	kind.Kind = id

	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[id] = &entry{kind: kind, compiled: compiled}
	return nil
}

// Load reads catalog files from fsys and registers every kind they declare.
// Kinds already present, including builtins, are replaced.
func (r *Registry) Load(fsys fs.FS) error {
	kinds, err := LoadFS(fsys)
	if err != nil {
		return err
	}
	for _, kind := range kinds {
		if err := r.Register(kind); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes a kind.
func (r *Registry) Unregister(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.kinds, kind)
}

// Get returns the node kind registered under id.
func (r *Registry) Get(id string) (NodeKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.kinds[id]
	if !ok {
		return NodeKind{}, false
	}
	return e.kind.clone(), true
}

// All returns every registered kind sorted by identifier.
func (r *Registry) All() []NodeKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NodeKind, 0, len(r.kinds))
	for _, e := range r.kinds {
		out = append(out, e.kind.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Kinds returns the sorted list of registered kind identifiers.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for id := range r.kinds {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Compiled returns the compiled schema of a kind.
func (r *Registry) Compiled(id string) (*engine.Compiled, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.kinds[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, id)
	}
	return e.compiled, nil
}

// Validate validates values against the schema of a kind.
func (r *Registry) Validate(id string, values schema.Values) (engine.Result, error) {
	compiled, err := r.Compiled(id)
	if err != nil {
		return nil, err
	}
	return compiled.Validate(values), nil
}
