package transform

import (
	"fmt"
	"sort"
	"sync"

	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
)

// Registry resolves transformer names used in map files.
type Registry interface {
	Get(name string) (matchmap.Transformer, error)
	List() []string
}

// StaticRegistry is a thread-safe name to Transformer table.
type StaticRegistry struct {
	transformers map[string]matchmap.Transformer
	mu           sync.RWMutex
}

// NewStaticRegistry creates an empty registry.
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{transformers: make(map[string]matchmap.Transformer)}
}

// Register adds fn under name. Empty names, nil functions and duplicates are
// rejected with a ConfigError.
func (r *StaticRegistry) Register(name string, fn matchmap.Transformer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return mmerrors.NewConfigError("transformer registration error: name cannot be empty", nil)
	}
	if fn == nil {
		return mmerrors.NewConfigError(fmt.Sprintf("transformer registration error for '%s': function cannot be nil", name), nil)
	}
	if _, exists := r.transformers[name]; exists {
		return mmerrors.NewConfigError(fmt.Sprintf("transformer registration error: duplicate name '%s'", name), nil)
	}
	r.transformers[name] = fn
	return nil
}

// Get returns the transformer registered under name, or a
// TransformerNotFoundError.
func (r *StaticRegistry) Get(name string) (matchmap.Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.transformers[name]
	if !exists {
		return nil, mmerrors.NewTransformerNotFoundError(name)
	}
	return fn, nil
}

// List returns the registered names, sorted.
func (r *StaticRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.transformers))
	for name := range r.transformers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	globalRegistry = NewStaticRegistry()

	_ Registry = (*StaticRegistry)(nil)
)

// Register adds fn to the global registry. It panics on error because it is
// meant to be called from init functions.
func Register(name string, fn matchmap.Transformer) {
	if err := globalRegistry.Register(name, fn); err != nil {
		panic(fmt.Errorf("failed to register transformer '%s' globally: %w", name, err))
	}
}

// Default returns the global registry, which holds the built-in transformers.
func Default() Registry {
	return globalRegistry
}
