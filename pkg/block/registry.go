package block

import (
	"fmt"
	"sync"
)

// Registry stores registered block descriptors, keyed by manifest type id.
// Registration happens once, before any compilation begins; Seal freezes
// the registry so the compiler can treat it as immutable shared state
// safely read from concurrent compilations.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
	sealed      bool
}

// NewRegistry creates an empty, unsealed Registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
	}
}

// Register adds a descriptor under its ManifestTypeID, overwriting any
// prior registration of the same id. Register panics if the registry has
// already been sealed, since a sealed registry is meant to be read-only for
// the remainder of the process.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		panic(fmt.Sprintf("block: cannot register %q on a sealed registry", d.ManifestTypeID()))
	}
	r.descriptors[d.ManifestTypeID()] = d
}

// Seal marks the registry read-only. Subsequent Register calls panic.
// Compilations are safe to run concurrently against a sealed registry.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Get retrieves a descriptor by manifest type id.
func (r *Registry) Get(manifestTypeID string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[manifestTypeID]
	if !ok {
		return nil, fmt.Errorf("block: manifest type %q is not registered", manifestTypeID)
	}
	return d, nil
}

// List returns every registered descriptor. Order is unspecified.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		result = append(result, d)
	}
	return result
}
