package schemaparse

import (
	"sync"

	"github.com/vflowhq/workflow-engine/pkg/block"
)

// Cache memoizes Parse results per manifest type id. The same block type's
// schema is parsed repeatedly across compilations that share one registry;
// since a Parsed value holds no manifest-instance data, only class-level
// schema, it stays valid for the registry's entire lifetime (registries are
// immutable once sealed).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Parsed
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Parsed)}
}

// Get returns the cached Parsed schema for manifestTypeID, parsing and
// caching it on first use. A parse failure is never cached, so a
// subsequently-corrected schema (e.g. re-registered before Seal) is
// re-parsed on the next call.
func (c *Cache) Get(schema block.ManifestSchema) (*Parsed, error) {
	id := schema.ManifestTypeID

	c.mu.RLock()
	if p, ok := c.entries[id]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	parsed, err := Parse(schema)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[id] = parsed
	c.mu.Unlock()

	return parsed, nil
}
