// Package registrysrc loads a block catalog from external storage: a JSON
// array of block.CatalogEntry values fetched through pkg/storage's
// scheme-dispatched backend abstraction.
package registrysrc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vflowhq/workflow-engine/pkg/block"
	"github.com/vflowhq/workflow-engine/pkg/storage"
)

// Load fetches uri through backend and decodes it as a JSON array of
// block.CatalogEntry. It does not register anything: a caller pairs each
// entry's schema with a live Descriptor (or wraps it in a
// block.StaticDescriptor when every output is manifest-insensitive) before
// calling Registry.Register.
func Load(ctx context.Context, backend storage.Storage, uri string) ([]block.CatalogEntry, error) {
	scheme, _, err := storage.ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("registrysrc: %w", err)
	}
	if !storage.IsAllowedScheme(scheme) {
		return nil, fmt.Errorf("registrysrc: scheme %q is not in the allowed list", scheme)
	}

	reader, err := backend.Get(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("registrysrc: fetching %s: %w", uri, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("registrysrc: reading %s: %w", uri, err)
	}

	var entries []block.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("registrysrc: decoding catalog from %s: %w", uri, err)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ManifestTypeID == "" {
			return nil, fmt.Errorf("registrysrc: catalog entry from %s has an empty manifest_type_id", uri)
		}
		if _, dup := seen[e.ManifestTypeID]; dup {
			return nil, fmt.Errorf("registrysrc: catalog from %s declares %q more than once", uri, e.ManifestTypeID)
		}
		seen[e.ManifestTypeID] = struct{}{}
	}

	return entries, nil
}

// RegisterStatic loads the catalog at uri and registers every entry as a
// block.StaticDescriptor. A CatalogEntry carries no output kinds, so every
// descriptor registered this way declares zero outputs and is treated as a
// side-effecting terminal block. Entries whose blocks declare outputs are
// registered through Load plus a hand-written Descriptor instead.
func RegisterStatic(ctx context.Context, backend storage.Storage, uri string, registry *block.Registry) error {
	entries, err := Load(ctx, backend, uri)
	if err != nil {
		return err
	}
	for _, e := range entries {
		registry.Register(block.NewStaticDescriptor(e.Schema, nil))
	}
	return nil
}
