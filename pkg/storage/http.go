package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPStorage fetches catalog documents served by a registry host — a
// build artifact server, CDN, or internal catalog service — over
// HTTP/HTTPS. Publishing is out of scope: catalogs reach an HTTP endpoint
// through whatever deploys that endpoint, not through this backend.
type HTTPStorage struct {
	client *http.Client
}

// NewHTTPStorage creates a new HTTP storage backend.
func NewHTTPStorage() *HTTPStorage {
	return &HTTPStorage{
		client: &http.Client{},
	}
}

// Get downloads the catalog document at uri.
func (hs *HTTPStorage) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	scheme, _, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("HTTP storage only supports http:// and https:// catalog URIs, got %s://", scheme)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("catalog fetch failed with status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// Put is not supported: a registry host publishes its own catalog, this
// backend only reads it.
func (hs *HTTPStorage) Put(ctx context.Context, uri string, data io.Reader) error {
	return fmt.Errorf("HTTP storage does not support publishing catalogs (read-only)")
}

// Delete is not supported for the same reason as Put.
func (hs *HTTPStorage) Delete(ctx context.Context, uri string) error {
	return fmt.Errorf("HTTP storage does not support deleting catalogs (read-only)")
}

// Exists checks whether a catalog document is reachable at uri via HEAD,
// without downloading it — useful for probing a registry host before a
// full Load.
func (hs *HTTPStorage) Exists(ctx context.Context, uri string) (bool, error) {
	scheme, _, err := ParseURI(uri)
	if err != nil {
		return false, err
	}

	if scheme != "http" && scheme != "https" {
		return false, fmt.Errorf("HTTP storage only supports http:// and https:// catalog URIs, got %s://", scheme)
	}

	req, err := http.NewRequestWithContext(ctx, "HEAD", uri, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build catalog probe request: %w", err)
	}

	resp, err := hs.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to probe catalog: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
