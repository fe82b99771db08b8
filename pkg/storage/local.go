package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage reads and writes catalog documents on the local filesystem,
// for the common case of a block catalog checked into the same repository
// (or volume) as the compiler that loads it.
type LocalStorage struct{}

// NewLocalStorage creates a new local storage backend.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// Get opens the catalog document at uri for reading.
func (ls *LocalStorage) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	scheme, path, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if scheme != "file" {
		return nil, fmt.Errorf("local storage only supports file:// catalog URIs, got %s://", scheme)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog document: %w", err)
	}

	return file, nil
}

// Put writes a catalog document to uri, creating parent directories as
// needed — used when a build step publishes a freshly-assembled catalog
// for the compiler to pick up on its next Load.
func (ls *LocalStorage) Put(ctx context.Context, uri string, data io.Reader) error {
	scheme, path, err := ParseURI(uri)
	if err != nil {
		return err
	}

	if scheme != "file" {
		return fmt.Errorf("local storage only supports file:// catalog URIs, got %s://", scheme)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog document: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return fmt.Errorf("failed to write catalog document: %w", err)
	}

	return nil
}

// Delete removes a catalog document, e.g. when retiring a deprecated
// catalog version.
func (ls *LocalStorage) Delete(ctx context.Context, uri string) error {
	scheme, path, err := ParseURI(uri)
	if err != nil {
		return err
	}

	if scheme != "file" {
		return fmt.Errorf("local storage only supports file:// catalog URIs, got %s://", scheme)
	}

	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete catalog document: %w", err)
	}

	return nil
}

// Exists reports whether a catalog document is present at uri, so a
// caller can fall back to a bundled default catalog when it is not.
func (ls *LocalStorage) Exists(ctx context.Context, uri string) (bool, error) {
	scheme, path, err := ParseURI(uri)
	if err != nil {
		return false, err
	}

	if scheme != "file" {
		return false, fmt.Errorf("local storage only supports file:// catalog URIs, got %s://", scheme)
	}

	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
