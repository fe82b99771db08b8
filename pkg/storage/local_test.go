package storage

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[{"manifest_type_id":"image_crop","schema":{"ManifestTypeID":"image_crop","Fields":[]}}]`

func TestLocalStorage_GetPut(t *testing.T) {
	tmpDir := t.TempDir()
	catalogPath := filepath.Join(tmpDir, "catalog.json")

	backend := NewLocalStorage()
	ctx := context.Background()

	uri := "file://" + catalogPath
	require.NoError(t, backend.Put(ctx, uri, strings.NewReader(sampleCatalog)))
	assert.FileExists(t, catalogPath)

	reader, err := backend.Get(ctx, uri)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)

	var decoded []struct {
		ManifestTypeID string `json:"manifest_type_id"`
	}
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "image_crop", decoded[0].ManifestTypeID)
}

func TestLocalStorage_GetRejectsNonFileScheme(t *testing.T) {
	backend := NewLocalStorage()

	_, err := backend.Get(context.Background(), "https://registry.example.com/catalog.json")
	assert.ErrorContains(t, err, "only supports file://")
}

func TestLocalStorage_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	catalogPath := filepath.Join(tmpDir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(sampleCatalog), 0644))

	backend := NewLocalStorage()
	ctx := context.Background()

	exists, err := backend.Exists(ctx, "file://"+catalogPath)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = backend.Exists(ctx, "file://"+filepath.Join(tmpDir, "missing-catalog.json"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	catalogPath := filepath.Join(tmpDir, "deprecated-catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(sampleCatalog), 0644))

	backend := NewLocalStorage()
	ctx := context.Background()

	require.NoError(t, backend.Delete(ctx, "file://"+catalogPath))

	_, err := os.Stat(catalogPath)
	assert.True(t, os.IsNotExist(err))
}
