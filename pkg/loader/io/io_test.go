package io

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOFileLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "family.json"), []byte(`{"people":[]}`), 0o600))

	l := NewIOFileLoader(dir)
	file := loader.UploadFile{ID: "1", FilePath: "family.json", Loader: l}

	content, err := file.GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"people":[]}`, string(content))

	// Served from cache until invalidated.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "family.json"), []byte(`{}`), 0o600))
	content, err = file.GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"people":[]}`, string(content))

	l.InvalidateCache(file)
	content, err = file.GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(content))

	encoded, err := file.GetBase64(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "data:application/json;base64,", encoded.FileType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(`{}`)), encoded.Base64)
}

func TestIOFileLoaderMissingFile(t *testing.T) {
	l := NewIOFileLoader(t.TempDir())
	_, err := l.GetFileContent(context.Background(), loader.UploadFile{ID: "x", FilePath: "missing.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryFileLoader(t *testing.T) {
	l := NewMemoryFileLoader()
	file := loader.UploadFile{ID: "abc", FilePath: "scan.png", Loader: l}

	_, err := file.GetContent(context.Background())
	require.Error(t, err)

	l.Put("abc", []byte{1, 2, 3})
	content, err := file.GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, content)

	encoded, err := file.GetBase64(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AQID", encoded.DataURL())

	l.Delete("abc")
	_, err = file.GetContent(context.Background())
	require.Error(t, err)
}
