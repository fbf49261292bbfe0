package io

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
)

// IOFileLoader loads uploads from the local filesystem with caching. When a
// root directory is set, relative paths are resolved against it.
type IOFileLoader struct {
	root  string
	cache *loader.Cache
}

// NewIOFileLoader creates a filesystem loader. An empty root leaves paths
// untouched.
func NewIOFileLoader(root string) *IOFileLoader {
	return &IOFileLoader{
		root:  root,
		cache: loader.NewCache(),
	}
}

func (l *IOFileLoader) resolve(path string) string {
	if l.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.root, path)
}

// GetFileContent reads the file from disk. Results are cached.
func (l *IOFileLoader) GetFileContent(ctx context.Context, file loader.UploadFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(l.resolve(file.FilePath))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.FilePath, err)
		}
		return content, nil
	})
}

// GetBase64 reads the file and encodes it with a MIME type matching its
// extension.
func (l *IOFileLoader) GetBase64(ctx context.Context, file loader.UploadFile) (loader.Base64File, error) {
	content, err := l.GetFileContent(ctx, file)
	if err != nil {
		return loader.Base64File{}, err
	}
	return loader.Base64File{
		Base64:   base64.StdEncoding.EncodeToString(content),
		FileType: loader.Base64Prefix(file.FilePath),
	}, nil
}

// InvalidateCache drops the cached content of file.
func (l *IOFileLoader) InvalidateCache(file loader.UploadFile) {
	l.cache.Invalidate(loader.CacheKey(file))
}
