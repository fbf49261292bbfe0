package io

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
)

// MemoryFileLoader serves uploads held in memory, such as multipart request
// bodies, keyed by upload id.
type MemoryFileLoader struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFileLoader() *MemoryFileLoader {
	return &MemoryFileLoader{files: make(map[string][]byte)}
}

// Put stores content for the upload id.
func (l *MemoryFileLoader) Put(id string, content []byte) {
	l.mu.Lock()
	l.files[id] = content
	l.mu.Unlock()
}

// Delete removes the content of the upload id.
func (l *MemoryFileLoader) Delete(id string) {
	l.mu.Lock()
	delete(l.files, id)
	l.mu.Unlock()
}

func (l *MemoryFileLoader) GetFileContent(ctx context.Context, file loader.UploadFile) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	content, ok := l.files[file.ID]
	if !ok {
		return nil, fmt.Errorf("no content stored for upload %s", file.ID)
	}
	return content, nil
}

func (l *MemoryFileLoader) GetBase64(ctx context.Context, file loader.UploadFile) (loader.Base64File, error) {
	content, err := l.GetFileContent(ctx, file)
	if err != nil {
		return loader.Base64File{}, err
	}
	return loader.Base64File{
		Base64:   base64.StdEncoding.EncodeToString(content),
		FileType: loader.Base64Prefix(file.FilePath),
	}, nil
}
