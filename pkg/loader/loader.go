package loader

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// UploadKind tells the extractor how to read an uploaded file.
type UploadKind string

const (
	UploadKindImage UploadKind = "image"
	UploadKindJSON  UploadKind = "json"
	UploadKindText  UploadKind = "text"
)

var kindsByExtension = map[string]UploadKind{
	".png":  UploadKindImage,
	".jpg":  UploadKindImage,
	".jpeg": UploadKindImage,
	".bmp":  UploadKindImage,
	".json": UploadKindJSON,
	".txt":  UploadKindText,
	".ged":  UploadKindText,
}

// UnsupportedTypeError is returned for uploads whose extension no extractor
// understands.
type UnsupportedTypeError struct {
	Extension string
}

func (e *UnsupportedTypeError) Error() string {
	return "Unsupported upload type: " + e.Extension
}

// KindFromPath returns the upload kind for the lower-cased extension of path.
func KindFromPath(path string) (UploadKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := kindsByExtension[ext]
	if !ok {
		return "", &UnsupportedTypeError{Extension: ext}
	}
	return kind, nil
}

// Base64File is a file encoded for vision model requests. FileType holds
// the data URL prefix, for example "data:image/png;base64,".
type Base64File struct {
	Base64   string `json:"base64"`
	FileType string `json:"file_type"`
}

// DataURL returns the file as a complete data URL.
func (b Base64File) DataURL() string {
	return b.FileType + b.Base64
}

// UploadFile is a file submitted for pedigree extraction. Its content is
// read through Loader.
type UploadFile struct {
	ID       string
	FilePath string
	Kind     UploadKind
	Loader   FileLoader
}

// NewUploadFileParams holds the inputs of NewUploadFile. An empty ID is
// replaced by a generated one.
type NewUploadFileParams struct {
	ID       string
	FilePath string
	Loader   FileLoader
}

// NewUploadFile creates an UploadFile and determines its kind from the file
// extension. Unknown extensions yield an *UnsupportedTypeError.
func NewUploadFile(params NewUploadFileParams) (UploadFile, error) {
	kind, err := KindFromPath(params.FilePath)
	if err != nil {
		return UploadFile{}, err
	}

	id := params.ID
	if id == "" {
		id, err = gonanoid.New()
		if err != nil {
			return UploadFile{}, fmt.Errorf("failed to generate upload id: %w", err)
		}
	}

	return UploadFile{
		ID:       id,
		FilePath: params.FilePath,
		Kind:     kind,
		Loader:   params.Loader,
	}, nil
}

// GetContent returns the raw bytes of the file.
func (f UploadFile) GetContent(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileContent(ctx, f)
}

// GetBase64 returns the file encoded as base64.
func (f UploadFile) GetBase64(ctx context.Context) (Base64File, error) {
	return f.Loader.GetBase64(ctx, f)
}

// FileLoader reads upload contents. Implementations may load files from
// disk, object storage, or decorate another loader.
type FileLoader interface {
	GetFileContent(ctx context.Context, file UploadFile) ([]byte, error)
	GetBase64(ctx context.Context, file UploadFile) (Base64File, error)
}

// CacheKey identifies a file in loader caches.
func CacheKey(file UploadFile) string {
	return file.ID + ":" + file.FilePath
}

// Base64Prefix returns the data URL prefix matching the extension of
// filePath.
func Base64Prefix(filePath string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filePath)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if i := strings.Index(mimeType, ";"); i != -1 {
		mimeType = mimeType[:i]
	}
	return fmt.Sprintf("data:%s;base64,", mimeType)
}
