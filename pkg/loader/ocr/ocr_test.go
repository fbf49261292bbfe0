package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/ai"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
	lio "github.com/OFFIS-RIT/pedigree/backend/pkg/loader/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type visionClient struct {
	calls    atomic.Int32
	mu       sync.Mutex
	prompts  []string
	prefixes []string
	fail     bool
}

func (v *visionClient) GenerateChat(context.Context, []ai.ChatMessage, ...ai.GenerateOption) (string, error) {
	return "", errors.New("not implemented")
}

func (v *visionClient) GenerateCompletionWithFormat(context.Context, string, string, string, any, ...ai.GenerateOption) error {
	return errors.New("not implemented")
}

// GenerateImageDescription echoes the decoded image bytes.
func (v *visionClient) GenerateImageDescription(_ context.Context, prompt string, image loader.Base64File) (string, error) {
	v.calls.Add(1)
	v.mu.Lock()
	v.prompts = append(v.prompts, prompt)
	v.prefixes = append(v.prefixes, image.FileType)
	v.mu.Unlock()
	if v.fail {
		return "", errors.New("vision model down")
	}
	raw, err := base64.StdEncoding.DecodeString(image.Base64)
	if err != nil {
		return "", err
	}
	return " " + string(raw) + "\n", nil
}

func (v *visionClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func TestProcessImagesKeepsPageOrder(t *testing.T) {
	client := &visionClient{}
	l := NewOCRFileLoader(NewOCRFileLoaderParams{AIClient: client, Parallel: 3})

	pages := []Page{
		{Content: []byte("page one"), FileType: "data:image/png;base64,"},
		{Content: []byte("page two"), FileType: "data:image/png;base64,"},
		{Content: []byte("page three"), FileType: "data:image/png;base64,"},
	}
	out, err := l.ProcessImages(context.Background(), pages)
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two\n\npage three", string(out))
	assert.EqualValues(t, 3, client.calls.Load())
	for _, prompt := range client.prompts {
		assert.Equal(t, ai.TranscribePrompt, prompt)
	}
}

func TestGetFileContentIsCached(t *testing.T) {
	client := &visionClient{}
	mem := lio.NewMemoryFileLoader()
	mem.Put("photo", []byte("Mother: diabetes"))

	l := NewOCRFileLoader(NewOCRFileLoaderParams{Loader: mem, AIClient: client})
	file := loader.UploadFile{ID: "photo", FilePath: "photo.jpg", Kind: loader.UploadKindImage, Loader: l}

	for range 3 {
		text, err := file.GetContent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Mother: diabetes", string(text))
	}
	assert.EqualValues(t, 1, client.calls.Load())
	assert.Equal(t, []string{"data:image/jpeg;base64,"}, client.prefixes)

	l.InvalidateCache(file)
	_, err := file.GetContent(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, client.calls.Load())
}

func TestGetFileContentErrorsAreNotCached(t *testing.T) {
	client := &visionClient{fail: true}
	mem := lio.NewMemoryFileLoader()
	mem.Put("photo", []byte("x"))

	l := NewOCRFileLoader(NewOCRFileLoaderParams{Loader: mem, AIClient: client})
	file := loader.UploadFile{ID: "photo", FilePath: "photo.png", Loader: l}

	_, err := file.GetContent(context.Background())
	require.Error(t, err)

	client.fail = false
	text, err := file.GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", string(text))
}
