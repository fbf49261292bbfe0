package ocr

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/ai"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const defaultParallel = 2

// OCRFileLoader transcribes images with an AI vision model. It decorates a
// loader that provides the image bytes and caches transcriptions.
type OCRFileLoader struct {
	loader   loader.FileLoader
	aiClient ai.PedigreeAIClient
	parallel int

	cache *loader.Cache
}

// NewOCRFileLoaderParams contains configuration for creating an OCRFileLoader.
type NewOCRFileLoaderParams struct {
	Loader   loader.FileLoader
	AIClient ai.PedigreeAIClient
	Parallel int
}

// NewOCRFileLoader creates a new OCR loader that extracts text from images using AI.
func NewOCRFileLoader(params NewOCRFileLoaderParams) *OCRFileLoader {
	parallel := params.Parallel
	if parallel <= 0 {
		parallel = defaultParallel
	}
	return &OCRFileLoader{
		loader:   params.Loader,
		aiClient: params.AIClient,
		parallel: parallel,
		cache:    loader.NewCache(),
	}
}

// Page is one image to transcribe.
type Page struct {
	Content  []byte
	FileType string
}

// ProcessImages transcribes the pages in parallel and joins the texts in
// page order, one page per block.
func (l *OCRFileLoader) ProcessImages(ctx context.Context, pages []Page) ([]byte, error) {
	output := make([]string, len(pages))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallel)

	for idx, page := range pages {
		g.Go(func() error {
			logger.Debug("[OCR] Processing image", "number", idx+1, "total", len(pages))
			image := loader.Base64File{
				Base64:   base64.StdEncoding.EncodeToString(page.Content),
				FileType: page.FileType,
			}
			text, err := l.aiClient.GenerateImageDescription(gCtx, ai.TranscribePrompt, image)
			if err != nil {
				return err
			}
			output[idx] = strings.TrimSpace(text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []byte(strings.Join(output, "\n\n")), nil
}

// GetFileContent loads an image and returns its transcription. Results are
// cached.
func (l *OCRFileLoader) GetFileContent(ctx context.Context, file loader.UploadFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		content, err := l.loader.GetFileContent(ctx, file)
		if err != nil {
			return nil, err
		}
		return l.ProcessImages(ctx, []Page{{
			Content:  content,
			FileType: loader.Base64Prefix(file.FilePath),
		}})
	})
}

// GetBase64 returns the image encoded as base64.
func (l *OCRFileLoader) GetBase64(ctx context.Context, file loader.UploadFile) (loader.Base64File, error) {
	return l.loader.GetBase64(ctx, file)
}

// InvalidateCache removes a specific file from the cache
func (l *OCRFileLoader) InvalidateCache(file loader.UploadFile) {
	l.cache.Invalidate(loader.CacheKey(file))
}
