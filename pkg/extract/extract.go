// Package extract turns uploaded documents into validated pedigrees.
//
// JSON files are loaded directly and text files are searched for an
// embedded JSON object. Images are first scanned for a QR code carrying a
// pedigree; when none is found the image is transcribed by a vision model
// and the transcription is handled like a text file. Text without a usable
// JSON object is converted by a language model with structured output when
// one is configured.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/OFFIS-RIT/pedigree/backend/internal/util"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/ai"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader/ocr"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader/qr"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

// Source names the path that produced a pedigree.
type Source string

const (
	SourceJSON  Source = "json"
	SourceText  Source = "text"
	SourceQR    Source = "qr"
	SourceOCR   Source = "ocr"
	SourceModel Source = "model"
)

// ErrNoAIClient is returned when an image carries no QR code and no vision
// model is configured to transcribe it.
var ErrNoAIClient = errors.New("no AI client configured")

// Result is an extracted pedigree together with how it was obtained.
type Result struct {
	Pedigree pedigree.Pedigree `json:"pedigree"`
	Source   Source            `json:"source"`
	// Transcription holds the OCR text of image uploads.
	Transcription string `json:"transcription,omitempty"`
}

// Extractor is safe for concurrent use.
type Extractor struct {
	aiClient   ai.PedigreeAIClient
	model      string
	maxRetries int
	ocr        *ocr.OCRFileLoader
}

// NewExtractorParams configures an Extractor. AIClient may be nil, in which
// case only JSON payloads (in files, text or QR codes) can be extracted.
type NewExtractorParams struct {
	AIClient ai.PedigreeAIClient
	Model    string
	// MaxRetries bounds the attempts of a structured model request.
	// Defaults to 1.
	MaxRetries  int
	OCRParallel int
}

func NewExtractor(params NewExtractorParams) *Extractor {
	e := &Extractor{
		aiClient:   params.AIClient,
		model:      params.Model,
		maxRetries: params.MaxRetries,
	}
	if params.AIClient != nil {
		e.ocr = ocr.NewOCRFileLoader(ocr.NewOCRFileLoaderParams{
			Loader:   uploadLoader{},
			AIClient: params.AIClient,
			Parallel: params.OCRParallel,
		})
	}
	return e
}

// uploadLoader reads a file through the loader it was uploaded with.
type uploadLoader struct{}

func (uploadLoader) GetFileContent(ctx context.Context, file loader.UploadFile) ([]byte, error) {
	return file.Loader.GetFileContent(ctx, file)
}

func (uploadLoader) GetBase64(ctx context.Context, file loader.UploadFile) (loader.Base64File, error) {
	return file.Loader.GetBase64(ctx, file)
}

// FromUpload extracts the pedigree of an uploaded file. Files of unknown
// kind yield an *loader.UnsupportedTypeError; payloads that do not form a
// valid pedigree yield a *pedigree.ValidationError.
func (e *Extractor) FromUpload(ctx context.Context, file loader.UploadFile) (Result, error) {
	logger.Debug("[Extract] Processing upload", "id", file.ID, "path", file.FilePath, "kind", file.Kind)

	switch file.Kind {
	case loader.UploadKindJSON:
		content, err := file.GetContent(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("failed to read upload: %w", err)
		}
		p, err := pedigree.LoadPayload(string(content))
		if err != nil {
			return Result{}, err
		}
		return Result{Pedigree: p, Source: SourceJSON}, nil

	case loader.UploadKindText:
		content, err := file.GetContent(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("failed to read upload: %w", err)
		}
		return e.fromText(ctx, string(content), SourceText)

	case loader.UploadKindImage:
		return e.fromImage(ctx, file)

	default:
		return Result{}, &loader.UnsupportedTypeError{Extension: filepath.Ext(file.FilePath)}
	}
}

func (e *Extractor) fromImage(ctx context.Context, file loader.UploadFile) (Result, error) {
	qrFile := file
	qrFile.Loader = qr.NewQRFileLoader(file.Loader)

	payload, err := qrFile.GetContent(ctx)
	if err == nil {
		p, loadErr := pedigree.LoadPayload(string(payload))
		if loadErr == nil {
			logger.Info("[Extract] Loaded pedigree from QR code", "id", file.ID)
			return Result{Pedigree: p, Source: SourceQR}, nil
		}
		err = loadErr
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	logger.Debug("[Extract] No usable QR payload, falling back to OCR", "id", file.ID, "reason", err)

	if e.ocr == nil {
		return Result{}, fmt.Errorf("cannot transcribe image: %w", ErrNoAIClient)
	}

	text, err := e.ocr.GetFileContent(ctx, file)
	if err != nil {
		return Result{}, fmt.Errorf("failed to transcribe image: %w", err)
	}

	res, err := e.fromText(ctx, string(text), SourceOCR)
	res.Transcription = string(text)
	return res, err
}

func (e *Extractor) fromText(ctx context.Context, text string, source Source) (Result, error) {
	p, err := pedigree.ExtractPayload(text)
	if err == nil {
		return Result{Pedigree: p, Source: source}, nil
	}
	if e.aiClient == nil || !errors.Is(err, pedigree.ErrNoJSONObject) {
		return Result{}, err
	}

	logger.Info("[Extract] No JSON object in text, asking model for a structured pedigree")
	return e.structured(ctx, text)
}

func (e *Extractor) structured(ctx context.Context, text string) (Result, error) {
	prompt := fmt.Sprintf(ai.ExtractPedigreePrompt, text)
	out, err := util.RetryWithContext(ctx, e.maxRetries, func(ctx context.Context) (pedigree.Pedigree, error) {
		var result pedigree.Pedigree
		err := e.aiClient.GenerateCompletionWithFormat(
			ctx,
			"pedigree",
			"A family pedigree with people and relationships",
			prompt,
			&result,
			ai.WithModel(e.model),
			ai.WithTemperature(0),
		)
		return result, err
	})
	if err != nil {
		return Result{}, fmt.Errorf("structured extraction failed: %w", err)
	}
	ai.LogUsage("[Extract]", e.aiClient)

	// Round-trip through the loader so the model output gets the same
	// normalization and validation as any other payload.
	payload, err := json.Marshal(out)
	if err != nil {
		return Result{}, err
	}
	p, err := pedigree.LoadPayload(string(payload))
	if err != nil {
		logger.Warn("[Extract] Model returned an invalid pedigree", "err", err)
		return Result{}, err
	}
	return Result{Pedigree: p, Source: SourceModel}, nil
}
