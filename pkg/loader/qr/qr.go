package qr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/bmp"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
)

// ErrNoQRCode is returned when an image does not contain a readable QR code.
var ErrNoQRCode = errors.New("no QR code detected")

// Decode returns the text of the first QR code found in an encoded image.
// PNG, JPEG, GIF and BMP images are supported.
func Decode(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	return DecodeImage(img)
}

// DecodeImage returns the text of the first QR code found in img.
func DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to binarize image: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoQRCode, err)
	}
	if result.GetText() == "" {
		return "", ErrNoQRCode
	}
	return result.GetText(), nil
}

// QRFileLoader decorates a loader and returns the decoded QR code text of an
// image instead of its bytes.
type QRFileLoader struct {
	loader loader.FileLoader
}

func NewQRFileLoader(base loader.FileLoader) *QRFileLoader {
	return &QRFileLoader{loader: base}
}

// GetFileContent returns the text encoded in the QR code of the image.
func (l *QRFileLoader) GetFileContent(ctx context.Context, file loader.UploadFile) ([]byte, error) {
	content, err := l.loader.GetFileContent(ctx, file)
	if err != nil {
		return nil, err
	}
	text, err := Decode(content)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// GetBase64 returns the underlying image encoded as base64.
func (l *QRFileLoader) GetBase64(ctx context.Context, file loader.UploadFile) (loader.Base64File, error) {
	return l.loader.GetBase64(ctx, file)
}
