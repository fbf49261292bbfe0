package export

import (
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of generated QR codes.
const DefaultQRSize = 512

// QRPayload returns the compact JSON encoded into pedigree QR codes. It is
// accepted by pedigree.LoadPayload.
func QRPayload(p pedigree.Pedigree) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode pedigree: %w", err)
	}
	return string(data), nil
}

// ToQRCode returns a PNG QR code holding the pedigree JSON. A size <= 0
// selects DefaultQRSize.
func ToQRCode(p pedigree.Pedigree, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	payload, err := QRPayload(p)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
